package clarify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/resume-builder/internal/profile"
)

var (
	monthFirst = regexp.MustCompile(`^(\d{1,2})\s*[/.\-]\s*(\d{4})$`)
	yearFirst  = regexp.MustCompile(`^(\d{4})\s*[/.\-]\s*(\d{1,2})$`)

	monthLayouts = []string{"January 2006", "Jan 2006", "January, 2006", "Jan, 2006"}

	ongoing = map[string]bool{"present": true, "current": true, "now": true, "ongoing": true}

	bulletSplit = regexp.MustCompile(`[\n;]+`)
	listSplit   = regexp.MustCompile(`[\n,]+`)
)

// normalizeDate turns common month/year spellings into MM/YYYY. ok is false
// when the answer is not recognised as a date; current is true for answers
// meaning "still ongoing".
func normalizeDate(answer string) (value string, current bool, ok bool) {
	answer = strings.TrimSpace(answer)
	if ongoing[strings.ToLower(answer)] {
		return "", true, true
	}

	if m := monthFirst.FindStringSubmatch(answer); m != nil {
		return formatDate(m[1], m[2])
	}
	if m := yearFirst.FindStringSubmatch(answer); m != nil {
		return formatDate(m[2], m[1])
	}
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, answer); err == nil {
			return t.Format("01/2006"), false, true
		}
	}
	return "", false, false
}

func formatDate(month, year string) (string, bool, bool) {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return "", false, false
	}
	return fmt.Sprintf("%02d/%s", m, year), false, true
}

// merge writes a non-blank answer into the field it answers. Bullets that
// already had content are replaced; other lists are extended.
func merge(p *profile.Profile, f profile.Field, answer string) {
	answer = strings.TrimSpace(answer)

	if f.IsDate() {
		mergeDate(p, f, answer)
		return
	}

	if list := p.List(f); list != nil {
		if f.Name == "bullets" {
			*list = splitItems(answer, bulletSplit)
		} else {
			*list = profile.Dedupe(append(*list, splitItems(answer, listSplit)...))
		}
		return
	}

	if text := p.Text(f); text != nil {
		*text = answer
	}
}

func mergeDate(p *profile.Profile, f profile.Field, answer string) {
	text := p.Text(f)
	if text == nil {
		return
	}

	value, current, ok := normalizeDate(answer)
	switch {
	case !ok:
		// kept verbatim so that finalizing reports it
		*text = answer
	case current && f.Name == "end_date":
		p.Experience[f.Index].IsCurrent = true
		*text = ""
	case current:
		*text = answer
	default:
		*text = value
		if f.Name == "end_date" {
			p.Experience[f.Index].IsCurrent = false
		}
	}
}

// reset empties a field whose value the human declined to correct.
func reset(p *profile.Profile, f profile.Field) {
	if text := p.Text(f); text != nil {
		*text = ""
		return
	}
	if list := p.List(f); list != nil {
		*list = []string{}
	}
}

func splitItems(answer string, sep *regexp.Regexp) []string {
	parts := sep.Split(answer, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		part = strings.TrimLeft(part, "-•* ")
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
