package clarify

import (
	"sort"
	"strings"

	"github.com/spigell/resume-builder/internal/profile"
	"go.uber.org/zap"
)

var requiredExperience = []string{"job_title", "company_or_product", "start_date"}

var requiredEducation = []string{"degree", "institution"}

var trailingOrder = map[string]int{
	profile.SectionSummary:        0,
	profile.SectionCertifications: 1,
	profile.SectionLanguages:      2,
}

// normalizeHints resolves the oracle's advisory paths against the profile.
// Unknown paths are dropped and bare contact names get their section.
// Index-less record paths expand to the entries where the field is empty, or
// to every entry when none is empty.
func normalizeHints(p *profile.Profile, hints []string, logger *zap.Logger) []string {
	out := make([]string, 0, len(hints))
	seen := make(map[string]struct{}, len(hints))
	add := func(f profile.Field) {
		key := f.String()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}

	for _, hint := range hints {
		hint = strings.TrimSpace(hint)
		fields := resolveHint(p, hint)
		if len(fields) == 0 {
			logger.Debug("dropping clarification hint", zap.String("hint", hint))
			continue
		}
		for _, f := range fields {
			add(f)
		}
	}

	return out
}

func resolveHint(p *profile.Profile, hint string) []profile.Field {
	if f, err := profile.ParseField(hint); err == nil {
		if !p.Exists(f) {
			return nil
		}
		return []profile.Field{f}
	}

	if profile.IsContactField(hint) {
		return []profile.Field{{Section: profile.SectionContact, Index: -1, Name: hint}}
	}

	section, name, ok := strings.Cut(hint, ".")
	if !ok {
		return nil
	}

	var size int
	switch section {
	case profile.SectionExperience:
		size = len(p.Experience)
	case profile.SectionEducation:
		size = len(p.Education)
	default:
		return nil
	}

	var all, empty []profile.Field
	for i := 0; i < size; i++ {
		f := profile.Field{Section: section, Index: i, Name: name}
		if _, err := profile.ParseField(f.String()); err != nil {
			return nil
		}
		all = append(all, f)
		if p.IsEmpty(f) {
			empty = append(empty, f)
		}
	}
	if len(empty) > 0 {
		return empty
	}
	return all
}

// requiredGaps lists required fields that are empty in the profile.
func requiredGaps(p *profile.Profile) []profile.Field {
	var gaps []profile.Field
	name := profile.Field{Section: profile.SectionContact, Index: -1, Name: "full_name"}
	if p.IsEmpty(name) {
		gaps = append(gaps, name)
	}
	for i := range p.Experience {
		for _, n := range requiredExperience {
			f := profile.Field{Section: profile.SectionExperience, Index: i, Name: n}
			if p.IsEmpty(f) {
				gaps = append(gaps, f)
			}
		}
	}
	for i := range p.Education {
		for _, n := range requiredEducation {
			f := profile.Field{Section: profile.SectionEducation, Index: i, Name: n}
			if p.IsEmpty(f) {
				gaps = append(gaps, f)
			}
		}
	}
	return gaps
}

// gapSet computes the ordered set of fields still worth asking about.
func gapSet(s *Session) []profile.Field {
	p := s.Profile
	seen := map[string]struct{}{}
	var gaps []profile.Field

	add := func(f profile.Field) {
		key := f.String()
		if _, ok := seen[key]; ok {
			return
		}
		if _, ok := s.Settled[key]; ok {
			return
		}
		seen[key] = struct{}{}
		gaps = append(gaps, f)
	}

	for _, key := range s.Invalid {
		if f, err := profile.ParseField(key); err == nil && p.Exists(f) {
			add(f)
		}
	}

	// Hints may name filled fields the oracle found vague or ambiguous.
	for _, key := range s.Hints {
		f, err := profile.ParseField(key)
		if err != nil || !p.Exists(f) {
			continue
		}
		if f.Name == "end_date" && p.Experience[f.Index].IsCurrent {
			continue
		}
		add(f)
	}

	for _, f := range requiredGaps(p) {
		add(f)
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		ri, rj := rank(gaps[i]), rank(gaps[j])
		if ri != rj {
			return ri < rj
		}
		if gaps[i].Index != gaps[j].Index {
			return gaps[i].Index < gaps[j].Index
		}
		return fieldOrder(gaps[i]) < fieldOrder(gaps[j])
	})

	return gaps
}

func rank(f profile.Field) int {
	switch f.Section {
	case profile.SectionContact:
		return 0
	case profile.SectionExperience:
		switch f.Name {
		case "start_date", "end_date":
			return 1
		case "bullets":
			return 2
		default:
			return 3
		}
	case profile.SectionEducation:
		return 4
	case profile.SectionSkills:
		return 5
	default:
		return 6
	}
}

func fieldOrder(f profile.Field) int {
	if f.Name == "" {
		return trailingOrder[f.Section]
	}
	for i, name := range profile.SectionFields(f.Section) {
		if name == f.Name {
			return i
		}
	}
	return 0
}

func fieldStrings(fields []profile.Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.String())
	}
	return out
}
