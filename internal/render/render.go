// Package render turns a profile into a Markdown résumé.
package render

import (
	"fmt"
	"strings"

	"github.com/spigell/resume-builder/internal/profile"
)

const (
	maxExperience = 4
	maxBullets    = 6

	skillSeparator = " • "
)

// Render formats p as Markdown. It is pure: the same profile always yields the
// same document. Sections without data are left out.
func Render(p *profile.Profile) string {
	if p == nil {
		return ""
	}

	var blocks []string

	header := false
	if name := strings.TrimSpace(p.ContactInfo.FullName); name != "" {
		blocks = append(blocks, "# "+name)
		header = true
	}
	if contact := contactLine(p.ContactInfo); contact != "" {
		blocks = append(blocks, contact)
		header = true
	}
	if header {
		blocks = append(blocks, "---")
	}

	if summary := strings.TrimSpace(p.ProfessionalSummary); summary != "" {
		blocks = append(blocks, "## Professional Summary\n\n"+summary)
	}

	if section := experienceSection(p.Experience); section != "" {
		blocks = append(blocks, section)
	}

	if section := educationSection(p.Education); section != "" {
		blocks = append(blocks, section)
	}

	if skills := nonEmpty(p.TechnicalSkills); len(skills) > 0 {
		blocks = append(blocks, "## Technical Skills\n\n"+strings.Join(skills, skillSeparator))
	}

	if certs := nonEmpty(p.Certifications); len(certs) > 0 {
		lines := make([]string, 0, len(certs))
		for _, c := range certs {
			lines = append(lines, "- "+c)
		}
		blocks = append(blocks, "## Certifications\n\n"+strings.Join(lines, "\n"))
	}

	if langs := nonEmpty(p.Languages); len(langs) > 0 {
		blocks = append(blocks, "## Languages\n\n"+strings.Join(langs, skillSeparator))
	}

	if len(blocks) == 0 {
		return ""
	}

	return strings.Join(blocks, "\n\n") + "\n"
}

func contactLine(c profile.ContactInfo) string {
	var parts []string
	if email := strings.TrimSpace(c.Email); email != "" {
		parts = append(parts, email)
	}
	if location := strings.TrimSpace(c.Location); location != "" {
		parts = append(parts, location)
	}
	if linkedin := strings.TrimSpace(c.LinkedIn); linkedin != "" {
		parts = append(parts, fmt.Sprintf("[LinkedIn](%s)", linkedin))
	}
	return strings.Join(parts, " | ")
}

func experienceSection(entries []profile.Experience) string {
	var items []string
	for _, e := range entries {
		if len(items) == maxExperience {
			break
		}
		title := strings.TrimSpace(e.JobTitle)
		company := strings.TrimSpace(e.CompanyOrProduct)
		if title == "" && company == "" {
			continue
		}

		var lines []string
		if title != "" {
			lines = append(lines, "### "+title)
		}
		if company != "" {
			lines = append(lines, "**"+company+"**")
		}
		if period := dateRange(e); period != "" {
			lines = append(lines, "*"+period+"*")
		}

		if bullets := nonEmpty(e.Bullets); len(bullets) > 0 {
			if len(bullets) > maxBullets {
				bullets = bullets[:maxBullets]
			}
			lines = append(lines, "")
			for _, b := range bullets {
				lines = append(lines, "- "+b)
			}
		}

		items = append(items, strings.Join(lines, "\n"))
	}

	if len(items) == 0 {
		return ""
	}
	return "## Professional Experience\n\n" + strings.Join(items, "\n\n")
}

func dateRange(e profile.Experience) string {
	start := strings.TrimSpace(e.StartDate)
	end := strings.TrimSpace(e.EndDate)
	if e.IsCurrent {
		end = "Present"
	}

	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	case end != "":
		return end
	default:
		return ""
	}
}

func educationSection(entries []profile.Education) string {
	var items []string
	for _, e := range entries {
		degree := strings.TrimSpace(e.Degree)
		institution := strings.TrimSpace(e.Institution)
		if degree == "" && institution == "" {
			continue
		}

		var lines []string
		if degree != "" {
			lines = append(lines, "### "+degree)
		}
		if institution != "" {
			lines = append(lines, "**"+institution+"**")
		}
		if date := strings.TrimSpace(e.GraduationDate); date != "" {
			lines = append(lines, "*"+date+"*")
		}
		items = append(items, strings.Join(lines, "\n"))
	}

	if len(items) == 0 {
		return ""
	}
	return "## Education\n\n" + strings.Join(items, "\n\n")
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
