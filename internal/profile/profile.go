// Package profile defines the structured résumé record and the rules that keep it well-formed.
package profile

import (
	"encoding/json"
	"strings"
)

// ContactInfo holds how a candidate can be reached.
type ContactInfo struct {
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// Experience is a single role. Entries keep the order of the source document.
type Experience struct {
	JobTitle         string   `json:"job_title,omitempty"`
	CompanyOrProduct string   `json:"company_or_product,omitempty"`
	StartDate        string   `json:"start_date,omitempty" validate:"mmyyyy"`
	EndDate          string   `json:"end_date,omitempty" validate:"mmyyyy"`
	IsCurrent        bool     `json:"is_current"`
	Bullets          []string `json:"bullets"`
}

type Education struct {
	Degree         string `json:"degree,omitempty"`
	Institution    string `json:"institution,omitempty"`
	GraduationDate string `json:"graduation_date,omitempty" validate:"mmyyyy"`
}

// Profile is the canonical structured record produced by extraction and consumed by rendering.
type Profile struct {
	ContactInfo         ContactInfo  `json:"contact_info"`
	ProfessionalSummary string       `json:"professional_summary,omitempty"`
	Experience          []Experience `json:"experience" validate:"dive"`
	Education           []Education  `json:"education" validate:"dive"`
	TechnicalSkills     []string     `json:"technical_skills"`
	Certifications      []string     `json:"certifications"`
	Languages           []string     `json:"languages"`
}

// Serialize encodes the profile in the same JSON shape Validate accepts.
func Serialize(p *Profile) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Normalize trims every value, drops empty bullets, removes duplicate list
// entries (case-insensitive, first spelling wins) and replaces nil lists with
// empty ones.
func (p *Profile) Normalize() {
	p.ContactInfo.FullName = strings.TrimSpace(p.ContactInfo.FullName)
	p.ContactInfo.Email = strings.TrimSpace(p.ContactInfo.Email)
	p.ContactInfo.Location = strings.TrimSpace(p.ContactInfo.Location)
	p.ContactInfo.LinkedIn = strings.TrimSpace(p.ContactInfo.LinkedIn)
	p.ProfessionalSummary = strings.TrimSpace(p.ProfessionalSummary)

	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	for i := range p.Experience {
		e := &p.Experience[i]
		e.JobTitle = strings.TrimSpace(e.JobTitle)
		e.CompanyOrProduct = strings.TrimSpace(e.CompanyOrProduct)
		e.StartDate = strings.TrimSpace(e.StartDate)
		e.EndDate = strings.TrimSpace(e.EndDate)
		e.Bullets = compact(e.Bullets)
	}

	if p.Education == nil {
		p.Education = []Education{}
	}
	for i := range p.Education {
		e := &p.Education[i]
		e.Degree = strings.TrimSpace(e.Degree)
		e.Institution = strings.TrimSpace(e.Institution)
		e.GraduationDate = strings.TrimSpace(e.GraduationDate)
	}

	p.TechnicalSkills = Dedupe(p.TechnicalSkills)
	p.Certifications = Dedupe(p.Certifications)
	p.Languages = Dedupe(p.Languages)
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}

	out := *p
	out.Experience = make([]Experience, len(p.Experience))
	for i, e := range p.Experience {
		e.Bullets = append([]string{}, e.Bullets...)
		out.Experience[i] = e
	}
	out.Education = append([]Education{}, p.Education...)
	out.TechnicalSkills = append([]string{}, p.TechnicalSkills...)
	out.Certifications = append([]string{}, p.Certifications...)
	out.Languages = append([]string{}, p.Languages...)

	return &out
}

// Dedupe trims entries, drops blanks and removes case-insensitive duplicates
// while keeping the order of first occurrence. The result is never nil.
func Dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
