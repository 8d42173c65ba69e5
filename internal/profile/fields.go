package profile

import (
	"fmt"
	"regexp"
	"strconv"
)

// Section names used in field paths.
const (
	SectionContact        = "contact_info"
	SectionSummary        = "professional_summary"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "technical_skills"
	SectionCertifications = "certifications"
	SectionLanguages      = "languages"
)

// Field addresses one value of a profile, e.g. experience[0].start_date.
// Index is -1 for sections that are not lists of records.
type Field struct {
	Section string
	Index   int
	Name    string
}

var fieldPattern = regexp.MustCompile(`^([a-z_]+)(?:\[(\d+)\])?(?:\.([a-z_]+))?$`)

var sectionFields = map[string][]string{
	SectionContact:    {"full_name", "email", "location", "linkedin"},
	SectionExperience: {"job_title", "company_or_product", "start_date", "end_date", "bullets"},
	SectionEducation:  {"degree", "institution", "graduation_date"},
}

var topLevel = map[string]bool{
	SectionSummary:        true,
	SectionSkills:         true,
	SectionCertifications: true,
	SectionLanguages:      true,
}

// ParseField parses a canonical field path. It only checks the syntax and the
// names; whether an index exists depends on the profile.
func ParseField(path string) (Field, error) {
	m := fieldPattern.FindStringSubmatch(path)
	if m == nil {
		return Field{}, fmt.Errorf("malformed field path %q", path)
	}

	f := Field{Section: m[1], Index: -1, Name: m[3]}
	if m[2] != "" {
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			return Field{}, fmt.Errorf("malformed index in %q: %w", path, err)
		}
		f.Index = idx
	}

	switch {
	case topLevel[f.Section]:
		if f.Index != -1 || f.Name != "" {
			return Field{}, fmt.Errorf("unknown field %q", path)
		}
	case f.Section == SectionContact:
		if f.Index != -1 || !knownName(f.Section, f.Name) {
			return Field{}, fmt.Errorf("unknown field %q", path)
		}
	case f.Section == SectionExperience || f.Section == SectionEducation:
		if f.Index < 0 || !knownName(f.Section, f.Name) {
			return Field{}, fmt.Errorf("unknown field %q", path)
		}
	default:
		return Field{}, fmt.Errorf("unknown field %q", path)
	}

	return f, nil
}

// SectionFields lists the field names of a record section in declaration order.
func SectionFields(section string) []string {
	return append([]string(nil), sectionFields[section]...)
}

// IsContactField reports whether name belongs to contact_info.
func IsContactField(name string) bool {
	return knownName(SectionContact, name)
}

func knownName(section, name string) bool {
	for _, n := range sectionFields[section] {
		if n == name {
			return true
		}
	}
	return false
}

func (f Field) String() string {
	switch {
	case f.Index >= 0:
		return fmt.Sprintf("%s[%d].%s", f.Section, f.Index, f.Name)
	case f.Name != "":
		return f.Section + "." + f.Name
	default:
		return f.Section
	}
}

// IsDate reports whether the field holds an MM/YYYY date.
func (f Field) IsDate() bool {
	return f.Name == "start_date" || f.Name == "end_date" || f.Name == "graduation_date"
}

// IsList reports whether the field holds a list of strings.
func (f Field) IsList() bool {
	return f.Name == "bullets" || (f.Name == "" && f.Section != SectionSummary)
}

// Text returns a pointer to the scalar string the field addresses, or nil when
// the field is a list or points past the end of a section.
func (p *Profile) Text(f Field) *string {
	switch f.Section {
	case SectionSummary:
		return &p.ProfessionalSummary
	case SectionContact:
		switch f.Name {
		case "full_name":
			return &p.ContactInfo.FullName
		case "email":
			return &p.ContactInfo.Email
		case "location":
			return &p.ContactInfo.Location
		case "linkedin":
			return &p.ContactInfo.LinkedIn
		}
	case SectionExperience:
		if f.Index < 0 || f.Index >= len(p.Experience) {
			return nil
		}
		e := &p.Experience[f.Index]
		switch f.Name {
		case "job_title":
			return &e.JobTitle
		case "company_or_product":
			return &e.CompanyOrProduct
		case "start_date":
			return &e.StartDate
		case "end_date":
			return &e.EndDate
		}
	case SectionEducation:
		if f.Index < 0 || f.Index >= len(p.Education) {
			return nil
		}
		e := &p.Education[f.Index]
		switch f.Name {
		case "degree":
			return &e.Degree
		case "institution":
			return &e.Institution
		case "graduation_date":
			return &e.GraduationDate
		}
	}
	return nil
}

// List returns a pointer to the string list the field addresses, or nil.
func (p *Profile) List(f Field) *[]string {
	switch f.Section {
	case SectionSkills:
		return &p.TechnicalSkills
	case SectionCertifications:
		return &p.Certifications
	case SectionLanguages:
		return &p.Languages
	case SectionExperience:
		if f.Name == "bullets" && f.Index >= 0 && f.Index < len(p.Experience) {
			return &p.Experience[f.Index].Bullets
		}
	}
	return nil
}

// Exists reports whether the field addresses a value present in this profile.
func (p *Profile) Exists(f Field) bool {
	return p.Text(f) != nil || p.List(f) != nil
}

// IsEmpty reports whether the addressed value is blank. Missing fields are empty.
func (p *Profile) IsEmpty(f Field) bool {
	if s := p.Text(f); s != nil {
		return *s == ""
	}
	if l := p.List(f); l != nil {
		return len(*l) == 0
	}
	return true
}
