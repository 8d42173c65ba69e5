package clarify

import (
	"fmt"
	"strings"

	"github.com/spigell/resume-builder/internal/profile"
)

const dateHint = "Please use MM/YYYY."

func questionFor(p *profile.Profile, f profile.Field, invalid bool) Question {
	text := questionText(p, f)
	current := currentValue(p, f)

	switch {
	case invalid:
		text = fmt.Sprintf("The value %q for %s is not valid. %s", current, f.String(), text)
	case current != "" && f.Name == "bullets":
		text = fmt.Sprintf("Your résumé currently says: %q. %s Your answer replaces them.", current, text)
	case current != "":
		text = fmt.Sprintf("Your résumé currently says %q for %s. %s", current, f.String(), text)
	}
	return Question{Field: f.String(), Text: text}
}

func currentValue(p *profile.Profile, f profile.Field) string {
	if v := p.Text(f); v != nil {
		return *v
	}
	if list := p.List(f); list != nil {
		return strings.Join(*list, "; ")
	}
	return ""
}

func questionText(p *profile.Profile, f profile.Field) string {
	switch f.Section {
	case profile.SectionContact:
		switch f.Name {
		case "full_name":
			return "What is your full name?"
		case "email":
			return "What email address should appear on your résumé?"
		case "location":
			return "Where are you located (city, country)?"
		case "linkedin":
			return "What is your LinkedIn profile URL?"
		}
	case profile.SectionExperience:
		return experienceQuestion(p.Experience[f.Index], f)
	case profile.SectionEducation:
		return educationQuestion(p.Education[f.Index], f)
	case profile.SectionSkills:
		return "Which technical skills should your résumé list? Separate them with commas."
	case profile.SectionSummary:
		return "How would you summarize your professional profile in one or two sentences?"
	case profile.SectionCertifications:
		return "Which certifications do you hold? Separate them with commas."
	case profile.SectionLanguages:
		return "Which languages do you speak? Separate them with commas."
	}
	return fmt.Sprintf("Please provide a value for %s.", f.String())
}

func experienceQuestion(e profile.Experience, f profile.Field) string {
	role := roleDescription(e, f.Index)

	switch f.Name {
	case "start_date":
		return fmt.Sprintf("When did you start working %s? %s", role, dateHint)
	case "end_date":
		return fmt.Sprintf("When did you stop working %s? %s Answer \"present\" if you still work there.", role, dateHint)
	case "bullets":
		return fmt.Sprintf("What were your key achievements or responsibilities %s? Separate several with semicolons.", role)
	case "job_title":
		if e.CompanyOrProduct != "" {
			return fmt.Sprintf("What was your job title at %s?", e.CompanyOrProduct)
		}
		return fmt.Sprintf("What was your job title in experience entry #%d?", f.Index+1)
	case "company_or_product":
		if e.JobTitle != "" {
			return fmt.Sprintf("Which company or product did you work for as %s?", e.JobTitle)
		}
		return fmt.Sprintf("Which company or product did you work for in experience entry #%d?", f.Index+1)
	}
	return fmt.Sprintf("Please provide %s %s.", f.Name, role)
}

func roleDescription(e profile.Experience, index int) string {
	switch {
	case e.JobTitle != "" && e.CompanyOrProduct != "":
		return fmt.Sprintf("as %s at %s", e.JobTitle, e.CompanyOrProduct)
	case e.JobTitle != "":
		return "as " + e.JobTitle
	case e.CompanyOrProduct != "":
		return "at " + e.CompanyOrProduct
	default:
		return fmt.Sprintf("in experience entry #%d", index+1)
	}
}

func educationQuestion(e profile.Education, f profile.Field) string {
	switch f.Name {
	case "degree":
		if e.Institution != "" {
			return fmt.Sprintf("Which degree did you earn at %s?", e.Institution)
		}
		return fmt.Sprintf("Which degree did you earn in education entry #%d?", f.Index+1)
	case "institution":
		if e.Degree != "" {
			return fmt.Sprintf("Which institution awarded your %s?", e.Degree)
		}
		return fmt.Sprintf("Which institution is education entry #%d from?", f.Index+1)
	case "graduation_date":
		switch {
		case e.Degree != "" && e.Institution != "":
			return fmt.Sprintf("When did you complete your %s at %s? %s", e.Degree, e.Institution, dateHint)
		case e.Institution != "":
			return fmt.Sprintf("When did you graduate from %s? %s", e.Institution, dateHint)
		case e.Degree != "":
			return fmt.Sprintf("When did you complete your %s? %s", e.Degree, dateHint)
		}
		return fmt.Sprintf("When did you graduate (education entry #%d)? %s", f.Index+1, dateHint)
	}
	return fmt.Sprintf("Please provide %s for education entry #%d.", f.Name, f.Index+1)
}
