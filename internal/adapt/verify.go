package adapt

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/resume-builder/internal/profile"
)

// Claim kinds reported by Verify.
const (
	ClaimSkill         = "technical_skill"
	ClaimCertification = "certification"
	ClaimLanguage      = "language"
	ClaimCompany       = "company"
	ClaimExperience    = "experience"
	ClaimBullet        = "bullet"
	ClaimEducation     = "education"
	ClaimContact       = "contact_info"
	ClaimNumber        = "number"
	ClaimSummaryTerm   = "summary_term"
)

var (
	numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?%?`)
	sentenceBreak = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
)

// Claim is a fact in an adapted profile that the source profile does not contain.
type Claim struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// IntegrityError reports every unsupported claim found in an adapted profile.
type IntegrityError struct {
	Claims []Claim
}

func (e *IntegrityError) Error() string {
	parts := make([]string, 0, len(e.Claims))
	for _, c := range e.Claims {
		parts = append(parts, fmt.Sprintf("%s %q", c.Kind, c.Value))
	}
	return "adapted profile contains facts not present in the source: " + strings.Join(parts, ", ")
}

// Verify checks that after only contains facts already present in before.
// Reordering and dropping are allowed; anything new is a claim. A rewritten
// summary may not introduce job description terms, proper nouns, acronyms or
// symbol-bearing names (C++, C#) that before never mentions.
func Verify(before, after *profile.Profile, jobDescription string) error {
	var claims []Claim
	report := func(kind, value string) {
		claims = append(claims, Claim{Kind: kind, Value: value})
	}

	checkSubset(before.TechnicalSkills, after.TechnicalSkills, ClaimSkill, report)
	checkSubset(before.Certifications, after.Certifications, ClaimCertification, report)
	checkSubset(before.Languages, after.Languages, ClaimLanguage, report)

	companies := set(nil)
	roles := map[string]struct{}{}
	bullets := set(nil)
	for _, e := range before.Experience {
		companies[fold(e.CompanyOrProduct)] = struct{}{}
		roles[experienceKey(e)] = struct{}{}
		for _, b := range e.Bullets {
			bullets[fold(b)] = struct{}{}
		}
	}

	for _, e := range after.Experience {
		if _, ok := companies[fold(e.CompanyOrProduct)]; !ok && e.CompanyOrProduct != "" {
			report(ClaimCompany, e.CompanyOrProduct)
		}
		if _, ok := roles[experienceKey(e)]; !ok {
			report(ClaimExperience, describeExperience(e))
		}
		for _, b := range e.Bullets {
			if _, ok := bullets[fold(b)]; !ok {
				report(ClaimBullet, b)
			}
		}
	}

	schools := map[string]struct{}{}
	for _, e := range before.Education {
		schools[educationKey(e)] = struct{}{}
	}
	for _, e := range after.Education {
		if _, ok := schools[educationKey(e)]; !ok {
			report(ClaimEducation, strings.TrimSpace(e.Degree+" "+e.Institution))
		}
	}

	checkContact("full_name", before.ContactInfo.FullName, after.ContactInfo.FullName, report)
	checkContact("email", before.ContactInfo.Email, after.ContactInfo.Email, report)
	checkContact("location", before.ContactInfo.Location, after.ContactInfo.Location, report)
	checkContact("linkedin", before.ContactInfo.LinkedIn, after.ContactInfo.LinkedIn, report)

	checkSummary(before, after, newVocabulary(jobDescription), report)

	known := set(numberPattern.FindAllString(profileText(before), -1))
	seen := map[string]struct{}{}
	for _, n := range numberPattern.FindAllString(profileText(after), -1) {
		if _, ok := known[n]; ok {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		report(ClaimNumber, n)
	}

	if len(claims) > 0 {
		return &IntegrityError{Claims: claims}
	}
	return nil
}

func checkSummary(before, after *profile.Profile, vocab vocabulary, report func(string, string)) {
	if fold(after.ProfessionalSummary) == fold(before.ProfessionalSummary) {
		return
	}

	known := set(tokenize(profileText(before)))
	seen := map[string]struct{}{}
	for _, sentence := range sentenceBreak.Split(after.ProfessionalSummary, -1) {
		for i, word := range strings.FieldsFunc(sentence, isTermBreak) {
			term := strings.ToLower(word)
			if _, ok := known[term]; ok {
				continue
			}
			if _, stop := stopWords[term]; stop || isDigits(term) {
				continue
			}
			if _, dup := seen[term]; dup {
				continue
			}
			if vocab.freq[term] == 0 && !isAcronym(word) && !strings.ContainsAny(term, "+#") && (i == 0 || !startsUpper(word)) {
				continue
			}
			seen[term] = struct{}{}
			report(ClaimSummaryTerm, word)
		}
	}
}

func startsUpper(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}

// isAcronym reports words like AWS or GCP: at least two letters, all upper case.
func isAcronym(word string) bool {
	letters := 0
	for _, r := range word {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters >= 2
}

func isDigits(term string) bool {
	for _, r := range term {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func checkSubset(before, after []string, kind string, report func(string, string)) {
	known := set(before)
	for _, item := range after {
		if _, ok := known[fold(item)]; !ok {
			report(kind, item)
		}
	}
}

func checkContact(name, before, after string, report func(string, string)) {
	if after == "" || fold(after) == fold(before) {
		return
	}
	report(ClaimContact, name+"="+after)
}

func set(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		out[fold(item)] = struct{}{}
	}
	return out
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func experienceKey(e profile.Experience) string {
	return strings.Join([]string{fold(e.JobTitle), fold(e.CompanyOrProduct), e.StartDate, e.EndDate, fmt.Sprint(e.IsCurrent)}, "|")
}

func educationKey(e profile.Education) string {
	return strings.Join([]string{fold(e.Degree), fold(e.Institution), e.GraduationDate}, "|")
}

func describeExperience(e profile.Experience) string {
	switch {
	case e.JobTitle != "" && e.CompanyOrProduct != "":
		return e.JobTitle + " at " + e.CompanyOrProduct
	case e.JobTitle != "":
		return e.JobTitle
	default:
		return e.CompanyOrProduct
	}
}

// profileText joins every free-text value of a profile for number and term scanning.
func profileText(p *profile.Profile) string {
	var sb strings.Builder
	write := func(s string) {
		sb.WriteString(s)
		sb.WriteString("\n")
	}

	write(p.ContactInfo.FullName)
	write(p.ContactInfo.Email)
	write(p.ContactInfo.Location)
	write(p.ContactInfo.LinkedIn)
	write(p.ProfessionalSummary)
	for _, e := range p.Experience {
		write(e.JobTitle)
		write(e.CompanyOrProduct)
		write(e.StartDate)
		write(e.EndDate)
		for _, b := range e.Bullets {
			write(b)
		}
	}
	for _, e := range p.Education {
		write(e.Degree)
		write(e.Institution)
		write(e.GraduationDate)
	}
	for _, list := range [][]string{p.TechnicalSkills, p.Certifications, p.Languages} {
		for _, item := range list {
			write(item)
		}
	}
	return sb.String()
}
