package profile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func sampleProfile() *Profile {
	return &Profile{
		ContactInfo: ContactInfo{
			FullName: "Jane Doe",
			Email:    "jane@example.com",
			Location: "Berlin, Germany",
			LinkedIn: "https://linkedin.com/in/janedoe",
		},
		ProfessionalSummary: "Backend engineer with 8 years of experience.",
		Experience: []Experience{
			{
				JobTitle:         "Senior Engineer",
				CompanyOrProduct: "Acme",
				StartDate:        "03/2021",
				IsCurrent:        true,
				Bullets:          []string{"Cut p99 latency by 40%", "Led a team of 5"},
			},
			{
				JobTitle:         "Engineer",
				CompanyOrProduct: "Globex",
				StartDate:        "01/2016",
				EndDate:          "02/2021",
				Bullets:          []string{"Built billing service"},
			},
		},
		Education: []Education{
			{Degree: "BSc Computer Science", Institution: "TU Berlin", GraduationDate: "07/2015"},
		},
		TechnicalSkills: []string{"Go", "PostgreSQL"},
		Certifications:  []string{"CKA"},
		Languages:       []string{"English", "German"},
	}
}

func TestValidateRoundTrip(t *testing.T) {
	p := sampleProfile()
	p.Normalize()

	data, err := Serialize(p)
	require.NoError(t, err)

	got, err := Validate(data)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestValidateRoundTripEmptyProfile(t *testing.T) {
	p := &Profile{}
	p.Normalize()

	data, err := Serialize(p)
	require.NoError(t, err)

	got, err := Validate(data)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestValidateDefaultsMissingFields(t *testing.T) {
	got, err := Validate([]byte(`{"contact_info": null, "experience": [{"job_title": "Dev", "end_date": null, "bullets": null}]}`))
	require.NoError(t, err)

	assert.Equal(t, ContactInfo{}, got.ContactInfo)
	require.Len(t, got.Experience, 1)
	assert.Equal(t, "Dev", got.Experience[0].JobTitle)
	assert.NotNil(t, got.Experience[0].Bullets)
	assert.Empty(t, got.Experience[0].Bullets)
	assert.NotNil(t, got.Education)
	assert.NotNil(t, got.TechnicalSkills)
	assert.NotNil(t, got.Certifications)
	assert.NotNil(t, got.Languages)
}

func TestValidateRemovesDuplicates(t *testing.T) {
	got, err := Validate([]byte(`{"technical_skills": ["Go", " go ", "SQL", ""], "languages": ["English", "english"]}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "SQL"}, got.TechnicalSkills)
	assert.Equal(t, []string{"English"}, got.Languages)
}

func TestValidateRejectsMalformedDates(t *testing.T) {
	cases := []struct {
		name  string
		input string
		field string
	}{
		{
			name:  "month name",
			input: `{"experience": [{"start_date": "Jan 2020"}]}`,
			field: "experience[0].start_date",
		},
		{
			name:  "month out of range",
			input: `{"experience": [{"start_date": "01/2019"}, {"end_date": "13/2020"}]}`,
			field: "experience[1].end_date",
		},
		{
			name:  "year only graduation",
			input: `{"education": [{"graduation_date": "2015"}]}`,
			field: "education[0].graduation_date",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate([]byte(tc.input))

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr), "expected SchemaError, got %v", err)
			assert.Equal(t, []string{tc.field}, schemaErr.FieldNames())
		})
	}
}

func TestValidateRejectsEndDateOnCurrentRole(t *testing.T) {
	_, err := Validate([]byte(`{"experience": [{"start_date": "01/2020", "end_date": "02/2021", "is_current": true}]}`))

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"experience[0].end_date"}, schemaErr.FieldNames())
}

func TestValidateRejectsWrongShape(t *testing.T) {
	cases := map[string]struct {
		input string
		field string
	}{
		"contact info as string": {input: `{"contact_info": "Jane"}`, field: "contact_info"},
		"skills as string":       {input: `{"technical_skills": "Go, SQL"}`, field: "technical_skills"},
		"bullet as number":       {input: `{"experience": [{"bullets": [1]}]}`, field: "experience[0].bullets[0]"},
		"array root":             {input: `[]`, field: "(root)"},
		"not json":               {input: `{"contact_info":`, field: "(root)"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Validate([]byte(tc.input))

			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Contains(t, schemaErr.FieldNames(), tc.field)
		})
	}
}

func TestValidateLogsUnknownFields(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	v := NewValidator(zap.New(core))

	got, err := v.Validate([]byte(`{"contact_info": {"full_name": "Jane", "phone": "+49"}, "hobbies": ["chess"]}`))
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.ContactInfo.FullName)

	fields := make([]string, 0)
	for _, entry := range observed.All() {
		fields = append(fields, entry.ContextMap()["field"].(string))
	}
	assert.ElementsMatch(t, []string{"contact_info.phone", "hobbies"}, fields)
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "(root)", fieldPath(""))
	assert.Equal(t, "(root)", fieldPath("(root)"))
	assert.Equal(t, "contact_info", fieldPath("contact_info"))
	assert.Equal(t, "experience[0].start_date", fieldPath("experience.0.start_date"))
	assert.Equal(t, "experience[2].bullets[1]", fieldPath("experience.2.bullets.1"))
}

func TestClone(t *testing.T) {
	p := sampleProfile()
	c := p.Clone()

	c.Experience[0].Bullets[0] = "changed"
	c.TechnicalSkills[0] = "Rust"

	assert.Equal(t, "Cut p99 latency by 40%", p.Experience[0].Bullets[0])
	assert.Equal(t, "Go", p.TechnicalSkills[0])
}
