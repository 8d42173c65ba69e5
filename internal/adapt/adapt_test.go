package adapt

import (
	"context"
	"errors"
	"testing"

	"github.com/spigell/resume-builder/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeWriter struct {
	summary string
	err     error
	calls   int
}

func (f *fakeWriter) RewriteSummary(context.Context, *profile.Profile, string) (string, error) {
	f.calls++
	return f.summary, f.err
}

func sourceProfile() *profile.Profile {
	p := &profile.Profile{
		ContactInfo:         profile.ContactInfo{FullName: "Jane Doe", Email: "jane@example.com"},
		ProfessionalSummary: "Engineer with 8 years of experience.",
		Experience: []profile.Experience{
			{
				JobTitle:         "Frontend Developer",
				CompanyOrProduct: "Pixel",
				StartDate:        "01/2015",
				EndDate:          "12/2017",
				Bullets:          []string{"Built React dashboards", "Improved page load by 30%"},
			},
			{
				JobTitle:         "Data Engineer",
				CompanyOrProduct: "Acme",
				StartDate:        "01/2018",
				IsCurrent:        true,
				Bullets:          []string{"Maintained Airflow jobs", "Tuned SQL queries for the warehouse"},
			},
		},
		Education:       []profile.Education{{Degree: "BSc", Institution: "MIT"}},
		TechnicalSkills: []string{"Python", "SQL"},
	}
	p.Normalize()
	return p
}

const sqlJob = "We are hiring a Data Engineer. Strong SQL is a must: SQL modelling, SQL performance tuning. Python is a plus."

func TestAdaptPrioritizesJobTerms(t *testing.T) {
	p := sourceProfile()
	stage := New(nil, zap.NewNop())

	out, err := stage.Adapt(context.Background(), p, sqlJob)
	require.NoError(t, err)

	assert.Equal(t, []string{"SQL", "Python"}, out.TechnicalSkills)
	assert.Equal(t, "Data Engineer", out.Experience[0].JobTitle)
	assert.Equal(t, "Tuned SQL queries for the warehouse", out.Experience[0].Bullets[0])

	// input untouched
	assert.Equal(t, []string{"Python", "SQL"}, p.TechnicalSkills)
	assert.Equal(t, "Frontend Developer", p.Experience[0].JobTitle)

	assert.NoError(t, Verify(p, out, sqlJob))
}

func TestAdaptKeepsOrderOnTies(t *testing.T) {
	p := sourceProfile()
	stage := New(nil, zap.NewNop())

	out, err := stage.Adapt(context.Background(), p, "Kubernetes operators wanted")
	require.NoError(t, err)

	assert.Equal(t, p, out)
}

func TestAdaptWithoutJobDescription(t *testing.T) {
	p := sourceProfile()
	writer := &fakeWriter{summary: "unused"}

	out, err := New(writer, zap.NewNop()).Adapt(context.Background(), p, "  ")
	require.NoError(t, err)
	assert.Equal(t, p, out)
	assert.Zero(t, writer.calls)
}

func TestAdaptUsesSummaryWriter(t *testing.T) {
	p := sourceProfile()
	writer := &fakeWriter{summary: "Data engineer with 8 years of SQL and Python work."}

	out, err := New(writer, zap.NewNop()).Adapt(context.Background(), p, sqlJob)
	require.NoError(t, err)
	assert.Equal(t, writer.summary, out.ProfessionalSummary)
	assert.Equal(t, 1, writer.calls)
}

func TestAdaptKeepsSummaryWhenWriterFails(t *testing.T) {
	p := sourceProfile()
	core, logs := observer.New(zap.WarnLevel)

	out, err := New(&fakeWriter{err: errors.New("quota")}, zap.New(core)).Adapt(context.Background(), p, sqlJob)
	require.NoError(t, err)
	assert.Equal(t, p.ProfessionalSummary, out.ProfessionalSummary)
	assert.Equal(t, 1, logs.FilterMessage("summary rewrite failed, keeping the original").Len())
}

func TestAdaptRejectsFabricatedFigures(t *testing.T) {
	p := sourceProfile()
	writer := &fakeWriter{summary: "Data engineer with 15 years of experience who cut costs by 45%."}

	out, err := New(writer, zap.NewNop()).Adapt(context.Background(), p, sqlJob)
	assert.Nil(t, out)

	var integrityErr *IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, []Claim{{Kind: ClaimNumber, Value: "15"}, {Kind: ClaimNumber, Value: "45%"}}, integrityErr.Claims)
}

func TestAdaptRejectsSummaryWithNewSkillsAndEmployers(t *testing.T) {
	p := sourceProfile()
	writer := &fakeWriter{summary: "Kubernetes and Rust expert who led platform work at Google."}

	out, err := New(writer, zap.NewNop()).Adapt(context.Background(), p, sqlJob)
	assert.Nil(t, out)

	var integrityErr *IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, []Claim{
		{Kind: ClaimSummaryTerm, Value: "Rust"},
		{Kind: ClaimSummaryTerm, Value: "Google"},
	}, integrityErr.Claims)
}

func TestVerifySummaryTerms(t *testing.T) {
	before := sourceProfile()

	cases := []struct {
		name    string
		summary string
		job     string
		want    []Claim
	}{
		{
			name:    "job description terms",
			summary: "Kubernetes and Rust expert who led platform work at Google.",
			job:     "Kubernetes platform team",
			want: []Claim{
				{Kind: ClaimSummaryTerm, Value: "Kubernetes"},
				{Kind: ClaimSummaryTerm, Value: "Rust"},
				{Kind: ClaimSummaryTerm, Value: "platform"},
				{Kind: ClaimSummaryTerm, Value: "Google"},
			},
		},
		{
			name:    "acronyms and symbol names",
			summary: "AWS engineer fluent in C++ and SQL.",
			want: []Claim{
				{Kind: ClaimSummaryTerm, Value: "AWS"},
				{Kind: ClaimSummaryTerm, Value: "C++"},
			},
		},
		{
			name:    "rephrasing with known facts",
			summary: "Seasoned engineer. Builds SQL pipelines and React dashboards at Acme!",
			job:     sqlJob,
		},
		{
			name:    "unchanged summary",
			summary: before.ProfessionalSummary,
			job:     "Kubernetes",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			after := before.Clone()
			after.ProfessionalSummary = tc.summary

			err := Verify(before, after, tc.job)
			if len(tc.want) == 0 {
				assert.NoError(t, err)
				return
			}

			var integrityErr *IntegrityError
			require.ErrorAs(t, err, &integrityErr)
			assert.Equal(t, tc.want, integrityErr.Claims)
		})
	}
}

func TestVerifyReportsAddedFacts(t *testing.T) {
	before := sourceProfile()
	after := before.Clone()
	after.TechnicalSkills = append(after.TechnicalSkills, "Kubernetes")
	after.Languages = []string{"French"}
	after.Experience[1].Bullets = append(after.Experience[1].Bullets, "Led migration to Snowflake")
	after.Experience = append(after.Experience, profile.Experience{JobTitle: "CTO", CompanyOrProduct: "Globex"})
	after.Education[0].GraduationDate = "06/2014"
	after.ContactInfo.Location = "Berlin"

	err := Verify(before, after, "")

	var integrityErr *IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.ElementsMatch(t, []Claim{
		{Kind: ClaimSkill, Value: "Kubernetes"},
		{Kind: ClaimLanguage, Value: "French"},
		{Kind: ClaimBullet, Value: "Led migration to Snowflake"},
		{Kind: ClaimCompany, Value: "Globex"},
		{Kind: ClaimExperience, Value: "CTO at Globex"},
		{Kind: ClaimEducation, Value: "BSc MIT"},
		{Kind: ClaimContact, Value: "location=Berlin"},
		{Kind: ClaimNumber, Value: "06"},
		{Kind: ClaimNumber, Value: "2014"},
	}, integrityErr.Claims)
	assert.Contains(t, err.Error(), `technical_skill "Kubernetes"`)
}

func TestVerifyAllowsDroppingAndCaseChanges(t *testing.T) {
	before := sourceProfile()
	after := before.Clone()
	after.TechnicalSkills = []string{"sql"}
	after.Experience = after.Experience[1:]
	after.Education = nil
	after.ContactInfo.Email = ""

	assert.NoError(t, Verify(before, after, ""))
}

func TestPhraseCount(t *testing.T) {
	v := newVocabulary("C++ and C# engineers; Google Cloud, google cloud run. SQL/SQL")

	assert.Equal(t, 1, v.phraseCount("C++"))
	assert.Equal(t, 1, v.phraseCount("c#"))
	assert.Equal(t, 2, v.phraseCount("Google Cloud"))
	assert.Equal(t, 2, v.phraseCount("SQL"))
	assert.Equal(t, 0, v.phraseCount("Go"))
	assert.Equal(t, 0, v.phraseCount(""))
}
