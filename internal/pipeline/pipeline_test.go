package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/spigell/resume-builder/internal/adapt"
	"github.com/spigell/resume-builder/internal/ai"
	"github.com/spigell/resume-builder/internal/clarify"
	"github.com/spigell/resume-builder/internal/ingest"
	"github.com/spigell/resume-builder/internal/profile"
	"github.com/spigell/resume-builder/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeExtractor struct {
	profile *profile.Profile
	hints   []string
	err     error
	calls   int
}

func (f *fakeExtractor) Extract(context.Context, string, string) (*ai.Draft, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Draft{Profile: f.profile.Clone(), MissingFields: f.hints}, nil
}

type fakeWriter struct {
	summary string
}

func (f fakeWriter) RewriteSummary(context.Context, *profile.Profile, string) (string, error) {
	return f.summary, nil
}

type answers []string

func (a *answers) Ask(context.Context, string) (string, error) {
	if len(*a) == 0 {
		return "", nil
	}
	next := (*a)[0]
	*a = (*a)[1:]
	return next, nil
}

func dataEngineer() *profile.Profile {
	p := &profile.Profile{
		ContactInfo:         profile.ContactInfo{FullName: "Jane Doe"},
		ProfessionalSummary: "Data engineer with 6 years of experience.",
		Experience: []profile.Experience{
			{JobTitle: "Data Engineer", CompanyOrProduct: "Acme", StartDate: "01/2019", IsCurrent: true, Bullets: []string{"Wrote SQL"}},
		},
		TechnicalSkills: []string{"Python", "SQL"},
	}
	p.Normalize()
	return p
}

func newPipeline(ext ai.Extractor, asker clarify.Asker, writer ai.SummaryWriter, log *zap.Logger) *Pipeline {
	controller := clarify.New(ext, clarify.Config{}, log)
	return New(log, Steps(controller, asker, adapt.New(writer, log))...)
}

func TestRunWithoutJobDescription(t *testing.T) {
	ext := &fakeExtractor{profile: dataEngineer()}
	core, logs := observer.New(zap.InfoLevel)

	result, err := newPipeline(ext, &answers{}, nil, zap.New(core)).Run(context.Background(), "Jane Doe, Data Engineer", "")
	require.NoError(t, err)

	assert.Equal(t, dataEngineer(), result.Profile)
	assert.Equal(t, render.Render(dataEngineer()), result.Document)
	assert.Empty(t, result.Questions)
	_, err = uuid.Parse(result.RunID)
	assert.NoError(t, err)

	skipped := logs.FilterMessage("pipeline step skipped").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, StepAdapt, skipped[0].ContextMap()["name"])

	steps := logs.FilterMessage("pipeline step").All()
	require.Len(t, steps, 3)
	for _, entry := range steps {
		assert.Equal(t, result.RunID, entry.ContextMap()["run_id"])
	}
}

func TestRunAdaptsToJobDescription(t *testing.T) {
	ext := &fakeExtractor{profile: dataEngineer()}
	writer := fakeWriter{summary: "SQL-focused data engineer with 6 years of experience."}

	result, err := newPipeline(ext, &answers{}, writer, zap.NewNop()).Run(context.Background(), "raw", "SQL, SQL and more SQL. Some Python.")
	require.NoError(t, err)

	assert.Equal(t, []string{"SQL", "Python"}, result.Profile.TechnicalSkills)
	assert.Contains(t, result.Document, "SQL • Python")
	assert.Contains(t, result.Document, writer.summary)
}

func TestRunAsksAndMerges(t *testing.T) {
	p := &profile.Profile{
		ContactInfo: profile.ContactInfo{FullName: "Jane Doe"},
		Experience:  []profile.Experience{{JobTitle: "Backend Engineer", CompanyOrProduct: "Acme"}},
	}
	p.Normalize()
	ext := &fakeExtractor{profile: p, hints: []string{"experience[0].start_date"}}

	result, err := newPipeline(ext, &answers{"01/2020"}, nil, zap.NewNop()).Run(context.Background(), "raw", "")
	require.NoError(t, err)

	require.Len(t, result.Questions, 1)
	assert.Equal(t, "experience[0].start_date", result.Questions[0].Field)
	assert.Equal(t, "01/2020", result.Profile.Experience[0].StartDate)
	assert.Contains(t, result.Document, "*01/2020*")
}

func TestRunRejectsBlankText(t *testing.T) {
	ext := &fakeExtractor{profile: dataEngineer()}

	result, err := newPipeline(ext, &answers{}, nil, zap.NewNop()).Run(context.Background(), " \n\t", "")
	assert.Nil(t, result)

	var noText *ingest.NoExtractableTextError
	require.ErrorAs(t, err, &noText)
	assert.Equal(t, StepExtract, StageOf(err))
	assert.Zero(t, ext.calls)
}

func TestRunStopsOnExtractionError(t *testing.T) {
	ext := &fakeExtractor{err: &ai.ExtractionError{Attempts: 2, Cause: errors.New("garbage")}}

	_, err := newPipeline(ext, &answers{}, nil, zap.NewNop()).Run(context.Background(), "raw", "")

	var extractionErr *ai.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, StepExtract, StageOf(err))
}

func TestRunAbortsOnFabrication(t *testing.T) {
	ext := &fakeExtractor{profile: dataEngineer()}
	writer := fakeWriter{summary: "Data engineer with 10 years of experience."}

	result, err := newPipeline(ext, &answers{}, writer, zap.NewNop()).Run(context.Background(), "raw", "SQL role")
	assert.Nil(t, result)

	var integrityErr *adapt.IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, StepAdapt, StageOf(err))
}

func TestStageOf(t *testing.T) {
	assert.Equal(t, "", StageOf(errors.New("plain")))
	assert.Equal(t, "render", StageOf(&StageError{Stage: "render", Err: errors.New("x")}))
}
