// Package pipeline runs a résumé through extraction, clarification, adaptation and rendering.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spigell/resume-builder/internal/clarify"
	"github.com/spigell/resume-builder/internal/logger"
	"github.com/spigell/resume-builder/internal/profile"
	"go.uber.org/zap"
)

// State is everything one run carries between steps. It is created by Run
// and dropped once the document is rendered.
type State struct {
	RunID          string           `json:"run_id"`
	RawText        string           `json:"raw_text"`
	JobDescription string           `json:"job_description,omitempty"`
	Session        *clarify.Session `json:"session"`
	Adapted        *profile.Profile `json:"adapted,omitempty"`
	Document       string           `json:"document,omitempty"`
}

// Profile returns the adapted profile when there is one, the clarified one otherwise.
func (s *State) Profile() *profile.Profile {
	if s.Adapted != nil {
		return s.Adapted
	}
	if s.Session == nil {
		return nil
	}
	return s.Session.Profile
}

// Step is a single stage of a run.
type Step interface {
	Name() string
	Apply(ctx context.Context, s *State) error
}

// skipper is implemented by steps that do not apply to every run.
type skipper interface {
	Skip(s *State) (bool, string)
}

// StageError ties a failure to the step that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf names the step that produced err, or "" when err did not come from a step.
func StageOf(err error) string {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return ""
}

// Result is what a successful run hands back.
type Result struct {
	RunID     string
	Document  string
	Profile   *profile.Profile
	Questions []clarify.Exchange
	Exhausted bool
}

type Pipeline struct {
	steps  []Step
	logger *zap.Logger
}

func New(logger *zap.Logger, steps ...Step) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{steps: steps, logger: logger}
}

// Run executes the steps in order. The first failing step stops the run and
// its error is returned as a *StageError.
func (p *Pipeline) Run(ctx context.Context, rawText, jobDescription string) (*Result, error) {
	state := &State{
		RunID:          uuid.NewString(),
		RawText:        rawText,
		JobDescription: jobDescription,
		Session:        clarify.NewSession(),
	}

	log := logger.WithRun(p.logger, state.RunID, "")
	log.Info("pipeline started", zap.Int("steps", len(p.steps)), zap.Bool("job_description", jobDescription != ""))

	for _, step := range p.steps {
		if s, ok := step.(skipper); ok {
			if skip, reason := s.Skip(state); skip {
				log.Info("pipeline step skipped", zap.String("name", step.Name()), zap.String("reason", reason))
				continue
			}
		}

		started := time.Now()
		err := step.Apply(ctx, state)
		fields := []zap.Field{
			zap.String("name", step.Name()),
			zap.Duration("duration", time.Since(started)),
		}
		if err != nil {
			log.Error("pipeline step failed", append(fields, zap.Error(err))...)
			return nil, &StageError{Stage: step.Name(), Err: err}
		}

		log.Info("pipeline step", fields...)
	}

	return &Result{
		RunID:     state.RunID,
		Document:  state.Document,
		Profile:   state.Profile(),
		Questions: state.Session.Transcript,
		Exhausted: state.Session.Exhausted,
	}, nil
}
