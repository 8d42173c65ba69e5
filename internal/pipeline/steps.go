package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/spigell/resume-builder/internal/adapt"
	"github.com/spigell/resume-builder/internal/clarify"
	"github.com/spigell/resume-builder/internal/ingest"
	"github.com/spigell/resume-builder/internal/render"
)

// Step names, also used as the stage in error messages.
const (
	StepExtract = "extract"
	StepClarify = "clarify"
	StepAdapt   = "adapt"
	StepRender  = "render"
)

// Steps returns the standard step list.
func Steps(controller *clarify.Controller, asker clarify.Asker, stage *adapt.Stage) []Step {
	return []Step{
		NewExtract(controller),
		NewClarify(controller, asker),
		NewAdapt(stage),
		NewRender(),
	}
}

type extractStep struct {
	controller *clarify.Controller
}

// NewExtract creates the step that makes the run's single oracle call.
func NewExtract(controller *clarify.Controller) Step {
	return &extractStep{controller: controller}
}

func (s *extractStep) Name() string { return StepExtract }

func (s *extractStep) Apply(ctx context.Context, state *State) error {
	if strings.TrimSpace(state.RawText) == "" {
		return &ingest.NoExtractableTextError{}
	}
	return s.controller.Extract(ctx, state.Session, state.RawText, state.JobDescription)
}

type clarifyStep struct {
	controller *clarify.Controller
	asker      clarify.Asker
}

// NewClarify creates the step that asks about gaps until the profile validates.
func NewClarify(controller *clarify.Controller, asker clarify.Asker) Step {
	return &clarifyStep{controller: controller, asker: asker}
}

func (s *clarifyStep) Name() string { return StepClarify }

func (s *clarifyStep) Apply(ctx context.Context, state *State) error {
	if s.asker == nil {
		return errors.New("no asker configured")
	}
	return s.controller.Run(ctx, state.Session, s.asker)
}

type adaptStep struct {
	stage *adapt.Stage
}

// NewAdapt creates the step that tailors the profile to the job description.
func NewAdapt(stage *adapt.Stage) Step {
	return &adaptStep{stage: stage}
}

func (s *adaptStep) Name() string { return StepAdapt }

func (s *adaptStep) Skip(state *State) (bool, string) {
	if strings.TrimSpace(state.JobDescription) == "" {
		return true, "no job description"
	}
	if s.stage == nil {
		return true, "adaptation is not configured"
	}
	return false, ""
}

func (s *adaptStep) Apply(ctx context.Context, state *State) error {
	adapted, err := s.stage.Adapt(ctx, state.Session.Profile, state.JobDescription)
	if err != nil {
		return err
	}
	state.Adapted = adapted
	return nil
}

type renderStep struct{}

// NewRender creates the step that produces the Markdown document.
func NewRender() Step {
	return renderStep{}
}

func (renderStep) Name() string { return StepRender }

func (renderStep) Apply(_ context.Context, state *State) error {
	p := state.Profile()
	if p == nil {
		return errors.New("nothing to render")
	}
	state.Document = render.Render(p)
	return nil
}
