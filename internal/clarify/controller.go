package clarify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/resume-builder/internal/ai"
	"github.com/spigell/resume-builder/internal/profile"
	"go.uber.org/zap"
)

const (
	DefaultMaxQuestions      = 5
	DefaultMaxFinalizeRounds = 2
)

// Config bounds the clarification loop.
type Config struct {
	MaxQuestions      int `mapstructure:"max-questions"`
	MaxFinalizeRounds int `mapstructure:"max-finalize-rounds"`
}

// Asker collects an answer from a human. An empty answer means the question was declined.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Controller runs the clarification state machine over a Session.
type Controller struct {
	extractor         ai.Extractor
	maxQuestions      int
	maxFinalizeRounds int
	logger            *zap.Logger
}

func New(extractor ai.Extractor, cfg Config, logger *zap.Logger) *Controller {
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = DefaultMaxQuestions
	}
	if cfg.MaxFinalizeRounds <= 0 {
		cfg.MaxFinalizeRounds = DefaultMaxFinalizeRounds
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Controller{
		extractor:         extractor,
		maxQuestions:      cfg.MaxQuestions,
		maxFinalizeRounds: cfg.MaxFinalizeRounds,
		logger:            logger,
	}
}

// Extract performs the single oracle call of a run and moves the session to evaluating.
func (c *Controller) Extract(ctx context.Context, s *Session, rawText, jobDescription string) error {
	if s.State != StateExtracting {
		return fmt.Errorf("extract: session is %s, want %s", s.State, StateExtracting)
	}
	if c.extractor == nil {
		return errors.New("extract: no extractor configured")
	}

	draft, err := c.extractor.Extract(ctx, rawText, jobDescription)
	if err != nil {
		return err
	}
	if draft == nil || draft.Profile == nil {
		return &ai.ExtractionError{Attempts: 1, Cause: errors.New("oracle returned no profile")}
	}

	s.Profile = draft.Profile
	s.Hints = normalizeHints(s.Profile, draft.MissingFields, c.logger)
	s.State = StateEvaluating

	c.logger.Info("profile extracted",
		zap.Int("experience", len(s.Profile.Experience)),
		zap.Int("education", len(s.Profile.Education)),
		zap.Int("skills", len(s.Profile.TechnicalSkills)),
		zap.Strings("hints", s.Hints),
	)

	return nil
}

// Next advances the session until a question is pending or the profile is done.
// It returns the pending question, or nil once the session reaches done.
// ErrExhausted is returned once when the question cap cuts the loop short; the
// caller may keep calling Next.
func (c *Controller) Next(s *Session) (*Question, error) {
	for {
		switch s.State {
		case StateAwaitingAnswer:
			if len(s.PendingQuestions) == 0 {
				return nil, errors.New("session awaits an answer but has no pending question")
			}
			q := s.PendingQuestions[0]
			return &q, nil

		case StateEvaluating:
			q, err := c.evaluate(s)
			if err != nil || q != nil {
				return q, err
			}

		case StateFinalizing:
			if err := c.finalize(s); err != nil {
				return nil, err
			}

		case StateDone:
			return nil, nil

		default:
			return nil, fmt.Errorf("cannot advance session in state %q", s.State)
		}
	}
}

func (c *Controller) evaluate(s *Session) (*Question, error) {
	gaps := gapSet(s)
	s.MissingFields = fieldStrings(gaps)

	if s.Asked >= c.maxQuestions {
		s.State = StateFinalizing
		if len(gaps) == 0 || s.Exhausted {
			return nil, nil
		}
		s.Exhausted = true
		c.logger.Warn("clarification question limit reached",
			zap.Int("asked", s.Asked),
			zap.Strings("unresolved", s.MissingFields),
		)
		return nil, ErrExhausted
	}

	if len(gaps) == 0 {
		s.State = StateFinalizing
		return nil, nil
	}

	f := gaps[0]
	q := questionFor(s.Profile, f, s.isInvalid(f.String()))
	s.PendingQuestions = []Question{q}
	s.Asked++
	s.State = StateAwaitingAnswer

	c.logger.Debug("clarification question", zap.String("field", q.Field), zap.Int("asked", s.Asked))

	return &q, nil
}

func (c *Controller) finalize(s *Session) error {
	data, err := profile.Serialize(s.Profile)
	if err != nil {
		return fmt.Errorf("serialize profile: %w", err)
	}

	p, err := profile.Validate(data)
	if err == nil {
		s.Profile = p
		s.MissingFields = fieldStrings(gapSet(s))
		s.State = StateDone
		return nil
	}

	var schemaErr *profile.SchemaError
	if !errors.As(err, &schemaErr) {
		return err
	}

	if s.Asked >= c.maxQuestions {
		return c.dropInvalid(s, schemaErr)
	}

	if s.FinalizeRounds >= c.maxFinalizeRounds {
		return schemaErr
	}

	var askable int
	for _, name := range schemaErr.FieldNames() {
		f, perr := profile.ParseField(name)
		if perr != nil || !s.Profile.Exists(f) {
			continue
		}
		s.markInvalid(name)
		delete(s.Settled, name)
		askable++
	}
	if askable == 0 {
		return schemaErr
	}

	s.FinalizeRounds++
	s.State = StateEvaluating

	c.logger.Info("profile failed validation, asking again",
		zap.Int("round", s.FinalizeRounds),
		zap.Strings("invalid", s.Invalid),
	)

	return nil
}

// dropInvalid clears the fields rejected by validation once no question is
// left to ask about them, and validates again.
func (c *Controller) dropInvalid(s *Session, schemaErr *profile.SchemaError) error {
	if s.Settled == nil {
		s.Settled = map[string]string{}
	}

	var cleared []string
	for _, name := range schemaErr.FieldNames() {
		f, err := profile.ParseField(name)
		if err != nil || !s.Profile.Exists(f) {
			continue
		}
		reset(s.Profile, f)
		s.clearInvalid(name)
		s.Settled[name] = OutcomeDeclined
		cleared = append(cleared, name)
	}
	if len(cleared) == 0 {
		return schemaErr
	}

	if !s.Exhausted {
		s.Exhausted = true
		c.logger.Warn("clarification question limit reached", zap.Int("asked", s.Asked))
	}
	c.logger.Warn("clearing values that failed validation", zap.Strings("fields", cleared))

	data, err := profile.Serialize(s.Profile)
	if err != nil {
		return fmt.Errorf("serialize profile: %w", err)
	}
	p, err := profile.Validate(data)
	if err != nil {
		return err
	}

	s.Profile = p
	s.MissingFields = fieldStrings(gapSet(s))
	s.State = StateDone
	return nil
}

// Answer records the human's reply to the pending question and returns the
// session to evaluating. A blank reply declines the question for good.
func (c *Controller) Answer(s *Session, answer string) error {
	if s.State != StateAwaitingAnswer || len(s.PendingQuestions) == 0 {
		return fmt.Errorf("answer: no question is pending (state %s)", s.State)
	}

	q := s.PendingQuestions[0]
	f, err := profile.ParseField(q.Field)
	if err != nil {
		return fmt.Errorf("answer: %w", err)
	}

	if s.Answers == nil {
		s.Answers = map[string]string{}
	}
	if s.Settled == nil {
		s.Settled = map[string]string{}
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		if s.isInvalid(q.Field) {
			reset(s.Profile, f)
		}
		answer = NoAnswer
		s.Settled[q.Field] = OutcomeDeclined
	} else {
		merge(s.Profile, f, answer)
		s.Settled[q.Field] = OutcomeAnswered
	}

	s.clearInvalid(q.Field)
	s.Answers[q.Text] = answer
	s.Transcript = append(s.Transcript, Exchange{Field: q.Field, Question: q.Text, Answer: answer})
	s.PendingQuestions = []Question{}
	s.State = StateEvaluating

	c.logger.Debug("clarification answer",
		zap.String("field", q.Field),
		zap.String("outcome", s.Settled[q.Field]),
	)

	return nil
}

// Run drives an extracted session to done, blocking on asker for every question.
func (c *Controller) Run(ctx context.Context, s *Session, asker Asker) error {
	if s.State == StateExtracting {
		return errors.New("session has not been extracted yet")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		q, err := c.Next(s)
		if errors.Is(err, ErrExhausted) {
			continue
		}
		if err != nil {
			return err
		}
		if q == nil {
			return nil
		}

		answer, err := asker.Ask(ctx, q.Text)
		if err != nil {
			return fmt.Errorf("ask about %s: %w", q.Field, err)
		}

		if err := c.Answer(s, answer); err != nil {
			return err
		}
	}
}
