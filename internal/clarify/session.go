// Package clarify drives the question-and-answer loop that fills gaps in an extracted profile.
package clarify

import (
	"errors"

	"github.com/spigell/resume-builder/internal/profile"
)

// State is a phase of the clarification state machine.
type State string

const (
	StateExtracting     State = "extracting"
	StateEvaluating     State = "evaluating"
	StateAwaitingAnswer State = "awaiting_answer"
	StateFinalizing     State = "finalizing"
	StateDone           State = "done"
)

// Outcomes recorded in Session.Settled.
const (
	OutcomeAnswered = "answered"
	OutcomeDeclined = "declined"
)

// NoAnswer is recorded for questions the human left blank.
const NoAnswer = "no answer provided"

// ErrExhausted is returned by Next once, when the question cap is reached with
// gaps left. It is not fatal: the session moves on to finalizing.
var ErrExhausted = errors.New("clarification question limit reached")

// Question asks the human about a single field.
type Question struct {
	Field string `json:"field"`
	Text  string `json:"text"`
}

// Exchange is one asked question with the answer as recorded.
type Exchange struct {
	Field    string `json:"field"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Session is the clarification state of one run. It is plain data and can be
// serialized between steps.
type Session struct {
	State            State             `json:"state"`
	Profile          *profile.Profile  `json:"profile,omitempty"`
	Hints            []string          `json:"hints"`
	MissingFields    []string          `json:"missing_fields"`
	PendingQuestions []Question        `json:"pending_questions"`
	Answers          map[string]string `json:"answers"`
	Settled          map[string]string `json:"settled"`
	Invalid          []string          `json:"invalid"`
	Transcript       []Exchange        `json:"transcript"`
	Asked            int               `json:"asked"`
	FinalizeRounds   int               `json:"finalize_rounds"`
	Exhausted        bool              `json:"exhausted"`
}

// NewSession returns a session waiting for extraction.
func NewSession() *Session {
	return &Session{
		State:            StateExtracting,
		Hints:            []string{},
		MissingFields:    []string{},
		PendingQuestions: []Question{},
		Answers:          map[string]string{},
		Settled:          map[string]string{},
		Invalid:          []string{},
		Transcript:       []Exchange{},
	}
}

func (s *Session) isInvalid(field string) bool {
	for _, f := range s.Invalid {
		if f == field {
			return true
		}
	}
	return false
}

func (s *Session) markInvalid(field string) {
	if !s.isInvalid(field) {
		s.Invalid = append(s.Invalid, field)
	}
}

func (s *Session) clearInvalid(field string) {
	kept := s.Invalid[:0]
	for _, f := range s.Invalid {
		if f != field {
			kept = append(kept, f)
		}
	}
	s.Invalid = kept
}
