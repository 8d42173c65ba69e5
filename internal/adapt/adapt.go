// Package adapt re-weights a profile toward a job description without adding facts.
package adapt

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/spigell/resume-builder/internal/ai"
	"github.com/spigell/resume-builder/internal/profile"
	"go.uber.org/zap"
)

// Stage reorders profile content by relevance and, when a writer is set,
// rephrases the professional summary.
type Stage struct {
	writer ai.SummaryWriter
	logger *zap.Logger
}

func New(writer ai.SummaryWriter, logger *zap.Logger) *Stage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stage{writer: writer, logger: logger}
}

// Adapt returns an adapted copy of p. The input is never modified. The result
// is checked with Verify and an *IntegrityError is returned instead of a
// profile that claims anything p does not.
func (s *Stage) Adapt(ctx context.Context, p *profile.Profile, jobDescription string) (*profile.Profile, error) {
	if p == nil {
		return nil, errors.New("adapt: profile is required")
	}

	out := p.Clone()
	if strings.TrimSpace(jobDescription) == "" {
		return out, nil
	}

	vocab := newVocabulary(jobDescription)
	rank(out, vocab)

	if s.writer != nil && out.ProfessionalSummary != "" {
		summary, err := s.writer.RewriteSummary(ctx, out, jobDescription)
		switch {
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.logger.Warn("summary rewrite failed, keeping the original", zap.Error(err))
		case strings.TrimSpace(summary) == "":
			s.logger.Warn("summary writer returned nothing, keeping the original")
		default:
			out.ProfessionalSummary = strings.TrimSpace(summary)
			s.logger.Debug("summary rewritten")
		}
	}

	if err := Verify(p, out, jobDescription); err != nil {
		s.logger.Error("adapted profile failed the integrity check", zap.Error(err))
		return nil, err
	}

	s.logger.Info("profile adapted",
		zap.Strings("skills", out.TechnicalSkills),
		zap.Int("experience", len(out.Experience)),
	)

	return out, nil
}

// rank sorts skills, bullets and experience entries by relevance to vocab.
// Equal scores keep their original order.
func rank(p *profile.Profile, vocab vocabulary) {
	sortByScore(p.TechnicalSkills, vocab.phraseCount)

	scores := make([]int, len(p.Experience))
	for i := range p.Experience {
		e := &p.Experience[i]
		sortByScore(e.Bullets, vocab.overlap)
		scores[i] = 2 * vocab.overlap(e.JobTitle)
		for _, b := range e.Bullets {
			scores[i] += vocab.overlap(b)
		}
	}

	order := make([]int, len(p.Experience))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	ranked := make([]profile.Experience, len(p.Experience))
	for i, idx := range order {
		ranked[i] = p.Experience[idx]
	}
	p.Experience = ranked
}

func sortByScore(items []string, score func(string) int) {
	scores := make(map[string]int, len(items))
	for _, item := range items {
		scores[item] = score(item)
	}
	sort.SliceStable(items, func(i, j int) bool { return scores[items[i]] > scores[items[j]] })
}
