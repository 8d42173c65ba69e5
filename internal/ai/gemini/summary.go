package gemini

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-builder/internal/ai"
	"github.com/spigell/resume-builder/internal/profile"
	"github.com/spigell/resume-builder/internal/utils"
	"go.uber.org/zap"
)

//go:embed adapt.md
var adaptPrompt string

// SummaryWriter asks Gemini to rephrase the professional summary for a job description.
type SummaryWriter struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.SummaryWriter = (*SummaryWriter)(nil)

func NewSummaryWriter(generator contentGenerator, logger *zap.Logger, maxLogLength int) *SummaryWriter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SummaryWriter{generator: generator, logger: logger, maxLogLen: maxLogLength}
}

func (w *SummaryWriter) RewriteSummary(ctx context.Context, p *profile.Profile, jobDescription string) (string, error) {
	if p == nil {
		return "", errors.New("profile is required")
	}

	payload, err := profile.Serialize(p)
	if err != nil {
		return "", fmt.Errorf("marshal profile payload: %w", err)
	}

	message := buildSummaryMessage(string(payload), jobDescription)

	w.logger.Debug("gemini generate content request",
		zap.String("purpose", "summary"),
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", utils.TruncateForLog(message, w.maxLogLen)),
	)

	raw, err := w.generator.GenerateContent(ctx, adaptPrompt, message)
	if err != nil {
		return "", err
	}

	summary := cleanSummary(raw)
	if summary == "" {
		return "", errors.New("gemini returned an empty summary")
	}

	w.logger.Debug("gemini generate content response",
		zap.String("purpose", "summary"),
		zap.String("response_preview", utils.TruncateForLog(summary, w.maxLogLen)),
	)

	return summary, nil
}

func buildSummaryMessage(profileJSON, jobDescription string) string {
	return "Profile JSON:\n" + profileJSON +
		"\n\nTarget job description:\n\"\"\"\n" + strings.TrimSpace(jobDescription) + "\n\"\"\"\n"
}

// cleanSummary removes fences, headings and wrapping quotes and folds the text into one paragraph.
func cleanSummary(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```text")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, line)
	}

	summary := strings.Join(strings.Fields(strings.Join(kept, " ")), " ")
	return strings.Trim(summary, `"“”`)
}
