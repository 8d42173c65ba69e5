package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-builder/internal/ai"
	"github.com/spigell/resume-builder/internal/profile"
	"github.com/spigell/resume-builder/internal/utils"
	"go.uber.org/zap"
)

//go:embed extract.md
var extractPrompt string

//go:embed reformat.md
var reformatPrompt string

const defaultMaxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	GenerateJSON(ctx context.Context, system, message string) (string, error)
}

// Extractor reads a résumé through Gemini and validates the reply against the profile schema.
type Extractor struct {
	generator contentGenerator
	validator *profile.Validator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Extractor = (*Extractor)(nil)

func NewExtractor(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		generator: generator,
		validator: profile.NewValidator(logger),
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Extract makes one oracle call and, if the reply does not parse into a
// profile, exactly one more with a stricter reformatting instruction.
func (e *Extractor) Extract(ctx context.Context, rawText, jobDescription string) (*ai.Draft, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, &ai.ExtractionError{Cause: errors.New("résumé text is empty")}
	}

	message := buildExtractionMessage(rawText, jobDescription)

	raw, err := e.call(ctx, "extract", extractPrompt, message)
	if err != nil {
		return nil, &ai.ExtractionError{Attempts: 1, Cause: err}
	}

	draft, parseErr := e.parse(raw)
	if parseErr == nil {
		return draft, nil
	}

	e.logger.Warn("oracle reply does not match the profile schema, asking to reformat", zap.Error(parseErr))

	raw, err = e.call(ctx, "reformat", reformatPrompt, buildReformatMessage(message, raw, parseErr))
	if err != nil {
		return nil, &ai.ExtractionError{Attempts: 2, Cause: err}
	}

	draft, err = e.parse(raw)
	if err != nil {
		return nil, &ai.ExtractionError{Attempts: 2, Cause: err}
	}

	return draft, nil
}

func (e *Extractor) call(ctx context.Context, purpose, system, message string) (string, error) {
	e.logger.Debug("gemini generate content request",
		zap.String("purpose", purpose),
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", utils.TruncateForLog(message, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateJSON(ctx, system, message)
	if err != nil {
		return "", err
	}

	e.logger.Debug("gemini generate content response",
		zap.String("purpose", purpose),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	return raw, nil
}

type extractionEnvelope struct {
	Profile       json.RawMessage `json:"profile"`
	MissingFields []any           `json:"missing_fields"`
}

func (e *Extractor) parse(raw string) (*ai.Draft, error) {
	var envelope extractionEnvelope
	if err := json.Unmarshal([]byte(extractJSON(raw)), &envelope); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	body := strings.TrimSpace(string(envelope.Profile))
	if body == "" || body == "null" {
		return nil, errors.New("gemini response has no profile object")
	}

	p, err := e.validator.Validate(envelope.Profile)
	if err != nil {
		return nil, err
	}

	missing := make([]string, 0, len(envelope.MissingFields))
	for _, v := range envelope.MissingFields {
		if field := coerceString(v); field != "" {
			missing = append(missing, field)
		}
	}

	return &ai.Draft{Profile: p, MissingFields: missing, Raw: raw}, nil
}

func buildExtractionMessage(rawText, jobDescription string) string {
	var sb strings.Builder
	sb.WriteString("Résumé text:\n\"\"\"\n")
	sb.WriteString(strings.TrimSpace(rawText))
	sb.WriteString("\n\"\"\"\n")

	if jd := strings.TrimSpace(jobDescription); jd != "" {
		sb.WriteString("\nJob description (context only, never a source of facts):\n\"\"\"\n")
		sb.WriteString(jd)
		sb.WriteString("\n\"\"\"\n")
	}

	return sb.String()
}

func buildReformatMessage(original, previous string, cause error) string {
	var sb strings.Builder
	sb.WriteString(original)
	sb.WriteString("\nYour previous reply:\n\"\"\"\n")
	sb.WriteString(strings.TrimSpace(previous))
	sb.WriteString("\n\"\"\"\n\nProblem: ")
	sb.WriteString(cause.Error())
	sb.WriteString("\n")
	return sb.String()
}

// extractJSON strips markdown fences and any chatter around the outermost JSON object.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	if !strings.HasPrefix(raw, "{") {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start != -1 && end > start {
			raw = raw[start : end+1]
		}
	}
	return raw
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
