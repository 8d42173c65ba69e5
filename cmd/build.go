package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-builder/internal/adapt"
	"github.com/spigell/resume-builder/internal/ai/gemini"
	"github.com/spigell/resume-builder/internal/clarify"
	"github.com/spigell/resume-builder/internal/ingest"
	"github.com/spigell/resume-builder/internal/logger"
	"github.com/spigell/resume-builder/internal/pipeline"
	"github.com/spigell/resume-builder/internal/profile"
	"github.com/spigell/resume-builder/internal/prompter"
	"github.com/spigell/resume-builder/internal/secrets"
)

const (
	stageConfig = "config"
	stageInput  = "input"
	stageOutput = "output"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a Markdown résumé from a PDF, DOCX or text file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return build(cmd)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringP("in", "i", "", "résumé file (.pdf, .docx, .txt, .md)")
	buildCmd.Flags().StringP("out", "o", "resume.md", "where to write the Markdown résumé")
	buildCmd.Flags().String("jd", "", "job description text file to tailor the résumé to")
	buildCmd.Flags().String("profile-out", "", "also write the structured profile as JSON")
	buildCmd.Flags().BoolP("non-interactive", "n", false, "do not ask questions; leave gaps empty")
	buildCmd.Flags().Duration("timeout", 0, "abort the run after this long (0 means no limit)")

	buildCmd.MarkFlagRequired("in")
}

func build(cmd *cobra.Command) error {
	ctx := context.Background()
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return stageErr(stageConfig, fmt.Errorf("creating a logger: %w", err))
	}
	defer log.Sync()

	config, err := getConfig()
	if err != nil {
		return stageErr(stageConfig, err)
	}

	log.Info("starting the resume-builder", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(maskedConfig(config), "", "  ")
	log.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	in, _ := cmd.Flags().GetString("in")
	out, _ := cmd.Flags().GetString("out")
	jdPath, _ := cmd.Flags().GetString("jd")
	profileOut, _ := cmd.Flags().GetString("profile-out")
	nonInteractive, _ := cmd.Flags().GetBool("non-interactive")

	text, err := ingest.ExtractFile(in)
	if err != nil {
		var noText *ingest.NoExtractableTextError
		if errors.As(err, &noText) {
			return stageErr(pipeline.StepExtract, err)
		}
		return stageErr(stageInput, err)
	}
	log.Info("résumé text extracted", zap.String("path", in), zap.Int("length", len([]rune(text))))

	jd, err := ingest.ReadJobDescription(jdPath)
	if err != nil {
		return stageErr(stageInput, err)
	}

	generator, err := newGenerator(ctx, config.AI, log)
	if err != nil {
		return stageErr(stageConfig, err)
	}

	aiLogger := logger.WithCommonFields(log, gemini.Provider, generator.Model())
	extractor := gemini.NewExtractor(generator, aiLogger, config.AI.Gemini.MaxLogLength)
	writer := gemini.NewSummaryWriter(generator, aiLogger, config.AI.Gemini.MaxLogLength)

	var asker clarify.Asker = prompter.NewConsole()
	if nonInteractive {
		asker = prompter.Decline{}
	}

	controller := clarify.New(extractor, *config.Clarification, log)
	steps := pipeline.Steps(controller, asker, adapt.New(writer, log))

	result, err := pipeline.New(log, steps...).Run(ctx, text, jd)
	if err != nil {
		return err
	}

	if result.Exhausted {
		log.Warn("some gaps were left unanswered", zap.String("hint", "raise clarification.max-questions to be asked about more fields"))
	}

	if err := os.WriteFile(out, []byte(result.Document), 0o644); err != nil {
		return stageErr(stageOutput, fmt.Errorf("write %s: %w", out, err))
	}

	if profileOut != "" {
		data, err := profile.Serialize(result.Profile)
		if err != nil {
			return stageErr(stageOutput, err)
		}
		if err := os.WriteFile(profileOut, append(data, '\n'), 0o644); err != nil {
			return stageErr(stageOutput, fmt.Errorf("write %s: %w", profileOut, err))
		}
	}

	log.Info("résumé written",
		zap.String("path", out),
		zap.String("run_id", result.RunID),
		zap.Int("questions", len(result.Questions)),
	)

	return nil
}

func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*gemini.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.Provider {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	secret, err := secrets.Resolve(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key-file)", err)
	}

	logger.Debug("gemini api key loaded", zap.String("origin", secret.Origin), zap.String("key", secrets.Mask(secret.Value)))

	genLogger := logger.With(
		zap.String("provider", gemini.Provider),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	return gemini.NewGenerator(ctx, gemini.Config{
		APIKey:      secret.Value,
		Model:       cfg.Gemini.Model,
		Temperature: cfg.Gemini.Temperature,
		MaxRetries:  cfg.Gemini.MaxRetries,
	}, genLogger)
}

func maskedConfig(config *Config) *Config {
	masked := *config
	if config.AI != nil && config.AI.Gemini != nil {
		ai := *config.AI
		g := *config.AI.Gemini
		g.APIKey = secrets.Mask(g.APIKey)
		ai.Gemini = &g
		masked.AI = &ai
	}
	return &masked
}

func stageErr(stage string, err error) error {
	return &pipeline.StageError{Stage: stage, Err: err}
}
