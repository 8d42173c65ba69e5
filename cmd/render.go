package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-builder/internal/logger"
	"github.com/spigell/resume-builder/internal/profile"
	"github.com/spigell/resume-builder/internal/render"
)

const stageValidate = "validate"

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a saved profile JSON to Markdown without calling the model",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return renderProfile(cmd)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("profile", "p", "", "profile JSON written by build --profile-out")
	renderCmd.Flags().StringP("out", "o", "", "where to write the Markdown résumé (default stdout)")

	renderCmd.MarkFlagRequired("profile")
}

func renderProfile(cmd *cobra.Command) error {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return stageErr(stageConfig, fmt.Errorf("creating a logger: %w", err))
	}
	defer log.Sync()

	path, _ := cmd.Flags().GetString("profile")
	out, _ := cmd.Flags().GetString("out")

	data, err := os.ReadFile(path)
	if err != nil {
		return stageErr(stageInput, err)
	}

	p, err := profile.NewValidator(log).Validate(data)
	if err != nil {
		return stageErr(stageValidate, err)
	}

	document := render.Render(p)

	if out == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), document)
		return err
	}

	if err := os.WriteFile(out, []byte(document), 0o644); err != nil {
		return stageErr(stageOutput, fmt.Errorf("write %s: %w", out, err))
	}

	log.Info("résumé written", zap.String("path", out), zap.String("profile", path))
	return nil
}
