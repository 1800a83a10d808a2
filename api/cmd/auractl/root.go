package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"aura-check/api/internal/aura"
	"aura-check/api/internal/config"
	"aura-check/api/internal/logger"
	"aura-check/api/internal/vision"
)

// commandContext builds the pipeline lazily so `prompt` works without config.
type commandContext struct {
	provider string
	model    string

	newPipeline func(provider, model string) (*aura.Pipeline, error)
}

func newCommandContext() *commandContext {
	return &commandContext{newPipeline: pipelineFromEnv}
}

func pipelineFromEnv(provider, model string) (*aura.Pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.LogLevel)
	if provider != "" {
		cfg.Provider = provider
	}
	if model != "" {
		switch cfg.Provider {
		case config.ProviderGPT, "openai":
			cfg.OpenAIModel = model
		default:
			cfg.GeminiModel = model
		}
	}
	engine, err := vision.NewEngines(cfg).GetEngine(cfg.Provider)
	if err != nil {
		return nil, err
	}
	return aura.New(engine, cfg.Credential()), nil
}

func (c *commandContext) pipeline() (*aura.Pipeline, error) {
	return c.newPipeline(c.provider, c.model)
}

func newRootCommand(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "auractl",
		Short:         "Rate outfit photos from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.provider, "provider", "p", "", "Model provider: gemini or gpt (default from LLM_PROVIDER)")
	rootCmd.PersistentFlags().StringVarP(&ctx.model, "model", "m", "", "Model id override")

	rootCmd.AddCommand(newAnalyzeCommand(ctx))
	rootCmd.AddCommand(newPromptCommand())
	return rootCmd
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newPromptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Print the fixed prompt sent with every photo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), aura.PromptText)
			return err
		},
	}
}
