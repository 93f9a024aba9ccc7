package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/advisor"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the AI advisor configuration (providers, models, keys)",
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key <provider> <key>",
	Short: "Set the API key for a provider",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := providerArg(args[0])
		if err != nil {
			return err
		}
		key := strings.TrimSpace(args[1])
		if key == "" {
			return errors.New("API key must not be empty")
		}

		cfg.SetAPIKey(provider, key)
		if err := saveConfig(); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "API key saved for provider: %s\n", provider)
		return nil
	},
}

var setModelCmd = &cobra.Command{
	Use:   "set-model",
	Short: "Set the active provider and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		model, _ := cmd.Flags().GetString("model")
		if provider == "" && model == "" {
			return errors.New("--provider or --model is required")
		}

		if provider != "" {
			p, err := providerArg(provider)
			if err != nil {
				return err
			}
			cfg.SelectedProvider = p
		}
		if model != "" {
			cfg.SelectedModel = model
		}

		if err := saveConfig(); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active configuration updated: Provider=%s, Model=%s\n", cfg.SelectedProvider, cfg.SelectedModel)
		return nil
	},
}

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List available models from the configured provider",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := cfg.SelectedProvider
		if provider == "" {
			return errors.New("no provider selected, run 'credit-grader config setup'")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Fetching models for %s...\n", provider)
		p, err := newProvider(cmd.Context(), provider, apiKey(provider), "")
		if err != nil {
			return err
		}
		defer p.Close()

		models, err := p.ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch models: %w", err)
		}

		fmt.Fprintf(out, "\nAvailable Models (%s):\n", provider)
		for _, m := range models {
			mark := " "
			if m == cfg.SelectedModel {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s\n", mark, m)
		}
		return nil
	},
}

func providerArg(name string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(name))
	if !slices.Contains(advisor.Providers, p) {
		return "", fmt.Errorf("unknown provider %q, expected one of %s", name, strings.Join(advisor.Providers, ", "))
	}
	return p, nil
}

func init() {
	setModelCmd.Flags().StringP("provider", "p", "", "Provider ("+strings.Join(advisor.Providers, ", ")+")")
	setModelCmd.Flags().StringP("model", "m", "", "Model name")

	configCmd.AddCommand(setKeyCmd)
	configCmd.AddCommand(setModelCmd)
	configCmd.AddCommand(listModelsCmd)
	rootCmd.AddCommand(configCmd)
}
