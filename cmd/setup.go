package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for the AI advisor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := bufio.NewScanner(cmd.InOrStdin())
		out := cmd.OutOrStdout()
		ask := func(prompt string) string {
			fmt.Fprint(out, prompt)
			in.Scan()
			return strings.TrimSpace(in.Text())
		}

		fmt.Fprintln(out, "Welcome to the credit-grader advisor setup")
		fmt.Fprintln(out, "------------------------------------------")

		fmt.Fprintln(out, "Step 1: Choose your AI Provider")
		fmt.Fprintln(out, "1. Gemini (Google)")
		fmt.Fprintln(out, "2. OpenAI")
		var provider string
		switch strings.ToLower(ask("Enter number or name > ")) {
		case "1", "gemini":
			provider = "gemini"
		case "2", "openai":
			provider = "openai"
		default:
			return errors.New("invalid provider choice")
		}

		fmt.Fprintf(out, "\nStep 2: Enter API Key for %s\n", provider)
		key := ask("> ")
		if key == "" {
			return errors.New("API key cannot be empty")
		}

		fmt.Fprintln(out, "\nStep 3: Validating key and fetching available models...")
		p, err := newProvider(cmd.Context(), provider, key, "")
		if err != nil {
			return fmt.Errorf("initialize provider: %w", err)
		}
		defer p.Close()

		var model string
		models, err := p.ListModels(cmd.Context())
		switch {
		case err != nil || len(models) == 0:
			if err != nil {
				fmt.Fprintf(out, "Warning: Could not fetch models from API: %v\n", err)
			}
			model = ask("Enter model name manually (e.g. 'gemini-1.5-flash', 'gpt-4o-mini') > ")
		default:
			fmt.Fprintf(out, "Successfully retrieved %d models.\n", len(models))
			for i, m := range models {
				fmt.Fprintf(out, "%d. %s\n", i+1, m)
			}
			idx, err := strconv.Atoi(ask("Select Model (number) > "))
			if err != nil || idx < 1 || idx > len(models) {
				fmt.Fprintln(out, "Invalid selection. Using first available model.")
				idx = 1
			}
			model = models[idx-1]
		}

		fmt.Fprintln(out, "\nStep 4: Saving Configuration...")
		cfg.SelectedProvider = provider
		cfg.SelectedModel = model
		cfg.SetAPIKey(provider, key)
		if err := saveConfig(); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		fmt.Fprintln(out, "------------------------------------------")
		fmt.Fprintln(out, "Setup Complete!")
		fmt.Fprintf(out, "Provider: %s\n", provider)
		fmt.Fprintf(out, "Model:    %s\n", model)
		fmt.Fprintln(out, "You can now run 'credit-grader analyze --explain <report.pdf>'")
		return nil
	},
}

func init() {
	configCmd.AddCommand(setupCmd)
}
