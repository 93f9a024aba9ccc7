package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/advisor"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/config"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/engine"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/grader"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "credit-grader",
	Short: "Grade credit report PDFs with a configurable rule set",
	Long: `credit-grader extracts the tradelines of a credit report PDF, classifies each
account and grades the report from 1 (best) to 5 (worst) with a YAML rule set.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var (
	DebugMode  bool
	configPath string
	rulesPath  string

	cfg    *config.Config
	logger *zap.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
// An interrupt cancels the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.credit-grader/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "YAML rule set to grade with instead of the built-in one")
}

// setup loads the user config and builds the logger before any command runs
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if DebugMode {
		level = "debug"
	}
	logger, err = logging.New(level, cfg.LogFormat)
	if err != nil {
		return err
	}
	logger.Debug("config loaded", zap.String("provider", cfg.SelectedProvider), zap.String("rules", activeRulesPath()))
	return nil
}

func saveConfig() error {
	if configPath != "" {
		return config.SaveTo(configPath, cfg)
	}
	return config.SaveConfig(cfg)
}

func activeRulesPath() string {
	if rulesPath != "" {
		return rulesPath
	}
	return cfg.RulesPath
}

// loadEngine compiles the rule set named by --rules or the config, falling back
// to the built-in one
func loadEngine() (*engine.Engine, error) {
	if p := activeRulesPath(); p != "" {
		return engine.Load(p)
	}
	return engine.Default()
}

func newGrader() (*grader.Grader, error) {
	eng, err := loadEngine()
	if err != nil {
		return nil, err
	}
	return grader.New(eng, logger), nil
}

// apiKeyEnv is checked when the config has no key for a provider
var apiKeyEnv = map[string]string{
	"gemini": "GOOGLE_API_KEY",
	"openai": "OPENAI_API_KEY",
}

func apiKey(provider string) string {
	if key := cfg.GetAPIKey(provider); key != "" {
		return key
	}
	return os.Getenv(apiKeyEnv[provider])
}

// providerName is the provider newAdvisor connects to
func providerName() string {
	if name := strings.ToLower(strings.TrimSpace(cfg.SelectedProvider)); name != "" {
		return name
	}
	return config.DefaultProvider
}

// newProvider is replaced in tests
var newProvider = advisor.NewProvider

// newAdvisor connects to the configured provider. The caller closes the provider.
func newAdvisor(ctx context.Context) (*advisor.Advisor, advisor.LLMProvider, error) {
	name := providerName()
	llm, err := newProvider(ctx, name, apiKey(name), cfg.SelectedModel)
	if err != nil {
		return nil, nil, err
	}
	return advisor.New(llm, logger), llm, nil
}
