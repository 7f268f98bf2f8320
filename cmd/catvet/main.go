package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zen-systems/catvet/pkg/adapter"
	"github.com/zen-systems/catvet/pkg/config"
	"github.com/zen-systems/catvet/pkg/response"
	"github.com/zen-systems/catvet/pkg/server"
)

const mockProvider = "mock"

var (
	configFile   string
	providerFlag string
	debugFlag    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "catvet",
		Short: "Cat photo health assessment gateway",
		Long: `catvet accepts a base64-encoded cat photo, asks a multimodal inference
	provider (Claude, Gemini, Hugging Face or OpenRouter) for a health assessment
	and returns it in a single provider-independent JSON envelope.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (default ~/.catvet/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "provider to use (claude, gemini, huggingface, openrouter, mock)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(providersCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var addrFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analyze HTTP endpoint",
		Long: `Serves POST /api/analyze with the configured default provider and
	POST /api/analyze/{provider} for every provider that has an API key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if addrFlag != "" {
				cfg.Addr = addrFlag
			}

			adapters, err := createAdapters(cfg)
			if err != nil {
				return fmt.Errorf("failed to create adapters: %w", err)
			}
			def, err := selectAdapter(cfg, adapters)
			if err != nil {
				return err
			}

			for kind, a := range adapters {
				logger.Info("provider ready",
					zap.String("kind", string(kind)),
					zap.String("adapter", a.Name()),
					zap.Strings("models", a.Models()),
				)
			}
			logger.Info("default provider", zap.String("adapter", def.Name()), zap.String("kind", string(def.Kind())))

			handler := server.Routes(def, adapters, logger, server.WithTimeout(cfg.RequestTimeout))
			srv := server.New(cfg.Addr, handler, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (overrides config, e.g. :3000)")

	return cmd
}

func analyzeCmd() *cobra.Command {
	var reportOnly bool

	cmd := &cobra.Command{
		Use:   "analyze [image-file]",
		Short: "Assess a local cat photo and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			adapters, err := createAdapters(cfg)
			if err != nil {
				return fmt.Errorf("failed to create adapters: %w", err)
			}
			a, err := selectAdapter(cfg, adapters)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Analyzing with %s/%s\n", a.Name(), strings.Join(a.Models(), " → "))

			resp, err := a.Analyze(context.Background(), base64.StdEncoding.EncodeToString(data))
			if err != nil {
				return err
			}
			result, err := response.Adapt(resp)
			if err != nil {
				return err
			}
			if result.FallbackUsed {
				logger.Warn("model output unparseable, using fallback report", zap.Error(result.ParseErr))
			}

			var out any = result.Envelope
			if reportOnly {
				out = result.Report
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().BoolVar(&reportOnly, "report", false, "print the decoded report instead of the envelope")

	return cmd
}

func providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List providers, their models and key status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			adapters, err := createAdapters(cfg)
			if err != nil {
				return fmt.Errorf("failed to create adapters: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tADAPTER\tMODELS\tSTATUS\tDEFAULT")

			kinds := adapter.Kinds()
			sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
			for _, kind := range kinds {
				name, models := "-", "-"
				if a, ok := adapters[kind]; ok {
					name, models = a.Name(), strings.Join(a.Models(), ", ")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", kind, name, models, keyStatus(cfg, string(kind)), defaultMark(cfg, string(kind)))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", mockProvider, "mock", "mock-1", keyStatus(cfg, mockProvider), defaultMark(cfg, mockProvider))

			return w.Flush()
		},
	}
}

func keyStatus(cfg *config.Config, provider string) string {
	if cfg.HasAdapter(provider) {
		return "ready"
	}
	return "no key"
}

func defaultMark(cfg *config.Config, provider string) string {
	if cfg.Provider == provider {
		return "*"
	}
	return ""
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if providerFlag != "" {
		cfg.Provider = providerFlag
	}
	return cfg, nil
}

func newLogger() (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if debugFlag {
		zcfg = zap.NewDevelopmentConfig()
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger.Named("catvet"), nil
}

// createAdapters builds an adapter for every provider with a configured key.
func createAdapters(cfg *config.Config) (map[adapter.Kind]adapter.Adapter, error) {
	adapters := make(map[adapter.Kind]adapter.Adapter)

	if cfg.AnthropicAPIKey != "" {
		a, err := adapter.NewAnthropicAdapter(cfg.AnthropicAPIKey, adapter.WithModel(cfg.Models.Claude))
		if err != nil {
			return nil, fmt.Errorf("failed to create anthropic adapter: %w", err)
		}
		adapters[adapter.KindClaude] = a
	}

	if cfg.GoogleAPIKey != "" {
		a, err := adapter.NewGoogleAdapter(cfg.GoogleAPIKey, adapter.WithModel(cfg.Models.Gemini))
		if err != nil {
			return nil, fmt.Errorf("failed to create google adapter: %w", err)
		}
		adapters[adapter.KindGemini] = a
	}

	if cfg.HuggingFaceAPIKey != "" {
		a, err := adapter.NewHuggingFaceAdapter(cfg.HuggingFaceAPIKey, adapter.WithModel(cfg.Models.HuggingFace))
		if err != nil {
			return nil, fmt.Errorf("failed to create huggingface adapter: %w", err)
		}
		adapters[adapter.KindHuggingFace] = a
	}

	if cfg.OpenRouterAPIKey != "" {
		a, err := adapter.NewOpenRouterAdapter(cfg.OpenRouterAPIKey, adapter.WithModel(cfg.Models.OpenRouter))
		if err != nil {
			return nil, fmt.Errorf("failed to create openrouter adapter: %w", err)
		}
		adapters[adapter.KindOpenRouter] = a
	}

	return adapters, nil
}

// selectAdapter returns the adapter for cfg.Provider.
func selectAdapter(cfg *config.Config, adapters map[adapter.Kind]adapter.Adapter) (adapter.Adapter, error) {
	if cfg.Provider == mockProvider {
		return adapter.NewMockAdapter(), nil
	}
	kind := adapter.Kind(cfg.Provider)
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if !cfg.HasAdapter(cfg.Provider) {
		return nil, fmt.Errorf("provider %q not available: API key is not configured", cfg.Provider)
	}
	a, ok := adapters[kind]
	if !ok {
		return nil, fmt.Errorf("provider %q not available: adapter was not created", cfg.Provider)
	}
	return a, nil
}
