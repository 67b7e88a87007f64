package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/myinvois/internal/client"
	"github.com/rezonia/myinvois/internal/config"
	"github.com/rezonia/myinvois/internal/logger"
)

var (
	version = "1.0.0"

	// Global flags
	cfgFile    string
	verbose    bool
	jsonOutput bool

	v   = config.New()
	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "myinvois",
	Short: "Build, sign and submit MyInvois e-invoices",
	Long: `myinvois converts simplified invoice JSON into UBL 2.1 documents for the
Malaysian MyInvois platform and talks to the MyInvois API.

Credentials are read from flags, MYINVOIS_* environment variables, a .env
file or myinvois.yaml.

Examples:
  # Convert an invoice to the submission envelope
  myinvois transform invoice.json

  # Render signed UBL XML
  myinvois sign invoice.json --cert cert.pem --key key.pem -o invoice.xml

  # Submit invoices and check the submission
  myinvois submit invoices/*.json
  myinvois submission <submission-uid>

  # Act as an intermediary
  myinvois documents recent --on-behalf-of C1234567890`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: ./myinvois.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	flags.String("environment", "sandbox", "MyInvois environment: sandbox or production (env: MYINVOIS_ENVIRONMENT)")
	flags.String("base-url", "", "Override the API base URL (env: MYINVOIS_BASE_URL)")
	flags.String("identity-url", "", "Override the identity service URL (env: MYINVOIS_IDENTITY_URL)")
	flags.String("client-id", "", "API client ID (env: MYINVOIS_CLIENT_ID)")
	flags.String("client-secret", "", "API client secret (env: MYINVOIS_CLIENT_SECRET)")
	flags.String("on-behalf-of", "", "Taxpayer TIN when acting as an intermediary (env: MYINVOIS_ON_BEHALF_OF)")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error (env: MYINVOIS_LOG_LEVEL)")
	flags.Duration("timeout", 30*time.Second, "Timeout per API request (env: MYINVOIS_TIMEOUT)")
	flags.String("redis-addr", "", "Share access tokens through this redis server (env: MYINVOIS_REDIS_ADDR)")

	for key, name := range map[string]string{
		"environment":   "environment",
		"base_url":      "base-url",
		"identity_url":  "identity-url",
		"client_id":     "client-id",
		"client_secret": "client-secret",
		"on_behalf_of":  "on-behalf-of",
		"log_level":     "log-level",
		"timeout":       "timeout",
		"redis.addr":    "redis-addr",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func initConfig() error {
	loaded, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	l, err := logger.NewDevelopment(level)
	if err != nil {
		return err
	}
	log = l
	return nil
}

// newClient builds an API client from the loaded configuration
func newClient() (*client.Client, error) {
	if err := cfg.ValidateCredentials(); err != nil {
		return nil, err
	}

	env, err := client.ParseEnvironment(cfg.Environment)
	if err != nil {
		return nil, err
	}

	opts := []client.Option{
		client.WithEnvironment(env),
		client.WithLogger(log),
		client.WithTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, client.WithBaseURL(cfg.BaseURL))
	}
	if cfg.IdentityURL != "" {
		opts = append(opts, client.WithIdentityURL(cfg.IdentityURL))
	}
	if cfg.OnBehalfOf != "" {
		opts = append(opts, client.WithOnBehalfOf(cfg.OnBehalfOf))
	}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		opts = append(opts, client.WithTokenStore(client.NewRedisTokenStore(rdb, "")))
	}

	return client.New(cfg.ClientID, cfg.ClientSecret, opts...), nil
}

func printJSON(w io.Writer, value interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
