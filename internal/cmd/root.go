package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/backoffice/backoffice-cli/internal/api"
	"github.com/backoffice/backoffice-cli/internal/config"
	"github.com/backoffice/backoffice-cli/internal/debug"
	"github.com/backoffice/backoffice-cli/internal/dryrun"
	"github.com/backoffice/backoffice-cli/internal/iocontext"
	"github.com/backoffice/backoffice-cli/internal/outfmt"
	"github.com/backoffice/backoffice-cli/internal/validation"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output       string
	JSON         bool
	Query        string
	Template     string
	Compact      bool
	Debug        bool
	ServerDebug  bool
	DryRun       bool
	Quiet        bool
	Yes          bool
	AllowPrivate bool
	Timeout      time.Duration

	Profile        string
	BaseURL        string
	BackofficePath string
	Culture        string
	Segment        string
}

// flags holds the global command flags. It is reset at the start of every
// Execute() call; tests rely on that for clean state.
var flags = defaultFlags()

func defaultFlags() rootFlags {
	return rootFlags{
		Output:       defaultOutput(),
		AllowPrivate: parseBoolEnv("BO_ALLOW_PRIVATE"),
		Timeout:      api.DefaultTimeout,
	}
}

func defaultOutput() string {
	value := strings.TrimSpace(os.Getenv("BO_OUTPUT"))
	if value != "" {
		return normalizeOutputFormat(value)
	}
	return "text"
}

func normalizeOutputFormat(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "ndjson" {
		return "jsonl"
	}
	return value
}

func parseBoolEnv(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

// loadDotEnv loads <config dir>/.env when it exists. Variables already set in
// the environment win.
func loadDotEnv() {
	path := filepath.Join(config.Dir(), ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	loadDotEnv()
	flags = defaultFlags()

	root := &cobra.Command{
		Use:           "bo",
		Short:         "CLI for the Umbraco backoffice API",
		Long:          "Browse and manage backoffice content, media, users and settings from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupContext(cmd)
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl (env BO_OUTPUT)")
	pf.BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	pf.StringVarP(&flags.Query, "query", "q", "", "JQ expression to filter JSON output")
	pf.StringVar(&flags.Template, "template", "", "Go template string (or @path) to render JSON output")
	pf.BoolVar(&flags.Compact, "compact", false, "Compact JSON output (no indentation)")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&flags.ServerDebug, "umb-debug", false, "Ask the server for debug responses (X-UMB-DEBUG)")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Preview changes without executing")
	pf.BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-essential output")
	pf.BoolVarP(&flags.Yes, "yes", "y", false, "Skip confirmation prompts")
	pf.BoolVar(&flags.AllowPrivate, "allow-private", flags.AllowPrivate, "Allow private/localhost server URLs (env BO_ALLOW_PRIVATE)")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g., 30s, 2m)")
	pf.StringVar(&flags.Profile, "profile", "", "Profile to use (env BO_PROFILE)")
	pf.StringVar(&flags.BaseURL, "base-url", "", "Server URL, overriding the profile (env BO_BASE_URL)")
	pf.StringVar(&flags.BackofficePath, "backoffice-path", "", "Path the backoffice is mounted under (default /umbraco)")
	pf.StringVar(&flags.Culture, "culture", "", "Content culture sent as X-UMB-CULTURE (env BO_CULTURE)")
	pf.StringVar(&flags.Segment, "segment", "", "Content segment sent as X-UMB-SEGMENT")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newContentCmd())
	root.AddCommand(newMediaCmd())
	root.AddCommand(newEntityCmd())
	root.AddCommand(newUsersCmd())
	root.AddCommand(newDictionaryCmd())
	root.AddCommand(newTemplatesCmd())
	root.AddCommand(newDataTypesCmd())
	root.AddCommand(newLanguagesCmd())
	root.AddCommand(newServerCmd())
	root.AddCommand(newAPICmd())
	root.AddCommand(newOpenCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	_, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), err)
		}
		return err
	}
	return nil
}

// setupContext turns the global flags into context values shared by every command.
func setupContext(cmd *cobra.Command) error {
	ctx := cmd.Context()

	flags.Output = normalizeOutputFormat(flags.Output)
	if flags.JSON {
		if cmd.Flags().Changed("output") && flags.Output != "json" {
			return fmt.Errorf("--json conflicts with --output %s", flags.Output)
		}
		flags.Output = "json"
	}
	if (flags.Query != "" || flags.Template != "") && flags.Output == "text" {
		if cmd.Flags().Changed("output") {
			return fmt.Errorf("--query/--template require --output json or jsonl (or --json)")
		}
		flags.Output = "json"
	}
	mode, err := outfmt.ParseMode(flags.Output)
	if err != nil {
		return err
	}
	tmpl, err := loadTemplate(flags.Template)
	if err != nil {
		return err
	}
	ctx = outfmt.WithOptions(ctx, outfmt.Options{
		Mode:     mode,
		Query:    flags.Query,
		Template: tmpl,
		Compact:  flags.Compact,
	})

	ioStreams := iocontext.GetIO(ctx)
	if flags.Quiet && mode == outfmt.Text {
		quiet := *ioStreams
		quiet.Out = io.Discard
		ioStreams = &quiet
	}
	ctx = iocontext.WithIO(ctx, ioStreams)
	cmd.SetOut(ioStreams.Out)
	cmd.SetErr(ioStreams.ErrOut)

	validation.SetAllowPrivate(flags.AllowPrivate)
	if flags.AllowPrivate && !flags.Quiet {
		_, _ = fmt.Fprintln(ioStreams.ErrOut, "Warning: allowing private/localhost URLs (use only with trusted servers).")
	}

	if flags.Timeout < 0 {
		return fmt.Errorf("--timeout must be >= 0")
	}

	debug.SetupLogger(flags.Debug)
	ctx = debug.WithDebug(ctx, flags.Debug)
	ctx = debug.WithServerDebug(ctx, flags.ServerDebug)
	ctx = dryrun.WithDryRun(ctx, flags.DryRun)

	cmd.SetContext(ctx)
	return nil
}

func loadTemplate(value string) (string, error) {
	if path, ok := strings.CutPrefix(value, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read template file: %w", err)
		}
		return string(data), nil
	}
	return value, nil
}
