package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/backoffice/backoffice-cli/internal/api"
	"github.com/backoffice/backoffice-cli/internal/config"
	"github.com/backoffice/backoffice-cli/internal/iocontext"
	"github.com/backoffice/backoffice-cli/internal/validation"
)

// newAuthCmd returns the auth command with subcommands
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"au"},
		Short:   "Log in and manage profiles",
		Long:    "Log in to a backoffice and manage the profiles stored in your OS keychain.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthResetPasswordCmd())
	cmd.AddCommand(newAuthProfilesCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		username      string
		password      string
		passwordStdin bool
		savePassword  bool
		envFile       string
	)

	cmd := &cobra.Command{
		Use:   "login [url]",
		Short: "Log in and save the connection as a profile",
		Long: strings.TrimSpace(`
Log in to a backoffice with a username and password.

The connection is saved as a profile in your OS keychain together with the
session cookies, so later commands reuse the session. When the password is
saved too, an expired session is renewed without asking.
`),
		Example: strings.TrimSpace(`
  # Prompt for the password
  bo auth login https://cms.example.com --username editor@example.com

  # Non-interactive
  echo "$PASSWORD" | bo auth login https://cms.example.com --username editor@example.com --password-stdin

  # Named profile with a custom backoffice path
  bo auth login https://staging.example.com --username admin --profile staging --backoffice-path /cms

  # Load BO_BASE_URL, BO_USERNAME and BO_PASSWORD from a .env file
  bo auth login --env-file .env
`),
		Args: cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if password != "" && passwordStdin {
				return fmt.Errorf("--password and --password-stdin conflict; set only one of them")
			}

			baseURL := flags.BaseURL
			if len(args) == 1 {
				if baseURL != "" && baseURL != args[0] {
					return fmt.Errorf("server URL given both as argument and --base-url")
				}
				baseURL = args[0]
			}
			profile := flags.Profile

			if envFile != "" {
				envVars, err := godotenv.Read(envFile)
				if err != nil {
					return fmt.Errorf("failed to read env file %q: %w", envFile, err)
				}
				baseURL = firstNonEmpty(baseURL, envVars["BO_BASE_URL"])
				username = firstNonEmpty(username, envVars["BO_USERNAME"])
				password = firstNonEmpty(password, envVars["BO_PASSWORD"])
				profile = firstNonEmpty(profile, envVars["BO_PROFILE"])
			}
			if profile == "" {
				profile = "default"
			}

			baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
			if baseURL == "" {
				return fmt.Errorf("server URL is required: bo auth login <url> --username <name>")
			}
			if err := validation.ValidateBaseURL(baseURL); err != nil {
				return fmt.Errorf("invalid URL: %w", err)
			}
			if flags.BackofficePath != "" {
				if err := validation.ValidateBackofficePath(flags.BackofficePath); err != nil {
					return err
				}
			}
			if strings.TrimSpace(username) == "" {
				return fmt.Errorf("--username is required")
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			if passwordStdin || password == "" {
				if !passwordStdin {
					_, _ = fmt.Fprint(ioStreams.ErrOut, "Password: ")
				}
				pw, err := readSecretLine(ioStreams.In)
				if err != nil {
					return err
				}
				password = pw
			}
			if password == "" {
				return fmt.Errorf("password is required")
			}

			cfg := config.ClientConfig{
				ProfileName:    profile,
				BaseURL:        baseURL,
				BackofficePath: flags.BackofficePath,
				Username:       username,
				Password:       password,
				Culture:        flags.Culture,
				Segment:        flags.Segment,
			}
			a := newClientFactory().newApp(cmd.Context(), cfg)
			user, err := a.session.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			stored := config.Profile{
				BaseURL:        baseURL,
				BackofficePath: flags.BackofficePath,
				Username:       username,
				Culture:        flags.Culture,
				Segment:        flags.Segment,
			}
			if savePassword {
				stored.Password = password
			}
			if err := config.SaveProfile(profile, stored); err != nil {
				return fmt.Errorf("failed to save profile: %w", err)
			}

			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{
					"profile": profile,
					"baseUrl": baseURL,
					"user":    user,
				})
			}
			out := ioStreams.Out
			_, _ = fmt.Fprintf(out, "Logged in as %s\n", describeUser(user, username))
			_, _ = fmt.Fprintf(out, "  Server:  %s\n", baseURL)
			if profile != "default" {
				_, _ = fmt.Fprintf(out, "  Profile: %s\n", profile)
			}
			if !savePassword {
				_, _ = fmt.Fprintln(out, "  Password not saved; run login again when the session expires.")
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Backoffice username")
	cmd.Flags().StringVar(&password, "password", "", "Password (prefer --password-stdin or the prompt)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.Flags().BoolVar(&savePassword, "save-password", true, "Store the password in the keychain for automatic re-login")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load BO_* values from a .env file")
	return cmd
}

func readSecretLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func describeUser(u *api.CurrentUser, fallback string) string {
	if u == nil || u.Name == "" {
		return fallback
	}
	if u.Email != "" {
		return fmt.Sprintf("%s <%s>", u.Name, u.Email)
	}
	return u.Name
}

func newAuthLogoutCmd() *cobra.Command {
	var forget bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the session of the active profile",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			logoutErr := a.session.Logout(ctx)
			if logoutErr != nil && !api.IsAuthError(logoutErr) {
				return logoutErr
			}
			if forget {
				if err := config.DeleteProfile(a.cfg.ProfileName); err != nil {
					return err
				}
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"profile": a.cfg.ProfileName, "loggedOut": true, "forgotten": forget})
			}
			printAction(cmd, "Logged out of", "profile", a.cfg.ProfileName, "")
			if forget {
				printAction(cmd, "Deleted", "profile", a.cfg.ProfileName, "")
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&forget, "forget", false, "Also delete the stored profile")
	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who is logged in and how long the session has left",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			user, err := a.session.Refresh(ctx)
			if err != nil {
				if api.StatusOf(err) == http.StatusUnauthorized {
					return fmt.Errorf("not logged in to %s: %w", a.client.BaseURL, err)
				}
				return err
			}
			remaining := remainingSeconds(ctx, a)

			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{
					"profile":          a.cfg.ProfileName,
					"baseUrl":          a.client.BaseURL,
					"user":             user,
					"state":            a.tracker.State().String(),
					"remainingSeconds": remaining,
				})
			}
			p := newPrinter(cmd)
			p.Line("Logged in as %s", describeUser(user, a.cfg.Username))
			p.Line("  Profile:  %s", a.cfg.ProfileName)
			p.Line("  Server:   %s", a.client.BaseURL)
			if len(user.AllowedSections) > 0 {
				p.Line("  Sections: %s", strings.Join(user.AllowedSections, ", "))
			}
			if remaining > 0 {
				p.Line("  Session:  %d min left", int(remaining)/60)
			}
			if a.cfg.HasCredentials() {
				p.Line("  Re-login: automatic")
			}
			return nil
		}),
	}
}

// remainingSeconds asks the server for the session timeout and records it on the tracker.
// Zero means unknown.
func remainingSeconds(ctx context.Context, a *app) float64 {
	seconds, err := a.client.Authentication().GetRemainingTimeoutSeconds(ctx)
	if err != nil {
		return a.tracker.RemainingSeconds()
	}
	a.tracker.SetRemainingSeconds(seconds)
	return seconds
}

func newAuthResetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <email>",
		Short: "Ask the server to email a password reset link",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			if err := a.client.Authentication().RequestPasswordReset(ctx, args[0]); err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"email": args[0], "requested": true})
			}
			printAction(cmd, "Requested", "password reset for", args[0], "")
			return nil
		}),
	}
}

func newAuthProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"profile"},
		Short:   "List, switch and delete stored profiles",
	}
	cmd.AddCommand(newAuthProfilesListCmd())
	cmd.AddCommand(newAuthProfilesUseCmd())
	cmd.AddCommand(newAuthProfilesDeleteCmd())
	return cmd
}

func newAuthProfilesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored profiles",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			names, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, err := config.CurrentProfile()
			if err != nil {
				return err
			}

			type row struct {
				Name     string `json:"name"`
				BaseURL  string `json:"baseUrl"`
				Username string `json:"username"`
				Current  bool   `json:"current"`
			}
			rows := make([]row, 0, len(names))
			for _, name := range names {
				p, err := config.LoadProfile(name)
				if err != nil {
					continue
				}
				rows = append(rows, row{Name: name, BaseURL: p.BaseURL, Username: p.Username, Current: name == current})
			}
			if isStructured(cmd) {
				return printJSON(cmd, rows)
			}
			pr := newPrinter(cmd)
			if len(rows) == 0 {
				pr.Empty("No profiles stored; run 'bo auth login'")
				return nil
			}
			pr.Table("", "PROFILE", "SERVER", "USERNAME")
			for _, r := range rows {
				marker := ""
				if r.Current {
					marker = "*"
				}
				pr.Row(marker, r.Name, r.BaseURL, r.Username)
			}
			return pr.Flush()
		}),
	}
}

func newAuthProfilesUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Make a profile the active one",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if _, err := config.LoadProfile(name); err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					return fmt.Errorf("profile %q not found", name)
				}
				return err
			}
			if err := config.SetCurrentProfile(name); err != nil {
				return err
			}
			printAction(cmd, "Switched to", "profile", name, "")
			return nil
		}),
	}
}

func newAuthProfilesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored profile and its session",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ok, err := confirmAction(cmd, fmt.Sprintf("Delete profile %q?", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if err := config.DeleteProfile(args[0]); err != nil {
				return err
			}
			printAction(cmd, "Deleted", "profile", args[0], "")
			return nil
		}),
	}
}
