package cmd

import (
	"errors"
	"sort"

	"github.com/spf13/cobra"

	"github.com/backoffice/backoffice-cli/internal/api"
)

func newServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "server",
		Aliases: []string{"srv"},
		Short:   "Inspect the server configuration",
	}
	cmd.AddCommand(newServerInfoCmd())
	cmd.AddCommand(newServerAliasesCmd())
	return cmd
}

func newServerInfoCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the server version and backoffice settings",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			sv, err := a.serverVariables(ctx, refresh)
			if err != nil {
				return err
			}
			versionErr := sv.CheckVersion()
			if versionErr != nil && !errors.Is(versionErr, api.ErrUnsupportedServer) {
				return versionErr
			}

			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{
					"baseUrl":            a.client.BaseURL,
					"backofficePath":     sv.UmbracoSettings.UmbracoPath,
					"version":            sv.Application.Version,
					"supported":          versionErr == nil,
					"minVersion":         api.MinServerVersion,
					"allowPasswordReset": sv.UmbracoSettings.AllowPasswordReset,
					"debug":              sv.IsDebuggingEnabled,
					"aliases":            len(sv.UmbracoURLs),
				})
			}
			p := newPrinter(cmd)
			p.Line("Server:          %s", a.client.BaseURL)
			p.Line("Backoffice path: %s", sv.UmbracoSettings.UmbracoPath)
			p.Line("Version:         %s", sv.Application.Version)
			p.Line("Password reset:  %s", yesNo(sv.UmbracoSettings.AllowPasswordReset))
			p.Line("Debugging:       %s", yesNo(sv.IsDebuggingEnabled))
			p.Line("API aliases:     %d", len(sv.UmbracoURLs))
			if versionErr != nil {
				return versionErr
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the local cache")
	return cmd
}

func newServerAliasesCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "List the API base URL aliases the server publishes",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			if _, err := a.serverVariables(ctx, refresh); err != nil {
				return err
			}
			aliases := a.client.Endpoints.Aliases()
			sort.Strings(aliases)
			rows := make([]map[string]string, 0, len(aliases))
			for _, alias := range aliases {
				base, _ := a.client.Endpoints.Base(alias)
				rows = append(rows, map[string]string{"alias": alias, "baseUrl": base})
			}
			if isStructured(cmd) {
				return printJSON(cmd, rows)
			}
			p := newPrinter(cmd)
			p.Table("ALIAS", "BASE URL")
			for _, row := range rows {
				p.Row(row["alias"], row["baseUrl"])
			}
			return p.Flush()
		}),
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the local cache")
	return cmd
}
