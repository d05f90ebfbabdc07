package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/backoffice/backoffice-cli/internal/api"
	"github.com/backoffice/backoffice-cli/internal/cache"
)

func newLanguagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "languages",
		Aliases: []string{"language", "lang"},
		Short:   "List installed content languages",
		Args:    cobra.NoArgs,
	}
	cmd.AddCommand(newLanguagesListCmd())
	return cmd
}

func newLanguagesListCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List installed languages",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			languages, err := a.languages(ctx, refresh)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, languages)
			}
			p := newPrinter(cmd)
			if len(languages) == 0 {
				p.Empty("No languages installed")
				return nil
			}
			byID := make(map[int]string, len(languages))
			for _, l := range languages {
				byID[l.ID] = l.Culture
			}
			p.Table("ID", "CULTURE", "NAME", "DEFAULT", "MANDATORY", "FALLBACK")
			for _, l := range languages {
				fallback := ""
				if l.FallbackLanguageID != nil {
					fallback = byID[*l.FallbackLanguageID]
				}
				p.Row(strconv.Itoa(l.ID), l.Culture, l.Name, yesNo(l.IsDefault), yesNo(l.IsMandatory), fallback)
			}
			return p.Flush()
		}),
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the local cache")
	return cmd
}

// languages returns the installed languages, cached per server.
func (a *app) languages(ctx context.Context, refresh bool) ([]api.Language, error) {
	if refresh {
		a.cache.Delete(ctx, languagesKey)
	}
	return cache.Fetch(ctx, a.cache, languagesKey, a.client.Languages().GetAll)
}
