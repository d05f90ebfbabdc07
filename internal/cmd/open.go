package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/backoffice/backoffice-cli/internal/api"
	"github.com/backoffice/backoffice-cli/internal/urlparse"
)

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <url>",
		Short: "Show the node behind a backoffice editor URL",
		Long: strings.TrimSpace(`
Resolve a URL copied from the backoffice editor and show the node it points at.
The culture in the URL (mculture) is used for the lookup.
`),
		Example: "  bo open 'https://cms.example.com/umbraco#/content/content/edit/1234?mculture=en-US'",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			parsed, err := urlparse.Parse(args[0])
			if err != nil {
				return err
			}
			typ, ok := parsed.EntityType()
			if !ok {
				return fmt.Errorf("unsupported backoffice section %s/%s", parsed.Section, parsed.Tree)
			}
			if !parsed.HasID() {
				return fmt.Errorf("URL does not point at a node: %s", args[0])
			}

			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			if !strings.EqualFold(parsed.BaseURL, a.client.BaseURL) {
				return fmt.Errorf("URL is for %s but the active profile %q points at %s", parsed.BaseURL, a.cfg.ProfileName, a.client.BaseURL)
			}
			if parsed.Culture != "" {
				ctx = api.WithCulture(ctx, parsed.Culture, a.cfg.Segment)
			}

			var node any
			switch typ {
			case api.EntityDocument:
				node, err = a.client.Content().GetByID(ctx, parsed.ID)
			case api.EntityMedia:
				node, err = a.client.Media().GetByID(ctx, parsed.ID)
			case api.EntityDictionaryItem:
				node, err = a.client.Dictionary().GetByID(ctx, parsed.ID)
			case api.EntityTemplate:
				node, err = a.client.Templates().GetByID(ctx, parsed.ID)
			case api.EntityDataType:
				node, err = a.client.DataTypes().GetByID(ctx, parsed.ID)
			default:
				node, err = a.client.Entity().GetByID(ctx, parsed.ID, typ)
			}
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"type": typ, "id": parsed.ID, "culture": parsed.Culture, "node": node})
			}

			ent, err := a.client.Entity().GetByID(ctx, parsed.ID, typ)
			if err != nil {
				return err
			}
			p := newPrinter(cmd)
			p.Line("%s #%d", typ, ent.ID)
			p.Line("  Name:     %s", ent.Name)
			if crumb, err := a.names.Breadcrumb(ctx, typ, ent.Path); err == nil && crumb != "" {
				p.Line("  Location: %s", crumb)
			}
			if parsed.Culture != "" {
				p.Line("  Culture:  %s", parsed.Culture)
			}
			return nil
		}),
	}
}
