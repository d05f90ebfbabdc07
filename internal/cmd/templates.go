package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/backoffice/backoffice-cli/internal/api"
	"github.com/backoffice/backoffice-cli/internal/dryrun"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template", "tpl"},
		Short:   "Manage view templates",
	}

	cmd.AddCommand(newTemplatesListCmd())
	cmd.AddCommand(newTemplatesGetCmd())
	cmd.AddCommand(newTemplatesCreateCmd())
	cmd.AddCommand(newDeleteCmd(deleteDef{
		resource: "template",
		typ:      api.EntityTemplate,
		alias:    api.AliasTemplate,
		remove: func(ctx context.Context, a *app, id int) error {
			return a.client.Templates().DeleteByID(ctx, id)
		},
	}))

	return cmd
}

func newTemplatesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List templates",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			templates, err := a.client.Templates().GetAll(ctx)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, templates)
			}
			p := newPrinter(cmd)
			if len(templates) == 0 {
				p.Empty("No templates found")
				return nil
			}
			p.Table("ID", "ALIAS", "NAME", "MASTER")
			for _, t := range templates {
				p.Row(strconv.Itoa(t.ID), t.Alias, truncate(t.Name, 40), t.MasterTemplateAlias)
			}
			return p.Flush()
		}),
	}
}

func newTemplatesGetCmd() *cobra.Command {
	var showContent bool

	cmd := &cobra.Command{
		Use:     "get <id|alias>",
		Aliases: []string{"g"},
		Short:   "Show a template",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			var tmpl *api.Template
			if id, convErr := strconv.Atoi(args[0]); convErr == nil {
				tmpl, err = a.client.Templates().GetByID(ctx, id)
			} else {
				tmpl, err = a.client.Templates().GetByAlias(ctx, args[0])
			}
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, tmpl)
			}
			p := newPrinter(cmd)
			if showContent {
				p.Line("%s", tmpl.Content)
				return nil
			}
			p.Line("Template #%d", tmpl.ID)
			p.Line("  Alias:  %s", tmpl.Alias)
			p.Line("  Name:   %s", tmpl.Name)
			if tmpl.MasterTemplateAlias != "" {
				p.Line("  Master: %s", tmpl.MasterTemplateAlias)
			}
			if tmpl.VirtualPath != "" {
				p.Line("  Path:   %s", tmpl.VirtualPath)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&showContent, "content", false, "Print only the template source")
	return cmd
}

func newTemplatesCreateCmd() *cobra.Command {
	var alias, master string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a template, optionally inheriting from a master template",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("template name is required")
			}
			if alias == "" {
				alias = templateAlias(name)
			}
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}

			parentID := -1
			if master != "" {
				parent, err := a.client.Templates().GetByAlias(ctx, master)
				if err != nil {
					return err
				}
				parentID = parent.ID
			}

			saveURL, _ := a.client.URL(api.AliasTemplate, "PostSave")
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "create",
				Resource:  "template",
				Method:    http.MethodPost,
				URL:       saveURL,
				Details:   map[string]any{"name": name, "alias": alias, "master": master},
			}); ok {
				return err
			}

			tmpl, err := a.client.Templates().GetScaffold(ctx, parentID)
			if err != nil {
				return err
			}
			if tmpl == nil {
				tmpl = &api.Template{}
			}
			tmpl.Name = name
			tmpl.Alias = alias
			saved, err := a.client.Templates().Save(ctx, tmpl)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, saved)
			}
			if saved == nil {
				printAction(cmd, "Created", "template", nil, alias)
				return nil
			}
			printAction(cmd, "Created", "template", saved.ID, saved.Alias)
			return nil
		}),
	}
	cmd.Flags().StringVar(&alias, "alias", "", "Template alias (default: derived from the name)")
	cmd.Flags().StringVar(&master, "master", "", "Alias of the master template")
	return cmd
}

// templateAlias derives a camelCase alias from a display name: "Blog Post" -> "blogPost".
func templateAlias(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(w[:1]) + w[1:])
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]) + w[1:])
	}
	return b.String()
}
