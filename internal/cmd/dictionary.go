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

func newDictionaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dictionary",
		Aliases: []string{"dict"},
		Short:   "Manage dictionary items and translations",
	}

	cmd.AddCommand(newDictionaryListCmd())
	cmd.AddCommand(newDictionaryGetCmd())
	cmd.AddCommand(newDictionaryCreateCmd())
	cmd.AddCommand(newDictionaryTranslateCmd())
	cmd.AddCommand(newMoveCmd(moveDef{
		resource: "dictionary item",
		typ:      api.EntityDictionaryItem,
		alias:    api.AliasDictionary,
		move: func(ctx context.Context, a *app, args api.MoveArgs) (string, error) {
			return a.client.Dictionary().Move(ctx, args)
		},
	}))
	cmd.AddCommand(newDeleteCmd(deleteDef{
		resource: "dictionary item",
		typ:      api.EntityDictionaryItem,
		alias:    api.AliasDictionary,
		remove: func(ctx context.Context, a *app, id int) error {
			return a.client.Dictionary().DeleteByID(ctx, id)
		},
	}))

	return cmd
}

func newDictionaryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List dictionary items with their translations",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			items, err := a.client.Dictionary().GetList(ctx)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, items)
			}
			p := newPrinter(cmd)
			if len(items) == 0 {
				p.Empty("No dictionary items found")
				return nil
			}
			p.Table("ID", "KEY", "TRANSLATED")
			for _, item := range items {
				indent := strings.Repeat("  ", max(item.Level-1, 0))
				p.Row(strconv.Itoa(item.ID), indent+item.Name, translatedCultures(item.Translations))
			}
			return p.Flush()
		}),
	}
}

func translatedCultures(translations []api.DictionaryTranslation) string {
	var cultures []string
	for _, t := range translations {
		if strings.TrimSpace(t.Translation) != "" {
			cultures = append(cultures, t.IsoCode)
		}
	}
	if len(cultures) == 0 {
		return "-"
	}
	return strings.Join(cultures, ",")
}

func newDictionaryGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id|key|url>",
		Aliases: []string{"g"},
		Short:   "Show a dictionary item",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := nodeID(ctx, a, api.EntityDictionaryItem, args[0])
			if err != nil {
				return err
			}
			item, err := a.client.Dictionary().GetByID(ctx, id)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, item)
			}
			p := newPrinter(cmd)
			p.Line("Dictionary item #%d", item.ID)
			p.Line("  Key: %s", item.Name)
			for _, t := range item.Translations {
				p.Line("  %-6s %s", t.IsoCode, t.Translation)
			}
			return nil
		}),
	}
}

func newDictionaryCreateCmd() *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "create <key>",
		Short: "Create a dictionary item",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			parentID, err := nodeID(ctx, a, api.EntityDictionaryItem, parent)
			if err != nil {
				return err
			}

			createURL, _ := a.client.URL(api.AliasDictionary, "Create", api.P("parentId", parentID), api.P("key", key))
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "create",
				Resource:  "dictionary item",
				Method:    http.MethodPost,
				URL:       createURL,
				Details:   map[string]any{"key": key, "parentId": parentID},
			}); ok {
				return err
			}

			id, err := a.client.Dictionary().Create(ctx, parentID, key)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"id": id, "key": key, "parentId": parentID})
			}
			printAction(cmd, "Created", "dictionary item", id, key)
			return nil
		}),
	}
	cmd.Flags().StringVar(&parent, "parent", "-1", "Parent item id or key (-1 for the root)")
	return cmd
}

func newDictionaryTranslateCmd() *cobra.Command {
	var culture, value string

	cmd := &cobra.Command{
		Use:   "translate <id|key> --culture <iso> --value <text>",
		Short: "Set the translation of a dictionary item for one culture",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(culture) == "" {
				return fmt.Errorf("--culture is required")
			}
			if !cmd.Flags().Changed("value") {
				return fmt.Errorf("--value is required")
			}
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := nodeID(ctx, a, api.EntityDictionaryItem, args[0])
			if err != nil {
				return err
			}
			item, err := a.client.Dictionary().GetByID(ctx, id)
			if err != nil {
				return err
			}
			found := false
			for i := range item.Translations {
				if strings.EqualFold(item.Translations[i].IsoCode, culture) {
					item.Translations[i].Translation = value
					found = true
				}
			}
			if !found {
				return fmt.Errorf("dictionary item %d has no %q translation; installed languages: %s", id, culture, isoCodes(item.Translations))
			}

			saveURL, _ := a.client.URL(api.AliasDictionary, "PostSave")
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "translate",
				Resource:  "dictionary item",
				Method:    http.MethodPost,
				URL:       saveURL,
				Details:   map[string]any{"id": id, "culture": culture, "value": value},
			}); ok {
				return err
			}

			saved, err := a.client.Dictionary().Save(ctx, item)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, saved)
			}
			printAction(cmd, "Translated", "dictionary item", id, item.Name+" ("+culture+")")
			return nil
		}),
	}
	cmd.Flags().StringVar(&culture, "culture", "", "Language ISO code, e.g. en-US")
	cmd.Flags().StringVar(&value, "value", "", "Translated text")
	return cmd
}

func isoCodes(translations []api.DictionaryTranslation) string {
	codes := make([]string, len(translations))
	for i, t := range translations {
		codes[i] = t.IsoCode
	}
	return strings.Join(codes, ", ")
}
