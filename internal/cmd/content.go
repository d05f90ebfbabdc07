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

func newContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "content",
		Aliases: []string{"c", "doc"},
		Short:   "Browse and manage content",
		Long:    "Read, move, copy, sort, publish and delete content nodes.",
	}

	cmd.AddCommand(newContentGetCmd())
	cmd.AddCommand(newContentChildrenCmd())
	cmd.AddCommand(newMoveCmd(moveDef{
		resource: "content",
		typ:      api.EntityDocument,
		alias:    api.AliasContent,
		move: func(ctx context.Context, a *app, args api.MoveArgs) (string, error) {
			return a.client.Content().Move(ctx, args)
		},
	}))
	cmd.AddCommand(newContentCopyCmd())
	cmd.AddCommand(newContentSortCmd())
	cmd.AddCommand(newDeleteCmd(deleteDef{
		resource: "content",
		typ:      api.EntityDocument,
		alias:    api.AliasContent,
		remove: func(ctx context.Context, a *app, id int) error {
			return a.client.Content().DeleteByID(ctx, id)
		},
	}))
	cmd.AddCommand(newContentPublishCmd())
	cmd.AddCommand(newContentUnpublishCmd())
	cmd.AddCommand(newContentURLCmd())
	cmd.AddCommand(newEmptyBinCmd("content", api.AliasContent, func(ctx context.Context, a *app) error {
		return a.client.Content().EmptyRecycleBin(ctx)
	}))

	return cmd
}

func newContentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id|name|url>",
		Aliases: []string{"g"},
		Short:   "Show a content item",
		Example: strings.TrimSpace(`
  # By id
  bo content get 1234

  # By name, or by pasting the editor URL
  bo content get "Home"
  bo content get "https://cms.example.com/umbraco#/content/content/edit/1234"
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := nodeID(ctx, a, api.EntityDocument, args[0])
			if err != nil {
				return err
			}
			item, err := a.client.Content().GetByID(ctx, id)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, item)
			}

			p := newPrinter(cmd)
			p.Line("Content #%d", item.ID)
			p.Line("  Name:      %s", item.Name)
			p.Line("  Type:      %s", item.ContentTypeAlias)
			if crumb, err := a.names.Breadcrumb(ctx, api.EntityDocument, item.Path); err == nil && crumb != "" {
				p.Line("  Location:  %s", crumb)
			}
			p.Line("  Trashed:   %s", yesNo(item.Trashed))
			if item.TemplateAlias != "" {
				p.Line("  Template:  %s", item.TemplateAlias)
			}
			for _, v := range item.Variants {
				culture := "invariant"
				if v.Language != nil {
					culture = v.Language.Culture
				}
				p.Line("  Variant:   %s (%s) %s", v.Name, culture, v.State)
			}
			for _, u := range item.Urls {
				if u.IsURL {
					p.Line("  URL:       %s", u.Text)
				}
			}
			return nil
		}),
	}
}

func newContentChildrenCmd() *cobra.Command {
	var cf childrenFlags

	cmd := &cobra.Command{
		Use:     "children <id|name|url>",
		Aliases: []string{"ls"},
		Short:   "List the children of a content node (-1 for the root)",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			opts, err := cf.options(a.cfg.Culture)
			if err != nil {
				return err
			}
			parentID, err := nodeID(ctx, a, api.EntityDocument, args[0])
			if err != nil {
				return err
			}
			page, err := a.client.Content().GetChildren(ctx, parentID, opts)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, page)
			}
			p := newPrinter(cmd)
			if len(page.Items) == 0 {
				p.Empty("No children found")
				return nil
			}
			p.Table("ID", "NAME", "TYPE", "STATE", "UPDATED")
			for _, item := range page.Items {
				p.Row(strconv.Itoa(item.ID), truncate(item.Name, 40), item.ContentTypeAlias, contentState(item), item.UpdateDate)
			}
			if err := p.Flush(); err != nil {
				return err
			}
			pageFooter(cmd, page.PageNumber, page.TotalPages, page.TotalItems)
			return nil
		}),
	}
	cf.register(cmd)
	return cmd
}

func contentState(item api.ContentItem) string {
	if item.Trashed {
		return "Trashed"
	}
	if len(item.Variants) > 0 && item.Variants[0].State != "" {
		return item.Variants[0].State
	}
	return "-"
}

func newContentCopyCmd() *cobra.Command {
	var to string
	var relate, recursive bool

	cmd := &cobra.Command{
		Use:   "copy <id|name|url> --to <parent>",
		Short: "Copy a content node under a parent",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(to) == "" {
				return fmt.Errorf("--to is required")
			}
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := nodeID(ctx, a, api.EntityDocument, args[0])
			if err != nil {
				return err
			}
			parentID, err := nodeID(ctx, a, api.EntityDocument, to)
			if err != nil {
				return err
			}
			copyArgs := api.CopyArgs{ParentID: api.Int(parentID), ID: api.Int(id), RelateToOriginal: relate, Recursive: recursive}

			copyURL, _ := a.client.URL(api.AliasContent, "PostCopy")
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "copy",
				Resource:  "content",
				Method:    http.MethodPost,
				URL:       copyURL,
				Details:   map[string]any{"id": id, "parentId": parentID, "relateToOriginal": relate, "recursive": recursive},
			}); ok {
				return err
			}

			path, err := a.client.Content().Copy(ctx, copyArgs)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"id": id, "parentId": parentID, "path": path})
			}
			printAction(cmd, "Copied", "content", id, "new copy at "+path)
			return nil
		}),
	}
	cmd.Flags().StringVar(&to, "to", "", "Parent id, name or URL (-1 for the root)")
	cmd.Flags().BoolVar(&relate, "relate", false, "Relate the copy to the original")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "Copy descendants too")
	return cmd
}

func newContentSortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort <parent> <id>...",
		Short: "Set the order of a node's children",
		Long:  "Children are sorted in the order given. Children not listed keep their relative order after the listed ones.",
		Args:  cobra.MinimumNArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			parentID, err := parseParentArg(args[0])
			if err != nil {
				return err
			}
			ids, err := parseIntList(args[1:])
			if err != nil {
				return err
			}
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			children, err := a.client.Entity().GetChildren(ctx, parentID, api.EntityDocument)
			if err != nil {
				return err
			}
			ids, err = sortOrder(ids, children)
			if err != nil {
				return err
			}

			sortURL, _ := a.client.URL(api.AliasContent, "PostSort")
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "sort",
				Resource:  "content",
				Method:    http.MethodPost,
				URL:       sortURL,
				Details:   map[string]any{"parentId": parentID, "sortedIds": ids},
			}); ok {
				return err
			}

			if err := a.client.Content().Sort(ctx, api.SortArgs{ParentID: api.Int(parentID), SortedIDs: ids}); err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"parentId": parentID, "sortedIds": ids})
			}
			printAction(cmd, "Sorted", "children of", parentID, "")
			return nil
		}),
	}
	return cmd
}

// sortOrder puts the listed ids first and the remaining children after them
// in their current order. Every listed id must be a child.
func sortOrder(listed []int, children []api.Entity) ([]int, error) {
	isChild := make(map[int]bool, len(children))
	for _, c := range children {
		isChild[c.ID] = true
	}
	seen := make(map[int]bool, len(children))
	order := make([]int, 0, len(children))
	for _, id := range listed {
		if !isChild[id] {
			return nil, fmt.Errorf("node %d is not a child of the given parent", id)
		}
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	for _, c := range children {
		if !seen[c.ID] {
			order = append(order, c.ID)
		}
	}
	return order, nil
}

func newContentPublishCmd() *cobra.Command {
	var concurrency int
	var progress bool

	cmd := &cobra.Command{
		Use:   "publish <id|name|url>...",
		Short: "Publish one or more content items",
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			ids, err := nodeIDs(ctx, a, api.EntityDocument, args)
			if err != nil {
				return err
			}

			publishURL, _ := a.client.URL(api.AliasContent, "PostPublishById")
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "publish",
				Resource:  "content",
				Method:    http.MethodPost,
				URL:       publishURL,
				Details:   map[string]any{"ids": ids},
			}); ok {
				return err
			}

			results := runBulkOperation(ctx, ids, concurrency, progressWriter(cmd, progress), func(ctx context.Context, id int) (*api.ContentItem, error) {
				return a.client.Content().Publish(ctx, id)
			})
			return printBulkResults(cmd, "Published", "content", results)
		}),
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", DefaultConcurrency, "Parallel requests")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show progress on stderr")
	return cmd
}

func newContentUnpublishCmd() *cobra.Command {
	var cultures []string

	cmd := &cobra.Command{
		Use:   "unpublish <id|name|url>",
		Short: "Unpublish a content item, or some of its cultures",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := nodeID(ctx, a, api.EntityDocument, args[0])
			if err != nil {
				return err
			}

			unpublishURL, _ := a.client.URL(api.AliasContent, "PostUnpublish")
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "unpublish",
				Resource:  "content",
				Method:    http.MethodPost,
				URL:       unpublishURL,
				Details:   map[string]any{"id": id, "cultures": cultures},
			}); ok {
				return err
			}

			item, err := a.client.Content().Unpublish(ctx, id, cultures)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, item)
			}
			name := ""
			if item != nil {
				name = item.Name
			}
			printAction(cmd, "Unpublished", "content", id, name)
			return nil
		}),
	}
	cmd.Flags().StringSliceVar(&cultures, "culture", nil, "Culture to unpublish (repeatable; default all)")
	return cmd
}

func newContentURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url <id|name|url>",
		Short: "Print the public URL of a content item",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := nodeID(ctx, a, api.EntityDocument, args[0])
			if err != nil {
				return err
			}
			niceURL, err := a.client.Content().GetNiceURL(ctx, id)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"id": id, "url": niceURL})
			}
			newPrinter(cmd).Line("%s", niceURL)
			return nil
		}),
	}
}

func newEmptyBinCmd(resource, alias string, empty func(ctx context.Context, a *app) error) *cobra.Command {
	return &cobra.Command{
		Use:   "empty-bin",
		Short: fmt.Sprintf("Permanently delete everything in the %s recycle bin", resource),
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			binURL, _ := a.client.URL(alias, "EmptyRecycleBin")
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "empty",
				Resource:  resource + " recycle bin",
				Method:    http.MethodPost,
				URL:       binURL,
				Warnings:  []string{"items in the recycle bin cannot be restored afterwards"},
			}); ok {
				return err
			}
			ok, err := confirmAction(cmd, fmt.Sprintf("Permanently delete everything in the %s recycle bin?", resource))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("aborted")
			}
			if err := empty(ctx, a); err != nil {
				return err
			}
			printAction(cmd, "Emptied", resource+" recycle bin", nil, "")
			return nil
		}),
	}
}
