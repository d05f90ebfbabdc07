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

func newMediaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "media",
		Aliases: []string{"m"},
		Short:   "Browse and manage media",
	}

	cmd.AddCommand(newMediaGetCmd())
	cmd.AddCommand(newMediaChildrenCmd())
	cmd.AddCommand(newMediaFoldersCmd())
	cmd.AddCommand(newMediaMkdirCmd())
	cmd.AddCommand(newMoveCmd(moveDef{
		resource: "media",
		typ:      api.EntityMedia,
		alias:    api.AliasMedia,
		move: func(ctx context.Context, a *app, args api.MoveArgs) (string, error) {
			return a.client.Media().Move(ctx, args)
		},
	}))
	cmd.AddCommand(newDeleteCmd(deleteDef{
		resource: "media",
		typ:      api.EntityMedia,
		alias:    api.AliasMedia,
		remove: func(ctx context.Context, a *app, id int) error {
			return a.client.Media().DeleteByID(ctx, id)
		},
	}))
	cmd.AddCommand(newEmptyBinCmd("media", api.AliasMedia, func(ctx context.Context, a *app) error {
		return a.client.Media().EmptyRecycleBin(ctx)
	}))

	return cmd
}

func newMediaGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id|name|url>",
		Aliases: []string{"g"},
		Short:   "Show a media item",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := nodeID(ctx, a, api.EntityMedia, args[0])
			if err != nil {
				return err
			}
			item, err := a.client.Media().GetByID(ctx, id)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, item)
			}
			p := newPrinter(cmd)
			p.Line("Media #%d", item.ID)
			p.Line("  Name:      %s", item.Name)
			p.Line("  Type:      %s", item.ContentTypeAlias)
			if crumb, err := a.names.Breadcrumb(ctx, api.EntityMedia, item.Path); err == nil && crumb != "" {
				p.Line("  Location:  %s", crumb)
			}
			if item.MediaLink != "" {
				p.Line("  Link:      %s", item.MediaLink)
			}
			p.Line("  Trashed:   %s", yesNo(item.Trashed))
			return nil
		}),
	}
}

func newMediaChildrenCmd() *cobra.Command {
	var cf childrenFlags

	cmd := &cobra.Command{
		Use:     "children <id|name|url>",
		Aliases: []string{"ls"},
		Short:   "List the children of a media node (-1 for the root)",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			opts, err := cf.options("")
			if err != nil {
				return err
			}
			parentID, err := nodeID(ctx, a, api.EntityMedia, args[0])
			if err != nil {
				return err
			}
			page, err := a.client.Media().GetChildren(ctx, parentID, opts)
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
			p.Table("ID", "NAME", "TYPE", "LINK")
			for _, item := range page.Items {
				p.Row(strconv.Itoa(item.ID), truncate(item.Name, 40), item.ContentTypeAlias, item.MediaLink)
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

func newMediaFoldersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "folders [parent]",
		Short: "List the folders under a media node (default the root)",
		Args:  cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			parentID := -1
			if len(args) == 1 {
				if parentID, err = nodeID(ctx, a, api.EntityMedia, args[0]); err != nil {
					return err
				}
			}
			folders, err := a.client.Media().GetChildFolders(ctx, parentID)
			if err != nil {
				return err
			}
			return printEntities(cmd, folders, "No folders found")
		}),
	}
}

func newMediaMkdirCmd() *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "mkdir <name>",
		Short: "Create a media folder",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("folder name is required")
			}
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			parentID, err := nodeID(ctx, a, api.EntityMedia, parent)
			if err != nil {
				return err
			}

			addURL, _ := a.client.URL(api.AliasMedia, "PostAddFolder")
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "create",
				Resource:  "media folder",
				Method:    http.MethodPost,
				URL:       addURL,
				Details:   map[string]any{"name": name, "parentId": parentID},
			}); ok {
				return err
			}

			folder, err := a.client.Media().AddFolder(ctx, api.AddFolderArgs{Name: name, ParentID: api.Int(parentID)})
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, folder)
			}
			if folder == nil {
				printAction(cmd, "Created", "media folder", nil, name)
				return nil
			}
			printAction(cmd, "Created", "media folder", folder.ID, folder.Name)
			return nil
		}),
	}
	cmd.Flags().StringVar(&parent, "parent", "-1", "Parent folder id, name or URL")
	return cmd
}
