package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/backoffice/backoffice-cli/internal/api"
	"github.com/backoffice/backoffice-cli/internal/dryrun"
	"github.com/backoffice/backoffice-cli/internal/iocontext"
)

// childrenFlags are the paging flags shared by children listings.
type childrenFlags struct {
	page      int
	pageSize  int
	orderBy   string
	direction string
	filter    string
}

func (f *childrenFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 50, "Items per page")
	cmd.Flags().StringVar(&f.orderBy, "order-by", "SortOrder", "Field to order by")
	cmd.Flags().StringVar(&f.direction, "direction", "asc", "Order direction: asc|desc")
	cmd.Flags().StringVar(&f.filter, "filter", "", "Only children whose name contains this text")
}

func (f *childrenFlags) options(culture string) (api.ChildrenOptions, error) {
	if f.page < 1 {
		return api.ChildrenOptions{}, fmt.Errorf("--page must be >= 1")
	}
	if f.pageSize < 0 {
		return api.ChildrenOptions{}, fmt.Errorf("--page-size must be >= 0")
	}
	direction, err := orderDirection(f.direction)
	if err != nil {
		return api.ChildrenOptions{}, err
	}
	return api.ChildrenOptions{
		PageNumber:     f.page,
		PageSize:       f.pageSize,
		OrderBy:        f.orderBy,
		OrderDirection: direction,
		Filter:         f.filter,
		Culture:        culture,
	}, nil
}

func orderDirection(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "asc", "ascending":
		return "Ascending", nil
	case "desc", "descending":
		return "Descending", nil
	}
	return "", fmt.Errorf("invalid --direction %q: must be asc or desc", value)
}

// moveDef describes a tree whose nodes can be moved.
type moveDef struct {
	resource string
	typ      api.EntityType
	alias    string
	move     func(ctx context.Context, a *app, args api.MoveArgs) (string, error)
}

func newMoveCmd(def moveDef) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "move <id|name|url> --to <parent>",
		Short: fmt.Sprintf("Move a %s under another parent", def.resource),
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(to) == "" {
				return fmt.Errorf("--to is required")
			}
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := nodeID(ctx, a, def.typ, args[0])
			if err != nil {
				return err
			}
			parentID, err := nodeID(ctx, a, def.typ, to)
			if err != nil {
				return err
			}

			moveURL, _ := a.client.URL(def.alias, "PostMove")
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "move",
				Resource:  def.resource,
				Method:    http.MethodPost,
				URL:       moveURL,
				Details:   map[string]any{"id": id, "parentId": parentID},
			}); ok {
				return err
			}

			path, err := def.move(ctx, a, api.MoveArgs{ParentID: api.Int(parentID), ID: api.Int(id)})
			if err != nil {
				return err
			}
			a.names.Forget(def.typ, id)
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"id": id, "parentId": parentID, "path": path})
			}
			printAction(cmd, "Moved", def.resource, id, "now at "+path)
			return nil
		}),
	}
	cmd.Flags().StringVar(&to, "to", "", "Parent id, name or URL (-1 for the root)")
	return cmd
}

// deleteDef describes a tree whose nodes can be deleted in bulk.
type deleteDef struct {
	resource string
	typ      api.EntityType
	alias    string
	remove   func(ctx context.Context, a *app, id int) error
}

func newDeleteCmd(def deleteDef) *cobra.Command {
	var concurrency int
	var progress bool

	cmd := &cobra.Command{
		Use:     "delete <id|name|url>...",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete one or more %s items", def.resource),
		Args:    cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			ids, err := nodeIDs(ctx, a, def.typ, args)
			if err != nil {
				return err
			}

			deleteURL, _ := a.client.URL(def.alias, "DeleteById")
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "delete",
				Resource:  def.resource,
				Method:    http.MethodPost,
				URL:       deleteURL,
				Details:   map[string]any{"ids": ids},
			}); ok {
				return err
			}
			if ok, err := confirmAction(cmd, fmt.Sprintf("Delete %d %s item(s)?", len(ids), def.resource)); err != nil || !ok {
				if err == nil {
					err = fmt.Errorf("aborted")
				}
				return err
			}

			results := runBulkOperation(ctx, ids, concurrency, progressWriter(cmd, progress), func(ctx context.Context, id int) (any, error) {
				return nil, def.remove(ctx, a, id)
			})
			for _, r := range results {
				if r.Success {
					a.names.Forget(def.typ, r.ID)
				}
			}
			return printBulkResults(cmd, "Deleted", def.resource, results)
		}),
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", DefaultConcurrency, "Parallel requests")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show progress on stderr")
	return cmd
}

func progressWriter(cmd *cobra.Command, enabled bool) io.Writer {
	if !enabled || flags.Quiet || isStructured(cmd) {
		return nil
	}
	return iocontext.GetIO(cmd.Context()).ErrOut
}

func printBulkResults(cmd *cobra.Command, action, resource string, results []BulkResult) error {
	if isStructured(cmd) {
		if err := printJSON(cmd, results); err != nil {
			return err
		}
		return bulkError(strings.ToLower(action), results)
	}
	for _, r := range results {
		if r.Success {
			printAction(cmd, action, resource, r.ID, "")
		}
	}
	return bulkError(strings.ToLower(action), results)
}

// pageFooter prints the paging position of a listing.
func pageFooter(cmd *cobra.Command, pageNumber, totalPages, totalItems int) {
	if flags.Quiet || totalPages <= 1 {
		return
	}
	_, _ = fmt.Fprintf(iocontext.GetIO(cmd.Context()).ErrOut, "Page %d of %d (%d items)\n", pageNumber, totalPages, totalItems)
}
