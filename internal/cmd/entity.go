package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/backoffice/backoffice-cli/internal/api"
	"github.com/backoffice/backoffice-cli/internal/resolve"
)

var entityTypeNames = map[string]api.EntityType{
	"document":       api.EntityDocument,
	"content":        api.EntityDocument,
	"media":          api.EntityMedia,
	"member":         api.EntityMember,
	"datatype":       api.EntityDataType,
	"template":       api.EntityTemplate,
	"dictionary":     api.EntityDictionaryItem,
	"dictionaryitem": api.EntityDictionaryItem,
	"documenttype":   api.EntityDocumentType,
	"mediatype":      api.EntityMediaType,
}

func parseEntityType(value string) (api.EntityType, error) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(strings.TrimSpace(value)))
	if t, ok := entityTypeNames[key]; ok {
		return t, nil
	}
	return "", fmt.Errorf("invalid --type %q: must be one of document, media, member, datatype, template, dictionary, documenttype, mediatype", value)
}

func newEntityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entity",
		Aliases: []string{"e"},
		Short:   "Look up tree nodes of any type",
	}

	cmd.AddCommand(newEntityGetCmd())
	cmd.AddCommand(newEntityChildrenCmd())
	cmd.AddCommand(newEntityAncestorsCmd())
	cmd.AddCommand(newEntitySearchCmd())
	cmd.AddCommand(newEntitySearchAllCmd())

	return cmd
}

func addTypeFlag(cmd *cobra.Command, typ *string) {
	cmd.Flags().StringVarP(typ, "type", "t", "document", "Node type: document|media|member|datatype|template|dictionary|documenttype|mediatype")
}

func newEntityGetCmd() *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "get <id|name|url>",
		Short: "Show the entity projection of a node",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			t, err := parseEntityType(typ)
			if err != nil {
				return err
			}
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := nodeID(ctx, a, t, args[0])
			if err != nil {
				return err
			}
			ent, err := a.client.Entity().GetByID(ctx, id, t)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, ent)
			}
			p := newPrinter(cmd)
			p.Line("%s #%d", t, ent.ID)
			p.Line("  Name:     %s", ent.Name)
			if ent.Alias != "" {
				p.Line("  Alias:    %s", ent.Alias)
			}
			if crumb, err := a.names.Breadcrumb(ctx, t, ent.Path); err == nil && crumb != "" {
				p.Line("  Location: %s", crumb)
			}
			if ent.Udi != "" {
				p.Line("  UDI:      %s", ent.Udi)
			}
			return nil
		}),
	}
	addTypeFlag(cmd, &typ)
	return cmd
}

func newEntityChildrenCmd() *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "children <id|name|url>",
		Short: "List child nodes (-1 for the root)",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			t, err := parseEntityType(typ)
			if err != nil {
				return err
			}
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := nodeID(ctx, a, t, args[0])
			if err != nil {
				return err
			}
			children, err := a.client.Entity().GetChildren(ctx, id, t)
			if err != nil {
				return err
			}
			return printEntities(cmd, children, "No children found")
		}),
	}
	addTypeFlag(cmd, &typ)
	return cmd
}

func newEntityAncestorsCmd() *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "ancestors <id|name|url>",
		Short: "List the ancestors of a node, root first",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			t, err := parseEntityType(typ)
			if err != nil {
				return err
			}
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := nodeID(ctx, a, t, args[0])
			if err != nil {
				return err
			}
			ancestors, err := a.client.Entity().GetAncestors(ctx, id, t)
			if err != nil {
				return err
			}
			return printEntities(cmd, ancestors, "No ancestors found")
		}),
	}
	addTypeFlag(cmd, &typ)
	return cmd
}

func newEntitySearchCmd() *cobra.Command {
	var typ, from string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search one tree by name",
		Long:  "Search one tree by name. Results are ranked by how closely their names match the query.",
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			t, err := parseEntityType(typ)
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			results, err := a.client.Entity().Search(ctx, query, t, from)
			if err != nil {
				return err
			}
			results = rankResults(query, results, limit)
			if isStructured(cmd) {
				return printJSON(cmd, results)
			}
			p := newPrinter(cmd)
			if len(results) == 0 {
				p.Empty("No results found")
				return nil
			}
			p.Table("ID", "NAME", "PATH")
			for _, r := range results {
				p.Row(strconv.Itoa(r.ID), truncate(r.Name, 50), r.Path)
			}
			return p.Flush()
		}),
	}
	addTypeFlag(cmd, &typ)
	cmd.Flags().StringVar(&from, "from", "", "Only search below this node id")
	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum results (0 for all)")
	return cmd
}

// rankResults orders results by fuzzy match quality; results that do not match the
// query at all keep their server order after the ranked ones.
func rankResults(query string, results []api.SearchResult, limit int) []api.SearchResult {
	candidates := make([]resolve.Candidate, len(results))
	byID := make(map[int]api.SearchResult, len(results))
	for i, r := range results {
		candidates[i] = resolve.Candidate{ID: r.ID, Name: r.Name, Path: r.Path}
		byID[r.ID] = r
	}
	ranked := make([]api.SearchResult, 0, len(results))
	seen := make(map[int]bool, len(results))
	for _, m := range resolve.Rank(query, candidates, len(candidates)) {
		if !seen[m.ID] {
			seen[m.ID] = true
			ranked = append(ranked, byID[m.ID])
		}
	}
	for _, r := range results {
		if !seen[r.ID] {
			seen[r.ID] = true
			ranked = append(ranked, r)
		}
	}
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func newEntitySearchAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search-all <query>",
		Short: "Search every tree the user can access",
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			trees, err := a.client.Entity().SearchAll(ctx, query)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, trees)
			}
			p := newPrinter(cmd)
			total := 0
			p.Table("TREE", "ID", "NAME")
			for _, tree := range trees {
				for _, r := range tree.Results {
					total++
					p.Row(tree.AppAlias+"/"+tree.TreeAlias, strconv.Itoa(r.ID), truncate(r.Name, 50))
				}
			}
			if total == 0 {
				p.Empty("No results found")
				return nil
			}
			return p.Flush()
		}),
	}
}

func printEntities(cmd *cobra.Command, entities []api.Entity, empty string) error {
	if isStructured(cmd) {
		return printJSON(cmd, entities)
	}
	p := newPrinter(cmd)
	if len(entities) == 0 {
		p.Empty(empty)
		return nil
	}
	p.Table("ID", "NAME", "PARENT", "PATH")
	for _, e := range entities {
		p.Row(strconv.Itoa(e.ID), truncate(e.Name, 40), strconv.Itoa(e.ParentID), e.Path)
	}
	return p.Flush()
}
