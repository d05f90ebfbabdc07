package cmd

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/backoffice/backoffice-cli/internal/api"
	"github.com/backoffice/backoffice-cli/internal/cli"
	"github.com/backoffice/backoffice-cli/internal/dryrun"
)

// userStates are the names the server uses for api.User.UserState.
var userStates = []string{"Active", "Disabled", "LockedOut", "Invited", "Inactive"}

func userStateName(state int) string {
	if state >= 0 && state < len(userStates) {
		return userStates[state]
	}
	return strconv.Itoa(state)
}

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user", "u"},
		Short:   "Manage backoffice users",
	}

	cmd.AddCommand(newUsersListCmd())
	cmd.AddCommand(newUsersGetCmd())
	cmd.AddCommand(newUsersStateCmd("disable", "Disabled", "PostDisableUsers"))
	cmd.AddCommand(newUsersStateCmd("enable", "Enabled", "PostEnableUsers"))
	cmd.AddCommand(newUsersStateCmd("unlock", "Unlocked", "PostUnlockUsers"))

	return cmd
}

func newUsersListCmd() *cobra.Command {
	var opts api.UserListOptions
	var direction string
	var inactiveSince string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List users",
		Example: strings.TrimSpace(`
  # Disabled and locked out editors
  bo users list --state Disabled --state LockedOut --group editor

  # Users who have not logged in for 90 days
  bo users list --inactive-since 90d
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if opts.PageNumber < 1 {
				return fmt.Errorf("--page must be >= 1")
			}
			dir, err := orderDirection(direction)
			if err != nil {
				return err
			}
			opts.OrderDirection = dir
			var cutoff time.Time
			if inactiveSince != "" {
				if cutoff, err = cli.ParsePast(inactiveSince, time.Now()); err != nil {
					return err
				}
			}
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			page, err := a.client.Users().GetPaged(ctx, opts)
			if err != nil {
				return err
			}
			if !cutoff.IsZero() {
				page.Items = inactiveUsers(page.Items, cutoff)
			}
			if isStructured(cmd) {
				return printJSON(cmd, page)
			}
			p := newPrinter(cmd)
			if len(page.Items) == 0 {
				p.Empty("No users found")
				return nil
			}
			p.Table("ID", "NAME", "USERNAME", "STATE", "GROUPS")
			for _, u := range page.Items {
				groups := make([]string, 0, len(u.UserGroups))
				for _, g := range u.UserGroups {
					groups = append(groups, g.Alias)
				}
				p.Row(strconv.Itoa(u.ID), truncate(u.Name, 30), u.Username, userStateName(u.UserState), strings.Join(groups, ","))
			}
			if err := p.Flush(); err != nil {
				return err
			}
			pageFooter(cmd, page.PageNumber, page.TotalPages, page.TotalItems)
			return nil
		}),
	}
	cmd.Flags().IntVar(&opts.PageNumber, "page", 1, "Page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 25, "Users per page")
	cmd.Flags().StringVar(&opts.OrderBy, "order-by", "Username", "Field to order by")
	cmd.Flags().StringVar(&direction, "direction", "asc", "Order direction: asc|desc")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "Filter by name, username or email")
	cmd.Flags().StringSliceVar(&opts.UserStates, "state", nil, "User state (repeatable): "+strings.Join(userStates, ", "))
	cmd.Flags().StringSliceVar(&opts.UserGroups, "group", nil, "User group alias (repeatable)")
	cmd.Flags().StringVar(&inactiveSince, "inactive-since", "", "Only users with no login since then (e.g. 90d, 2w ago, 2024-01-31); filters the fetched page")
	return cmd
}

// inactiveUsers keeps users that never logged in or last logged in before cutoff.
func inactiveUsers(users []api.User, cutoff time.Time) []api.User {
	out := make([]api.User, 0, len(users))
	for _, u := range users {
		if u.LastLoginDate == nil || u.LastLoginDate.Before(cutoff) {
			out = append(out, u)
		}
	}
	return out
}

func newUsersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Aliases: []string{"g"},
		Short:   "Show a user",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parsePositiveIntArg(args[0], "user id")
			if err != nil {
				return err
			}
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			u, err := a.client.Users().GetByID(ctx, id)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, u)
			}
			p := newPrinter(cmd)
			p.Line("User #%d", u.ID)
			p.Line("  Name:       %s", u.Name)
			p.Line("  Username:   %s", u.Username)
			p.Line("  Email:      %s", u.Email)
			p.Line("  State:      %s", userStateName(u.UserState))
			if u.LastLoginDate != nil {
				p.Line("  Last login: %s", u.LastLoginDate.Format("2006-01-02 15:04"))
			}
			for _, g := range u.UserGroups {
				p.Line("  Group:      %s (%s)", g.Name, g.Alias)
			}
			return nil
		}),
	}
}

func newUsersStateCmd(use, past, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>...",
		Short: fmt.Sprintf("%s one or more users", strings.ToUpper(use[:1])+use[1:]),
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ids, err := parseIntList(args)
			if err != nil {
				return err
			}
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}

			stateURL, _ := a.client.URL(api.AliasUsers, action, api.P("userIds", ids))
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: use,
				Resource:  "users",
				Method:    http.MethodPost,
				URL:       stateURL,
				Details:   map[string]any{"userIds": ids},
			}); ok {
				return err
			}

			users := a.client.Users()
			switch use {
			case "disable":
				err = users.Disable(ctx, ids)
			case "enable":
				err = users.Enable(ctx, ids)
			default:
				err = users.Unlock(ctx, ids)
			}
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"userIds": ids, "action": use})
			}
			for _, id := range ids {
				printAction(cmd, past, "user", id, "")
			}
			return nil
		}),
	}
}
