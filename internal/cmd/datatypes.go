package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/backoffice/backoffice-cli/internal/api"
)

func newDataTypesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datatypes",
		Aliases: []string{"datatype", "dt"},
		Short:   "Inspect and organize data types",
	}

	cmd.AddCommand(newDataTypesListCmd())
	cmd.AddCommand(newDataTypesGetCmd())
	cmd.AddCommand(newMoveCmd(moveDef{
		resource: "data type",
		typ:      api.EntityDataType,
		alias:    api.AliasDataType,
		move: func(ctx context.Context, a *app, args api.MoveArgs) (string, error) {
			return a.client.DataTypes().Move(ctx, args)
		},
	}))
	cmd.AddCommand(newDeleteCmd(deleteDef{
		resource: "data type",
		typ:      api.EntityDataType,
		alias:    api.AliasDataType,
		remove: func(ctx context.Context, a *app, id int) error {
			return a.client.DataTypes().DeleteByID(ctx, id)
		},
	}))

	return cmd
}

func newDataTypesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List data types",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			types, err := a.client.DataTypes().GetAll(ctx)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, types)
			}
			p := newPrinter(cmd)
			if len(types) == 0 {
				p.Empty("No data types found")
				return nil
			}
			p.Table("ID", "NAME", "EDITOR")
			for _, dt := range types {
				p.Row(strconv.Itoa(dt.ID), truncate(dt.Name, 40), dt.SelectedEditor)
			}
			return p.Flush()
		}),
	}
}

func newDataTypesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id|name>",
		Aliases: []string{"g"},
		Short:   "Show a data type and its configuration",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			var dt *api.DataType
			if id, convErr := strconv.Atoi(args[0]); convErr == nil {
				dt, err = a.client.DataTypes().GetByID(ctx, id)
			} else {
				dt, err = a.client.DataTypes().GetByName(ctx, args[0])
			}
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, dt)
			}
			p := newPrinter(cmd)
			p.Line("Data type #%d", dt.ID)
			p.Line("  Name:   %s", dt.Name)
			p.Line("  Editor: %s", dt.SelectedEditor)
			for _, pv := range dt.PreValues {
				if key, ok := pv["key"].(string); ok {
					p.Line("  Config: %s = %v", key, pv["value"])
				}
			}
			return nil
		}),
	}
}
