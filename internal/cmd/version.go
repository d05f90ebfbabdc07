package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backoffice/backoffice-cli/internal/api"
	"github.com/backoffice/backoffice-cli/internal/iocontext"
)

// version is set at build time via ldflags
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := iocontext.GetIO(cmd.Context()).Out
			_, _ = fmt.Fprintf(out, "backoffice-cli version %s\n", version)
			_, _ = fmt.Fprintf(out, "supports servers %s and later\n", api.MinServerVersion)
		},
	}
}
