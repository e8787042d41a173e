package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRolesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List the roles resumes are scored against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ROLE\tBASE\tREQUIRED\tPREFERRED")
			for _, role := range a.catalog.Roles {
				_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
					role.Name,
					role.BaseScore,
					orDash(strings.Join(role.RequiredSkills, ", ")),
					orDash(strings.Join(role.PreferredSkills, ", ")))
			}
			return w.Flush()
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
