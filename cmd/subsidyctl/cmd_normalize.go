package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aristath/subsidywatch/internal/modules/beneficiaries"
)

type normalized struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

func newNormalizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "normalize [name...]",
		Short:   "Print the grouping key of raw beneficiary names",
		Example: `  subsidyctl normalize "CPAS de la Ville de Bruxelles" "Parking.brussels"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([]normalized, len(args))
			for i, name := range args {
				rows[i] = normalized{Name: name, Key: beneficiaries.Normalize(name)}
			}

			return a.print(cmd.OutOrStdout(), rows, func(w io.Writer) error {
				tw := newTable(w)
				fmt.Fprintln(tw, "NAME\tKEY")
				for _, r := range rows {
					fmt.Fprintf(tw, "%s\t%s\n", r.Name, r.Key)
				}
				return tw.Flush()
			})
		},
	}
}
