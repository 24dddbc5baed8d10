package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aristath/subsidywatch/internal/modules/grouping"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// writeGroups prints one row per group
func writeGroups(w io.Writer, groups []*grouping.Group, withNames bool) error {
	tw := newTable(w)
	header := "KEY\tDISPLAY NAME\tRECORDS\tVARIANTS\tTOTAL"
	if withNames {
		header += "\tNAMES"
	}
	fmt.Fprintln(tw, header)

	for _, g := range groups {
		row := fmt.Sprintf("%s\t%s\t%d\t%d\t%s", g.Key, g.DisplayName, g.Count, g.VariantCount(), g.TotalAmount.StringFixed(2))
		if withNames {
			row += "\t" + strings.Join(g.Names(), " | ")
		}
		fmt.Fprintln(tw, row)
	}
	return tw.Flush()
}
