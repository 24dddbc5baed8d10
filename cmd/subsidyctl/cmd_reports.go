package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aristath/subsidywatch/internal/modules/grouping"
	"github.com/aristath/subsidywatch/internal/modules/reporting"
)

func newTopCmd(a *app) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "List the beneficiaries with the largest total amount",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := a.loadGroups(cmd.Context())
			if err != nil {
				return err
			}
			top := reporting.TopN(groups, n)
			return a.print(cmd.OutOrStdout(), top, func(w io.Writer) error {
				return writeGroups(w, top, false)
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 10, "Number of groups to list")
	return cmd
}

func newVariantsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List groups that merged several spellings of a name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := a.loadGroups(cmd.Context())
			if err != nil {
				return err
			}
			variants := reporting.FindMultiVariantGroups(groups)
			return a.print(cmd.OutOrStdout(), variants, func(w io.Writer) error {
				return writeGroups(w, variants, true)
			})
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword> [keyword...]",
		Short: "List groups whose key contains a keyword",
		Long: `Lists groups whose grouping key contains the keyword (case-insensitive).
With several keywords a group matches when its key contains any of them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := a.loadGroups(cmd.Context())
			if err != nil {
				return err
			}

			var found []*grouping.Group
			if len(args) == 1 {
				found = reporting.FilterByKeywordInKey(groups, args[0])
			} else {
				found = reporting.FilterByAnyKeyword(groups, args)
			}
			return a.print(cmd.OutOrStdout(), found, func(w io.Writer) error {
				return writeGroups(w, found, false)
			})
		},
	}
}

func newCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Summarize beneficiary families (CPAS, police zones, communes)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := reporting.LoadCategories(a.categoriesFile)
			if err != nil {
				return err
			}
			groups, err := a.loadGroups(cmd.Context())
			if err != nil {
				return err
			}

			reports := reporting.Categorize(groups, categories)
			return a.print(cmd.OutOrStdout(), reports, func(w io.Writer) error {
				tw := newTable(w)
				fmt.Fprintln(tw, "CATEGORY\tGROUPS\tRECORDS\tTOTAL")
				for _, r := range reports {
					fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\n", r.Category.Label, len(r.Groups), r.RecordCount, r.TotalAmount)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&a.categoriesFile, "file", a.categoriesFile, "YAML file with category definitions (SUBSIDY_CATEGORIES_FILE)")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print distribution figures over group totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := a.loadGroups(cmd.Context())
			if err != nil {
				return err
			}

			summary := reporting.Summarize(groups)
			return a.print(cmd.OutOrStdout(), summary, func(w io.Writer) error {
				tw := newTable(w)
				fmt.Fprintf(tw, "strategy\t%s\n", summary.Strategy)
				fmt.Fprintf(tw, "groups\t%d\n", summary.GroupCount)
				fmt.Fprintf(tw, "records\t%d\n", summary.RecordCount)
				fmt.Fprintf(tw, "groups with variants\t%d\n", summary.VariantKeys)
				fmt.Fprintf(tw, "total\t%.2f\n", summary.TotalAmount)
				fmt.Fprintf(tw, "mean\t%.2f\n", summary.MeanAmount)
				fmt.Fprintf(tw, "median\t%.2f\n", summary.Median)
				fmt.Fprintf(tw, "stddev\t%.2f\n", summary.StdDev)
				fmt.Fprintf(tw, "max\t%.2f\n", summary.MaxAmount)
				fmt.Fprintf(tw, "top 10 share\t%.1f%%\n", summary.TopShare*100)
				return tw.Flush()
			})
		},
	}
}
