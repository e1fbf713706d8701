package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"guidekit/internal/common/fsutil"
	"guidekit/internal/registry"
	"guidekit/internal/topic"
)

func newSearchCmd() *cobra.Command {
	var leavesOnly bool
	cmd := &cobra.Command{
		Use:     "search <topics.json> [query]",
		Short:   "Flatten a categories payload and print the topics matching query",
		Example: "  guidekit search categories.json phone",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := fsutil.ExpandHome(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(p)
			if err != nil {
				return err
			}
			defer f.Close()
			root, err := topic.Parse(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			query := ""
			if len(args) == 2 {
				query = args[1]
			}
			out := cmd.OutOrStdout()
			for _, n := range topic.FlattenSearch(root, query) {
				if leavesOnly && !n.IsLeaf() {
					continue
				}
				fmt.Fprintln(out, n.Name())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&leavesOnly, "leaves", false, "Only print leaf topics")
	return cmd
}

func newSitesCmd() *cobra.Command {
	var sitesFile string
	cmd := &cobra.Command{
		Use:   "sites [query]",
		Short: "List the known sites, optionally filtered by query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Default()
			if sitesFile != "" {
				p, err := fsutil.ExpandHome(sitesFile)
				if err != nil {
					return err
				}
				if reg, err = registry.Load(p); err != nil {
					return err
				}
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			out := cmd.OutOrStdout()
			for _, s := range reg.Search(query) {
				fmt.Fprintf(out, "%s\t%s\t%s\n", s.Name, s.Title, s.Domain)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sitesFile, "sites-file", "", "Site list file or directory")
	return cmd
}
