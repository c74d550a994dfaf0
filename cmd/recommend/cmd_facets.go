package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"algolia-recommend/models"
)

func newTrendingFacetsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trending-facets INDEX FACET",
		Short: "Show trending values of a facet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := models.NewTrendingFacets(args[0], args[1])
			if limit, _ := cmd.Flags().GetInt("max"); limit > 0 {
				req = req.WithMaxRecommendations(limit)
			}
			if threshold, _ := cmd.Flags().GetInt("threshold"); threshold > 0 {
				req = req.WithThreshold(threshold)
			}

			resp, err := a.client.GetTrendingFacets(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	addLimitFlags(cmd)
	return cmd
}

func newHostsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hosts",
		Short: "List the hosts calls rotate over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, h := range a.client.Hosts() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d  %s\n", i, h)
			}
			return nil
		},
	}
}
