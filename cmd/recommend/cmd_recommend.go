package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"algolia-recommend/client"
	"algolia-recommend/models"
)

// hit payloads are printed as they came
type record = map[string]any

func newTrendingItemsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trending-items INDEX",
		Short: "Show trending items of an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := models.NewTrendingItems(args[0])
			if facet, _ := cmd.Flags().GetString("facet"); facet != "" {
				name, value, ok := strings.Cut(facet, "=")
				if !ok {
					return fmt.Errorf("--facet must look like name=value, got %q", facet)
				}
				req = req.WithFacet(name, value)
			}
			req, err := applyLimits(cmd, req)
			if err != nil {
				return err
			}

			resp, err := client.Recommend[record](cmd.Context(), a.client, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().String("facet", "", "Restrict to one facet value, as name=value")
	addLimitFlags(cmd)
	return cmd
}

func newRelatedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "related INDEX OBJECT_ID",
		Short: "Show recommendations seeded by one object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("model")
			m, err := models.ParseModel(name)
			if err != nil {
				return err
			}
			if !m.RequiresObjectID() {
				return fmt.Errorf("model %s is not seeded by an object", m)
			}

			req := models.RecommendRequest{IndexName: args[0], Model: m, ObjectID: args[1]}
			req, err = applyLimits(cmd, req)
			if err != nil {
				return err
			}

			resp, err := client.Recommend[record](cmd.Context(), a.client, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().String("model", string(models.RelatedProducts), "bought-together, related-products or looking-similar")
	addLimitFlags(cmd)
	return cmd
}

func addLimitFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max", 0, "Maximum number of recommendations (0 = API default)")
	cmd.Flags().Int("threshold", 0, "Minimum score, 0 to 100")
}

func applyLimits(cmd *cobra.Command, req models.RecommendRequest) (models.RecommendRequest, error) {
	threshold, err := cmd.Flags().GetInt("threshold")
	if err != nil {
		return req, err
	}
	req = req.WithThreshold(threshold)

	limit, err := cmd.Flags().GetInt("max")
	if err != nil {
		return req, err
	}
	if limit > 0 {
		req = req.WithMaxRecommendations(limit)
	}
	return req, nil
}
