package cli

import (
	"github.com/spf13/cobra"

	"github.com/rushteam/cocktailkit/filter"
)

func bindRequestFlags(cmd *cobra.Command, req *filter.Request) {
	f := cmd.Flags()
	f.StringSliceVar(&req.ExcludeNames, "exclude", nil, "cocktail names to exclude")
	f.StringSliceVar(&req.Ingredients, "ingredient", nil, "ingredients every result must contain")
	f.StringSliceVar(&req.ExcludeIngredients, "exclude-ingredient", nil, "ingredients to exclude")
	f.StringSliceVar(&req.Categories, "category", nil, "categories to include")
	f.StringSliceVar(&req.ExcludeCategories, "exclude-category", nil, "categories to exclude")
	f.StringVar(&req.AlcoholContent, "alcohol", "", `alcohol content: "alcoholic", "non alcoholic" or "any"`)
	f.StringArrayVar(&req.Exprs, "expr", nil, "CEL rule every result must satisfy, e.g. 'size(cocktail.ingredients) <= 4'")
}

func newRecommendCmd(a *app) *cobra.Command {
	var (
		req   filter.Request
		limit int
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend cocktails ranked by the user's preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := a.userID()
			if err != nil {
				return err
			}
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			out, err := s.recommender.GetRecommendations(cmd.Context(), userID, req, limit)
			if err != nil {
				return err
			}
			return a.printJSON(out)
		},
	}
	bindRequestFlags(cmd, &req)
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum number of results (0 uses the configured default)")
	return cmd
}

func newSimilarCmd(a *app) *cobra.Command {
	var (
		req   filter.Request
		limit int
	)
	cmd := &cobra.Command{
		Use:   "similar <cocktail>...",
		Short: "Find cocktails similar to the given ones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := a.userID()
			if err != nil {
				return err
			}
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			out, err := s.recommender.GetSimilar(cmd.Context(), userID, args, req, limit)
			if err != nil {
				return err
			}
			return a.printJSON(out)
		},
	}
	bindRequestFlags(cmd, &req)
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum number of results (0 uses the configured default)")
	return cmd
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <cocktail>...",
		Short: "Show cocktails with their ingredients",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			out, err := s.recommender.GetCocktails(cmd.Context(), args)
			if err != nil {
				return err
			}
			return a.printJSON(out)
		},
	}
}
