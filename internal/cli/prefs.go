package cli

import (
	"github.com/spf13/cobra"

	"github.com/rushteam/cocktailkit/preference"
)

func newPrefsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read or change a user's preferences",
	}
	cmd.AddCommand(newPrefsGetCmd(a), newPrefsUpdateCmd(a), newPrefsClearCmd(a))
	return cmd
}

func newPrefsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the user's liked and disliked cocktails and ingredients",
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

			prefs, err := s.recommender.GetPreferences(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return a.printJSON(prefs)
		},
	}
}

func newPrefsUpdateCmd(a *app) *cobra.Command {
	var upd preference.Update
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Merge liked/disliked cocktails and ingredients into the user's preferences",
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

			if err := s.recommender.UpdatePreferences(cmd.Context(), userID, upd); err != nil {
				return err
			}
			prefs, err := s.recommender.GetPreferences(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return a.printJSON(prefs)
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&upd.LikedCocktails, "like", nil, "cocktails the user likes")
	f.StringSliceVar(&upd.DislikedCocktails, "dislike", nil, "cocktails the user dislikes")
	f.StringSliceVar(&upd.LikedIngredients, "like-ingredient", nil, "ingredients the user likes")
	f.StringSliceVar(&upd.DislikedIngredients, "dislike-ingredient", nil, "ingredients the user dislikes")
	return cmd
}

func newPrefsClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Reset all four preference lists to empty",
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

			return s.recommender.ClearPreferences(cmd.Context(), userID)
		},
	}
}
