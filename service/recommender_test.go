package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/filter"
	"github.com/rushteam/cocktailkit/preference"
	"github.com/rushteam/cocktailkit/store"
)

func cocktail(name string, class core.AlcoholClass, category string, ingredients ...string) *core.Cocktail {
	c := &core.Cocktail{Name: name, Alcoholic: class, Category: category}
	for _, ing := range ingredients {
		c.Ingredients = append(c.Ingredients, core.Ingredient{Name: ing})
	}
	return c
}

func newStore() *store.MemoryStore {
	s := store.NewMemoryStore()
	s.AddCocktails(
		cocktail("Margarita", core.Alcoholic, "ordinary drink", "tequila", "triple sec", "lime juice", "salt"),
		cocktail("Tommy's Margarita", core.Alcoholic, "ordinary drink", "tequila", "lime juice", "agave syrup"),
		cocktail("Mojito", core.Alcoholic, "cocktail", "light rum", "lime", "sugar", "mint", "soda water"),
		cocktail("Daiquiri", core.Alcoholic, "cocktail", "light rum", "lime", "sugar"),
		cocktail("Virgin Mojito", core.NonAlcoholic, "cocktail", "lime", "sugar", "mint", "soda water"),
		cocktail("Shandy", core.OptionalAlcohol, "beer", "lager", "lemonade"),
		cocktail("Lemonade", core.NonAlcoholic, "soft drink", "lemon juice", "sugar", "water"),
	)
	return s
}

func newRecommender(t *testing.T, s *store.MemoryStore, opts ...Option) *Recommender {
	t.Helper()
	r, err := New(s, s, opts...)
	require.NoError(t, err)
	return r
}

func names(cocktails []*core.Cocktail) []string {
	out := make([]string, 0, len(cocktails))
	for _, c := range cocktails {
		out = append(out, c.Name)
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	s := newStore()
	_, err := New(nil, s)
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))

	_, err = New(s, s, WithExprs(`cocktail.name ==`))
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
}

func TestGetRecommendations_DefaultLimit(t *testing.T) {
	r := newRecommender(t, newStore())
	got, err := r.GetRecommendations(context.Background(), 1, filter.Request{}, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = r.GetRecommendations(context.Background(), 1, filter.Request{}, 100)
	require.NoError(t, err)
	assert.Len(t, got, 7)

	_, err = r.GetRecommendations(context.Background(), 1, filter.Request{}, -1)
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
}

func TestGetRecommendations_FavoriteFirst(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	r := newRecommender(t, s)
	require.NoError(t, r.UpdatePreferences(ctx, 1, preference.Update{LikedCocktails: []string{"daiquiri"}}))

	for i := 0; i < 20; i++ {
		got, err := r.GetRecommendations(ctx, 1, filter.Request{}, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Daiquiri", got[0].Name)
		assert.NotEqual(t, "Daiquiri", got[1].Name)
	}
}

func TestGetRecommendations_LikedIngredientsRankHigher(t *testing.T) {
	ctx := context.Background()
	r := newRecommender(t, newStore(), WithRand(func() *rand.Rand { return rand.New(rand.NewPCG(1, 1)) }))
	require.NoError(t, r.UpdatePreferences(ctx, 1, preference.Update{LikedIngredients: []string{"Tequila", "agave syrup"}}))

	got, err := r.GetRecommendations(ctx, 1, filter.Request{}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tommy's Margarita", "Margarita"}, names(got))
}

func TestGetRecommendations_NonAlcoholicNeverAlcoholic(t *testing.T) {
	r := newRecommender(t, newStore())
	for i := 0; i < 10; i++ {
		got, err := r.GetRecommendations(context.Background(), 1, filter.Request{AlcoholContent: "non alcoholic"}, 10)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Virgin Mojito", "Shandy", "Lemonade"}, names(got))
		for _, c := range got {
			assert.NotEqual(t, core.Alcoholic, c.Alcoholic)
		}
	}
}

func TestGetRecommendations_IngredientsAND(t *testing.T) {
	r := newRecommender(t, newStore())
	got, err := r.GetRecommendations(context.Background(), 1, filter.Request{Ingredients: []string{"sugar", "Mint"}}, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Mojito", "Virgin Mojito"}, names(got))
}

func TestGetRecommendations_DislikesAndRules(t *testing.T) {
	ctx := context.Background()
	r := newRecommender(t, newStore(), WithExprs(`cocktail.category != "beer"`))
	require.NoError(t, r.UpdatePreferences(ctx, 1, preference.Update{
		DislikedCocktails:   []string{"margarita"},
		DislikedIngredients: []string{"mint"},
	}))

	got, err := r.GetRecommendations(ctx, 1, filter.Request{}, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Tommy's Margarita", "Daiquiri", "Lemonade"}, names(got))

	// 只要求配料时，不喜欢的配料仍被抑制
	got, err = r.GetRecommendations(ctx, 1, filter.Request{Ingredients: []string{"mint"}}, 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	// 同时带排除配料时，要求的配料覆盖“不喜欢”
	got, err = r.GetRecommendations(ctx, 1, filter.Request{
		Ingredients:        []string{"mint"},
		ExcludeIngredients: []string{"lemonade"},
	}, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Mojito", "Virgin Mojito"}, names(got))
}

func TestGetRecommendations_EmptyIsValid(t *testing.T) {
	r := newRecommender(t, newStore())
	got, err := r.GetRecommendations(context.Background(), 1, filter.Request{Ingredients: []string{"unicorn tears"}}, 3)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetSimilar_ExcludesReference(t *testing.T) {
	r := newRecommender(t, newStore())
	got, err := r.GetSimilar(context.Background(), 1, []string{" margarita"}, filter.Request{}, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Tommy's Margarita", got[0].Name)
	assert.NotContains(t, names(got), "Margarita")
}

func TestGetSimilar_TiesFollowPreferences(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	s.AddCocktails(
		cocktail("Ref", core.Alcoholic, "shot", "a", "b"),
		cocktail("First", core.Alcoholic, "shot", "a"),
		cocktail("Second", core.Alcoholic, "shot", "b"),
	)
	r := newRecommender(t, s)
	require.NoError(t, r.UpdatePreferences(ctx, 1, preference.Update{LikedCocktails: []string{"Second"}}))

	for i := 0; i < 10; i++ {
		got, err := r.GetSimilar(ctx, 1, []string{"Ref"}, filter.Request{}, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"Second"}, names(got))
	}

	// 没有偏好时同分候选都有机会排在前面
	seen := map[string]bool{}
	for seed := uint64(0); seed < 30; seed++ {
		seeded := newRecommender(t, s, WithRand(func() *rand.Rand { return rand.New(rand.NewPCG(seed, seed)) }))
		got, err := seeded.GetSimilar(ctx, 2, []string{"Ref"}, filter.Request{}, 1)
		require.NoError(t, err)
		seen[got[0].Name] = true
	}
	assert.Len(t, seen, 2)
}

func TestGetSimilar_MultipleReferences(t *testing.T) {
	r := newRecommender(t, newStore())
	got, err := r.GetSimilar(context.Background(), 1, []string{"Margarita", "Mojito"}, filter.Request{}, 0)
	require.NoError(t, err)
	// Virgin Mojito 0.9 / Daiquiri 0.8 (Mojito)，Tommy's Margarita 0.7 (Margarita)
	assert.Equal(t, []string{"Virgin Mojito", "Daiquiri", "Tommy's Margarita"}, names(got))
}

func TestGetSimilar_RespectsFilters(t *testing.T) {
	r := newRecommender(t, newStore())
	got, err := r.GetSimilar(context.Background(), 1, []string{"Mojito"}, filter.Request{AlcoholContent: "alcoholic"}, 3)
	require.NoError(t, err)
	assert.NotContains(t, names(got), "Virgin Mojito")
	assert.NotContains(t, names(got), "Mojito")
	assert.Equal(t, "Daiquiri", got[0].Name)
}

func TestGetSimilar_UnknownReference(t *testing.T) {
	r := newRecommender(t, newStore())
	got, err := r.GetSimilar(context.Background(), 1, []string{"Nope"}, filter.Request{}, 3)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = r.GetSimilar(context.Background(), 1, nil, filter.Request{}, 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPreferences_Lifecycle(t *testing.T) {
	ctx := context.Background()
	r := newRecommender(t, newStore())

	prefs, err := r.GetPreferences(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, core.NewPreferences(), prefs)

	// 没有记录时清空不报错
	require.NoError(t, r.ClearPreferences(ctx, 5))

	upd := preference.Update{
		LikedCocktails:      []string{"mojito"},
		DislikedIngredients: []string{"Salt"},
	}
	require.NoError(t, r.UpdatePreferences(ctx, 5, upd))
	require.NoError(t, r.UpdatePreferences(ctx, 5, upd))

	prefs, err = r.GetPreferences(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mojito"}, prefs.LikedCocktails)
	assert.Equal(t, []string{"salt"}, prefs.DislikedIngredients)

	require.NoError(t, r.AppendMessage(ctx, 5, "hi", "hello"))
	require.NoError(t, r.ClearPreferences(ctx, 5))

	prefs, err = r.GetPreferences(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, core.NewPreferences(), prefs)

	history, err := r.MessageHistory(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestMessageHistory_Bounded(t *testing.T) {
	ctx := context.Background()
	r := newRecommender(t, newStore())

	history, err := r.MessageHistory(ctx, 9)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)

	for _, msg := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		require.NoError(t, r.AppendMessage(ctx, 9, msg, "ok"))
	}
	history, err = r.MessageHistory(ctx, 9)
	require.NoError(t, err)
	require.Len(t, history, 5)
	assert.Equal(t, "3", history[0].User)
	assert.Equal(t, "7", history[4].User)
}

func TestGetCocktails(t *testing.T) {
	r := newRecommender(t, newStore())
	got, err := r.GetCocktails(context.Background(), []string{"mojito", "  DAIQUIRI ", "Unknown"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mojito", "Daiquiri"}, names(got))
	assert.Len(t, got[0].Ingredients, 5)
}

type failingStore struct {
	*store.MemoryStore
}

var errDown = errors.New("connection refused")

func (failingStore) ListCocktails(context.Context) ([]*core.Cocktail, error) {
	return nil, core.Unavailable(core.ModuleStore, "list cocktails", errDown)
}

func (failingStore) GetUserData(context.Context, int64) (*core.UserData, error) {
	return nil, core.Unavailable(core.ModuleStore, "get user data", errDown)
}

func TestStoreFailurePropagates(t *testing.T) {
	s := failingStore{MemoryStore: newStore()}
	r, err := New(s, s)
	require.NoError(t, err)

	_, err = r.GetRecommendations(context.Background(), 1, filter.Request{}, 3)
	require.Error(t, err)
	assert.True(t, core.IsUnavailable(err))
	assert.ErrorIs(t, err, errDown)

	_, err = r.GetSimilar(context.Background(), 1, []string{"Margarita"}, filter.Request{}, 3)
	require.Error(t, err)
	assert.True(t, core.IsUnavailable(err))

	err = r.ClearPreferences(context.Background(), 1)
	require.Error(t, err)
}
