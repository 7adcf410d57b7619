package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cocktailkit/core"
)

func cocktail(id int64, name string, class core.AlcoholClass, category string, ingredients ...string) *core.Cocktail {
	c := &core.Cocktail{ID: id, Name: name, Alcoholic: class, Category: category}
	for _, ing := range ingredients {
		c.Ingredients = append(c.Ingredients, core.Ingredient{CocktailID: id, Name: ing})
	}
	return c
}

func catalog() []*core.Cocktail {
	return []*core.Cocktail{
		cocktail(1, "A", core.Alcoholic, "cocktail", "sugar", "lime juice", "rum"),
		cocktail(2, "B", core.NonAlcoholic, "soft drink", "sugar", "mint"),
		cocktail(3, "C", core.OptionalAlcohol, "punch", "lime juice", "soda water"),
		cocktail(4, "Margarita", core.Alcoholic, "ordinary drink", "tequila", "triple sec", "lime juice", "salt"),
	}
}

func run(t *testing.T, req Request, prefs core.Preferences) []string {
	t.Helper()
	filters, err := Build(req, prefs)
	require.NoError(t, err)

	rctx := core.NewRecommendContext(1)
	rctx.Preferences = prefs
	node := &Node{Filters: filters}
	out, err := node.Process(context.Background(), rctx, core.ItemsFromCocktails(catalog()))
	require.NoError(t, err)

	names := make([]string, 0, len(out))
	for _, it := range out {
		names = append(names, it.Name())
	}
	return names
}

func TestBuild_RequireAllIngredients(t *testing.T) {
	got := run(t, Request{Ingredients: []string{"sugar", " Lime Juice"}}, core.NewPreferences())
	assert.Equal(t, []string{"A"}, got)
}

func TestBuild_NoFilters(t *testing.T) {
	got := run(t, Request{}, core.NewPreferences())
	assert.Equal(t, []string{"A", "B", "C", "Margarita"}, got)
}

func TestBuild_AlcoholContent(t *testing.T) {
	tests := []struct {
		content string
		want    []string
	}{
		{"non alcoholic", []string{"B", "C"}},
		{"Non Alcoholic", []string{"B", "C"}},
		{"alcoholic", []string{"A", "C", "Margarita"}},
		{"any", []string{"A", "B", "C", "Margarita"}},
		{"", []string{"A", "B", "C", "Margarita"}},
	}
	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, Request{AlcoholContent: tt.content}, core.NewPreferences()))
		})
	}
}

func TestBuild_Categories(t *testing.T) {
	assert.Equal(t, []string{"A", "C"}, run(t, Request{Categories: []string{"Cocktail", "punch"}}, core.NewPreferences()))
	assert.Equal(t, []string{"B", "Margarita"}, run(t, Request{ExcludeCategories: []string{"cocktail", "PUNCH"}}, core.NewPreferences()))
	assert.Equal(t, []string{"A"}, run(t, Request{
		Categories:        []string{"cocktail", "punch"},
		ExcludeCategories: []string{"punch"},
	}, core.NewPreferences()))
}

func TestBuild_ExcludeNames(t *testing.T) {
	got := run(t, Request{ExcludeNames: []string{" margarita", "a"}}, core.NewPreferences())
	assert.Equal(t, []string{"B", "C"}, got)
}

func TestBuild_DislikedCocktails(t *testing.T) {
	prefs := core.NewPreferences()
	prefs.DislikedCocktails = []string{"Margarita", "B"}
	assert.Equal(t, []string{"A", "C"}, run(t, Request{}, prefs))
}

func TestBuild_DislikedIngredients(t *testing.T) {
	prefs := core.NewPreferences()
	prefs.DislikedIngredients = []string{"mint", "lime juice", "soda water"}

	// 未被请求涉及的不喜欢配料被抑制
	assert.Equal(t, []string{}, run(t, Request{AlcoholContent: "non alcoholic"}, prefs))

	// 没有显式排除配料时，要求的配料如果是不喜欢的，依然被抑制
	assert.Equal(t, []string{}, run(t, Request{Ingredients: []string{"lime juice"}}, prefs))

	// 带显式排除配料时，要求的配料从不喜欢集合中移除，其余不喜欢的配料仍被抑制
	assert.Equal(t, []string{"Margarita"}, run(t, Request{
		Ingredients:        []string{"lime juice"},
		ExcludeIngredients: []string{"rum"},
	}, prefs))
}

func TestBuild_ExcludeIngredients(t *testing.T) {
	got := run(t, Request{ExcludeIngredients: []string{"Sugar"}}, core.NewPreferences())
	assert.Equal(t, []string{"C", "Margarita"}, got)
}

func TestSuppressedIngredients_WithoutExclusions(t *testing.T) {
	prefs := core.NewPreferences()
	prefs.DislikedIngredients = []string{"mint", "sugar"}
	got := SuppressedIngredients(Request{Ingredients: []string{"Sugar"}}, prefs)
	assert.Equal(t, []string{"mint", "sugar"}, got)
}

func TestSuppressedIngredients(t *testing.T) {
	prefs := core.NewPreferences()
	prefs.DislikedIngredients = []string{"mint", "sugar"}
	got := SuppressedIngredients(Request{
		Ingredients:        []string{"Sugar"},
		ExcludeIngredients: []string{"salt", "mint"},
	}, prefs)
	assert.Equal(t, []string{"mint", "salt"}, got)
}

func TestBuild_Expr(t *testing.T) {
	got := run(t, Request{Exprs: []string{`size(cocktail.ingredients) >= 3`}}, core.NewPreferences())
	assert.Equal(t, []string{"A", "Margarita"}, got)

	_, err := Build(Request{Exprs: []string{`cocktail.name ==`}}, core.NewPreferences())
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
}

func TestIngredientRequireFilter_DuplicateIngredient(t *testing.T) {
	// 同一配料出现两次时，集合包含判断不会把“只有 sugar”的鸡尾酒误判为同时含有 sugar 和 lime juice
	dup := cocktail(9, "Dup", core.Alcoholic, "shot", "sugar", "sugar")
	f := NewIngredientRequireFilter([]string{"sugar", "lime juice"})
	filtered, err := f.ShouldFilter(context.Background(), nil, core.NewItem(dup))
	require.NoError(t, err)
	assert.True(t, filtered)
}

type failingFilter struct{}

func (failingFilter) Name() string { return "filter.failing" }

func (failingFilter) ShouldFilter(context.Context, *core.RecommendContext, *core.Item) (bool, error) {
	return false, errors.New("boom")
}

func TestNode_ErrorAbortsProcessing(t *testing.T) {
	node := &Node{Filters: []Filter{failingFilter{}}}
	out, err := node.Process(context.Background(), core.NewRecommendContext(1), core.ItemsFromCocktails(catalog()))
	require.Error(t, err)
	assert.Nil(t, out)
}

func TestNode_LabelsFilteredItems(t *testing.T) {
	items := core.ItemsFromCocktails(catalog())
	node := &Node{Filters: []Filter{NewNameFilter([]string{"a"})}}
	_, err := node.Process(context.Background(), core.NewRecommendContext(1), items)
	require.NoError(t, err)
	assert.Equal(t, "filter.exclude_names", items[0].Labels["filtered"].Source)
}
