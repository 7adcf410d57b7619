package rerank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cocktailkit/core"
)

func cocktail(name, category string, ingredients ...string) *core.Cocktail {
	c := &core.Cocktail{Name: name, Category: category}
	for _, ing := range ingredients {
		c.Ingredients = append(c.Ingredients, core.Ingredient{Name: ing})
	}
	return c
}

func set(values ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 0.0, Jaccard(set(), set()))
	assert.Equal(t, 0.0, Jaccard(nil, nil))
	assert.Equal(t, 0.0, Jaccard(set("a"), set()))
	assert.Equal(t, 1.0, Jaccard(set("a", "b"), set("b", "a")))
	assert.InDelta(t, 1.0/3.0, Jaccard(set("a", "b"), set("b", "c")), 1e-9)
}

func TestSimilarity_EmptyCategories(t *testing.T) {
	// 两边类别都为空时类别项贡献 0，不产生 NaN
	a := cocktail("A", "", "rum", "lime")
	b := cocktail("B", "", "rum", "lime")
	assert.Equal(t, 0.5, Similarity(a, b))
}

func TestSimilarityNode_MaxOverReferences(t *testing.T) {
	refs := []*core.Cocktail{
		cocktail("Margarita", "ordinary drink", "tequila", "triple sec", "lime juice", "salt"),
		cocktail("Mojito", "cocktail", "light rum", "lime", "sugar", "mint", "soda water"),
	}
	items := core.ItemsFromCocktails([]*core.Cocktail{
		cocktail("Far", "punch", "milk"),
		cocktail("Tommy's", "ordinary drink", "tequila", "lime juice", "agave syrup"),
		cocktail("Daiquiri", "cocktail", "light rum", "lime", "sugar"),
	})

	node := &SimilarityNode{References: refs}
	out, err := node.Process(context.Background(), core.NewRecommendContext(1), items)
	require.NoError(t, err)
	require.Len(t, out, 3)

	// Daiquiri vs Mojito: ingredients 3/5, category 1 -> 0.8
	assert.Equal(t, "Daiquiri", out[0].Name())
	assert.InDelta(t, 0.8, out[0].Score, 1e-9)
	// Tommy's vs Margarita: ingredients 2/5, category 1 -> 0.7
	assert.Equal(t, "Tommy's", out[1].Name())
	assert.InDelta(t, 0.7, out[1].Score, 1e-9)
	assert.Equal(t, "Far", out[2].Name())
	assert.Equal(t, 0.0, out[2].Score)
	assert.Equal(t, "0.8000", out[0].Labels["similarity"].Value)
}

func TestSimilarityNode_TiesKeepInputOrder(t *testing.T) {
	ref := cocktail("Ref", "shot", "vodka")
	items := core.ItemsFromCocktails([]*core.Cocktail{
		cocktail("First", "punch", "milk"),
		cocktail("Second", "punch", "cream"),
		cocktail("Third", "punch", "egg"),
	})
	out, err := (&SimilarityNode{References: []*core.Cocktail{ref}}).Process(context.Background(), nil, items)
	require.NoError(t, err)
	assert.Equal(t, "First", out[0].Name())
	assert.Equal(t, "Second", out[1].Name())
	assert.Equal(t, "Third", out[2].Name())
}

func TestTopNNode(t *testing.T) {
	items := core.ItemsFromCocktails([]*core.Cocktail{
		cocktail("A", ""), cocktail("B", ""), cocktail("C", ""),
	})
	tests := []struct {
		n    int
		want int
	}{
		{0, 3},
		{-1, 3},
		{2, 2},
		{5, 3},
	}
	for _, tt := range tests {
		out, err := (&TopNNode{N: tt.n}).Process(context.Background(), nil, items)
		require.NoError(t, err)
		assert.Len(t, out, tt.want)
	}
}
