package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestFromArgs(t *testing.T) {
	var args map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"excluded_cocktail_names": ["Margarita"],
		"ingredients": ["sugar", "lime juice"],
		"excluded_categories": ["shot"],
		"alcohol_content": "non alcoholic",
		"limit": 5,
		"categories": "cocktail"
	}`), &args))

	req := RequestFromArgs(args)
	assert.Equal(t, []string{"Margarita"}, req.ExcludeNames)
	assert.Equal(t, []string{"sugar", "lime juice"}, req.Ingredients)
	assert.Equal(t, []string{"shot"}, req.ExcludeCategories)
	assert.Equal(t, "non alcoholic", req.AlcoholContent)
	assert.Nil(t, req.Categories)
	assert.Equal(t, 5, LimitFromArgs(args))

	assert.Equal(t, Request{}, RequestFromArgs(nil))
	assert.Equal(t, 0, LimitFromArgs(nil))
}
