package filter

import (
	"context"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/pkg/utils"
)

// IngredientExcludeFilter 过滤掉含有任一被抑制配料的鸡尾酒。
// 被抑制的配料集合由 Build 计算：用户不喜欢的配料（去掉本次请求显式要求的）加上请求显式排除的配料。
type IngredientExcludeFilter struct {
	suppressed map[string]struct{}
}

// NewIngredientExcludeFilter 创建配料排除过滤器，配料名会被规范化为小写。
func NewIngredientExcludeFilter(ingredients []string) *IngredientExcludeFilter {
	return &IngredientExcludeFilter{suppressed: utils.StringSet(utils.NormalizeTerms(ingredients))}
}

func (f *IngredientExcludeFilter) Name() string {
	return "filter.exclude_ingredients"
}

func (f *IngredientExcludeFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Cocktail == nil || len(f.suppressed) == 0 {
		return false, nil
	}
	for _, ing := range item.Cocktail.Ingredients {
		if _, ok := f.suppressed[ing.Name]; ok {
			return true, nil
		}
	}
	return false, nil
}

// IngredientRequireFilter 要求鸡尾酒同时包含全部指定配料（AND，而不是“任一”）。
// 使用集合包含判断，同一配料在一款鸡尾酒中重复出现也不会影响结果。
type IngredientRequireFilter struct {
	required []string
}

// NewIngredientRequireFilter 创建必含配料过滤器，配料名会被规范化为小写并去重。
func NewIngredientRequireFilter(ingredients []string) *IngredientRequireFilter {
	return &IngredientRequireFilter{required: utils.NormalizeTerms(ingredients)}
}

func (f *IngredientRequireFilter) Name() string {
	return "filter.require_ingredients"
}

func (f *IngredientRequireFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Cocktail == nil {
		return true, nil
	}
	if len(f.required) == 0 {
		return false, nil
	}
	have := item.Cocktail.IngredientSet()
	for _, ing := range f.required {
		if _, ok := have[ing]; !ok {
			return true, nil
		}
	}
	return false, nil
}
