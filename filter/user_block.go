package filter

import (
	"context"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/pkg/utils"
)

// DislikedCocktailFilter 过滤掉用户明确不喜欢的鸡尾酒。
// 构造时传入用户偏好中的不喜欢列表；为 nil 时在过滤时从 RecommendContext.Preferences 读取。
type DislikedCocktailFilter struct {
	names map[string]struct{}
}

// NewDislikedCocktailFilter 创建不喜欢鸡尾酒过滤器。
func NewDislikedCocktailFilter(disliked []string) *DislikedCocktailFilter {
	if disliked == nil {
		return &DislikedCocktailFilter{}
	}
	return &DislikedCocktailFilter{names: utils.StringSet(utils.NormalizeCocktailNames(disliked))}
}

func (f *DislikedCocktailFilter) Name() string {
	return "filter.disliked_cocktails"
}

func (f *DislikedCocktailFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	names := f.names
	if names == nil {
		if rctx == nil {
			return false, nil
		}
		names = utils.StringSet(utils.NormalizeCocktailNames(rctx.Preferences.DislikedCocktails))
	}

	_, ok := names[item.Name()]
	return ok, nil
}
