package filter

import (
	"context"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/pkg/utils"
)

// CategoryFilter 按类别过滤：
//   - Include 非空时，类别必须在 Include 中
//   - Exclude 非空时，类别不能在 Exclude 中
type CategoryFilter struct {
	include map[string]struct{}
	exclude map[string]struct{}
}

// NewCategoryFilter 创建类别过滤器，类别会被规范化为小写。
func NewCategoryFilter(include, exclude []string) *CategoryFilter {
	return &CategoryFilter{
		include: utils.StringSet(utils.NormalizeTerms(include)),
		exclude: utils.StringSet(utils.NormalizeTerms(exclude)),
	}
}

func (f *CategoryFilter) Name() string {
	return "filter.category"
}

func (f *CategoryFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Cocktail == nil {
		return true, nil
	}
	category := item.Cocktail.Category
	if len(f.include) > 0 {
		if _, ok := f.include[category]; !ok {
			return true, nil
		}
	}
	if _, ok := f.exclude[category]; ok {
		return true, nil
	}
	return false, nil
}
