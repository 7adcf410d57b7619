package filter

import (
	"context"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/pkg/utils"
)

// AlcoholFilter 按酒精含量过滤：
//   - "alcoholic"     -> alcoholic / optional alcohol
//   - "non alcoholic" -> non alcoholic / optional alcohol
//   - 其他值（包括 "any" 和空值）不过滤
type AlcoholFilter struct {
	allowed map[core.AlcoholClass]struct{}
}

// NewAlcoholFilter 根据请求中的 alcohol_content 创建过滤器；不需要过滤时返回 nil。
func NewAlcoholFilter(content string) *AlcoholFilter {
	switch core.AlcoholClass(utils.NormalizeTerm(content)) {
	case core.Alcoholic:
		return &AlcoholFilter{allowed: map[core.AlcoholClass]struct{}{
			core.Alcoholic:       {},
			core.OptionalAlcohol: {},
		}}
	case core.NonAlcoholic:
		return &AlcoholFilter{allowed: map[core.AlcoholClass]struct{}{
			core.NonAlcoholic:    {},
			core.OptionalAlcohol: {},
		}}
	default:
		return nil
	}
}

func (f *AlcoholFilter) Name() string {
	return "filter.alcohol"
}

func (f *AlcoholFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Cocktail == nil {
		return true, nil
	}
	_, ok := f.allowed[core.AlcoholClass(utils.NormalizeTerm(string(item.Cocktail.Alcoholic)))]
	return !ok, nil
}
