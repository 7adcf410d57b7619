package filter

import (
	"context"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/pkg/utils"
)

// NameFilter 是名称黑名单过滤器，过滤掉请求中显式排除的鸡尾酒。
// 名称在构造时规范化为首字母大写形式。
type NameFilter struct {
	names map[string]struct{}
}

// NewNameFilter 创建一个名称黑名单过滤器。
func NewNameFilter(names []string) *NameFilter {
	return &NameFilter{names: utils.StringSet(utils.NormalizeCocktailNames(names))}
}

func (f *NameFilter) Name() string {
	return "filter.exclude_names"
}

func (f *NameFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	_, ok := f.names[item.Name()]
	return ok, nil
}
