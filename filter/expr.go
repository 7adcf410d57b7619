package filter

import (
	"context"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/pkg/dsl"
)

// ExprFilter 使用 CEL 表达式过滤：表达式为 true 的鸡尾酒保留，false 的被过滤。
// 表达式语法见 dsl.Program。
type ExprFilter struct {
	prg *dsl.Program
}

// NewExprFilter 编译表达式；语法错误返回 INVALID_INPUT。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, core.InvalidInput(core.ModuleFilter, "invalid filter expression", err)
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Cocktail == nil {
		return true, nil
	}
	prefs := core.NewPreferences()
	if rctx != nil {
		prefs = rctx.Preferences
	}
	keep, err := f.prg.Match(item.Cocktail, prefs)
	if err != nil {
		return false, core.InvalidInput(core.ModuleFilter, "filter expression failed", err)
	}
	return !keep, nil
}
