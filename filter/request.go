package filter

import (
	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/pkg/utils"
)

// Request 是结构化的推荐请求（由工具调用层从自然语言解析得到）。
// 所有字段可选；名称/配料/类别在构建过滤器时规范化。
type Request struct {
	ExcludeNames       []string `json:"excluded_cocktail_names,omitempty"`
	Ingredients        []string `json:"ingredients,omitempty"`
	ExcludeIngredients []string `json:"excluded_ingredients,omitempty"`
	Categories         []string `json:"categories,omitempty"`
	ExcludeCategories  []string `json:"excluded_categories,omitempty"`

	// AlcoholContent: "alcoholic" / "non alcoholic" / "any"（大小写不敏感）
	AlcoholContent string `json:"alcohol_content,omitempty"`

	// Exprs 是附加的 CEL 规则，全部为 true 才保留
	Exprs []string `json:"exprs,omitempty"`
}

// WithExcludedNames 返回追加了排除名称的请求副本（不修改原请求）。
func (r Request) WithExcludedNames(names ...string) Request {
	merged := make([]string, 0, len(r.ExcludeNames)+len(names))
	merged = append(merged, r.ExcludeNames...)
	merged = append(merged, names...)
	r.ExcludeNames = merged
	return r
}

// SuppressedIngredients 计算需要排除的配料：
//   - 请求带有显式排除配料时：(用户不喜欢的配料 - 本次请求要求的配料) ∪ 显式排除的配料
//   - 否则：用户不喜欢的配料全部抑制，即使本次请求要求了其中某些配料
func SuppressedIngredients(req Request, prefs core.Preferences) []string {
	excluded := utils.NormalizeTerms(req.ExcludeIngredients)
	requested := map[string]struct{}{}
	if len(excluded) > 0 {
		requested = utils.StringSet(utils.NormalizeTerms(req.Ingredients))
	}

	out := make([]string, 0, len(prefs.DislikedIngredients)+len(excluded))
	for _, ing := range utils.NormalizeTerms(prefs.DislikedIngredients) {
		if _, ok := requested[ing]; ok {
			continue
		}
		out = append(out, ing)
	}
	out = append(out, excluded...)
	return utils.NormalizeTerms(out)
}

// Build 把请求和用户偏好翻译为过滤器组合（按“与”生效）：
//  1. 用户不喜欢的鸡尾酒
//  2. 被抑制的配料（见 SuppressedIngredients）
//  3. 显式排除的名称
//  4. 必含配料（全部包含）
//  5. 类别包含/排除
//  6. 酒精含量
//  7. CEL 规则
//
// 没有对应条件的过滤器不会被创建。
func Build(req Request, prefs core.Preferences) ([]Filter, error) {
	filters := make([]Filter, 0, 8)

	if len(prefs.DislikedCocktails) > 0 {
		filters = append(filters, NewDislikedCocktailFilter(prefs.DislikedCocktails))
	}
	if suppressed := SuppressedIngredients(req, prefs); len(suppressed) > 0 {
		filters = append(filters, NewIngredientExcludeFilter(suppressed))
	}
	if len(req.ExcludeNames) > 0 {
		filters = append(filters, NewNameFilter(req.ExcludeNames))
	}
	if len(utils.NormalizeTerms(req.Ingredients)) > 0 {
		filters = append(filters, NewIngredientRequireFilter(req.Ingredients))
	}
	if len(req.Categories) > 0 || len(req.ExcludeCategories) > 0 {
		filters = append(filters, NewCategoryFilter(req.Categories, req.ExcludeCategories))
	}
	if af := NewAlcoholFilter(req.AlcoholContent); af != nil {
		filters = append(filters, af)
	}
	for _, expr := range req.Exprs {
		if expr == "" {
			continue
		}
		ef, err := NewExprFilter(expr)
		if err != nil {
			return nil, err
		}
		filters = append(filters, ef)
	}
	return filters, nil
}
