package core

import "github.com/rushteam/cocktailkit/pkg/utils"

// Item 是推荐链路中的统一承载结构：鸡尾酒、分数、标签。
// Labels 用于解释与观测；Score 用于排序决策。
type Item struct {
	Cocktail *Cocktail
	Score    float64
	Labels   map[string]utils.Label
}

func NewItem(c *Cocktail) *Item {
	return &Item{
		Cocktail: c,
		Score:    0,
		Labels:   make(map[string]utils.Label),
	}
}

// Name 返回鸡尾酒名称；空 Item 返回空字符串。
func (it *Item) Name() string {
	if it == nil || it.Cocktail == nil {
		return ""
	}
	return it.Cocktail.Name
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// ItemsFromCocktails 把鸡尾酒列表包装为 Item，保持顺序。
func ItemsFromCocktails(cocktails []*Cocktail) []*Item {
	items := make([]*Item, 0, len(cocktails))
	for _, c := range cocktails {
		if c == nil {
			continue
		}
		items = append(items, NewItem(c))
	}
	return items
}

// CocktailsFromItems 从 Item 中取回鸡尾酒，保持顺序。
func CocktailsFromItems(items []*Item) []*Cocktail {
	out := make([]*Cocktail, 0, len(items))
	for _, it := range items {
		if it == nil || it.Cocktail == nil {
			continue
		}
		out = append(out, it.Cocktail)
	}
	return out
}
