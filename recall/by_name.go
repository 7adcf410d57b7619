package recall

import (
	"context"
	"fmt"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/pkg/utils"
)

// ByName 按名称从 CocktailStore 取鸡尾酒（名称先规范化），未知名称忽略。
// 用于解析相似推荐的参考鸡尾酒；返回结果未带配料的，通过 GetIngredients 补齐。
type ByName struct {
	Store core.CocktailStore
	Names []string
}

func (r *ByName) Name() string { return "recall.by_name" }

func (r *ByName) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Store == nil {
		return nil, fmt.Errorf("recall.by_name: store is nil")
	}
	names := utils.NormalizeCocktailNames(r.Names)
	if len(names) == 0 {
		return []*core.Item{}, nil
	}

	cocktails, err := r.Store.GetCocktailsByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	for _, c := range cocktails {
		if len(c.Ingredients) > 0 || c.ID == 0 {
			continue
		}
		if c.Ingredients, err = r.Store.GetIngredients(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	items := core.ItemsFromCocktails(cocktails)
	for _, it := range items {
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
	}
	return items, nil
}
