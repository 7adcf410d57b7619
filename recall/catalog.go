package recall

import (
	"context"
	"fmt"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/pipeline"
	"github.com/rushteam/cocktailkit/pkg/utils"
)

// Catalog 是目录召回源：每次调用都从 CocktailStore 重新加载全部鸡尾酒作为候选池（不做进程内缓存）。
// Catalog 同时实现了 Source 和 Node 接口，可以直接放在 Pipeline 的第一个位置。
type Catalog struct {
	Store core.CocktailStore
}

func (r *Catalog) Name() string        { return "recall.catalog" }
func (r *Catalog) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，忽略上游 items，直接调用 Recall
func (r *Catalog) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Catalog) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Store == nil {
		return nil, fmt.Errorf("recall.catalog: store is nil")
	}

	cocktails, err := r.Store.ListCocktails(ctx)
	if err != nil {
		return nil, err
	}

	items := core.ItemsFromCocktails(cocktails)
	for _, it := range items {
		it.PutLabel("recall_source", utils.Label{Value: r.Store.Name(), Source: "recall"})
	}
	return items, nil
}
