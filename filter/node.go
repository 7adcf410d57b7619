package filter

import (
	"context"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/pipeline"
	"github.com/rushteam/cocktailkit/pkg/utils"
)

// Node 是过滤 Node，把多个过滤器按“与”组合：任何一个过滤器返回 true，该物品就会被过滤掉。
// 过滤器出错时整个 Node 返回错误（不返回部分结果）；输出保持输入顺序。
type Node struct {
	Filters []Filter
}

func (n *Node) Name() string {
	return "filter.node"
}

func (n *Node) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil || item.Cocktail == nil {
			continue
		}

		filtered := false
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				return nil, err
			}
			if ok {
				filtered = true
				// 记录过滤原因（用于调试/观测）
				item.PutLabel("filtered", utils.Label{Value: "true", Source: f.Name()})
				break
			}
		}

		if !filtered {
			out = append(out, item)
		}
	}

	return out, nil
}
