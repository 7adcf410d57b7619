package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/cocktailkit/core"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链。
// 任一 Node 返回错误时整条链失败，不返回部分结果。
type Pipeline struct {
	Nodes []Node

	// Hooks 在每个 Node 执行后被调用（可选，用于日志/观测）
	Hooks []Hook
}

// Hook 观察每个 Node 的输出数量。
type Hook func(node Node, in, out int)

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		for _, h := range p.Hooks {
			h(node, len(cur), len(next))
		}
		cur = next
	}
	return cur, nil
}
