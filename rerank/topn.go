package rerank

import (
	"context"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个候选。
// 通常放在 Pipeline 末尾，用于限制返回给调用方的鸡尾酒数量。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.PreferenceNode{},  // 排序
//	        &rerank.TopNNode{N: 3},  // 截取 Top 3
//	    },
//	}
type TopNNode struct {
	// N 要保留的候选数量
	// 如果 N <= 0，则返回所有候选（不截断）
	// 如果 N > len(items)，则返回所有候选
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
