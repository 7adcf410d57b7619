package recall

import (
	"context"

	"github.com/rushteam/cocktailkit/core"
)

// Source 表示一个候选池来源（目录全量、按名称查询等）。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

var (
	_ Source = (*Catalog)(nil)
	_ Source = (*ByName)(nil)
)
