package rerank

import (
	"context"
	"sort"
	"strconv"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/pipeline"
	"github.com/rushteam/cocktailkit/pkg/utils"
)

// Jaccard 返回 |A∩B| / |A∪B|；两个集合都为空时返回 0。
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for k := range small {
		if _, ok := large[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// Similarity 计算候选与单个参考鸡尾酒的混合相似度：配料 Jaccard 与类别 Jaccard 的平均值。
func Similarity(candidate, reference *core.Cocktail) float64 {
	return (Jaccard(candidate.IngredientSet(), reference.IngredientSet()) +
		Jaccard(candidate.CategorySet(), reference.CategorySet())) / 2
}

// SimilarityNode 按与参考鸡尾酒的相似度重排候选。
//
// 候选得分取所有参考中的最大相似度（最接近的参考决定得分），按得分降序稳定排序，
// 同分候选保持上游（偏好排序后）的顺序。写入 item.Score 与 label "similarity"。
// 参考本身应在过滤阶段已被排除，本节点不做额外剔除。
type SimilarityNode struct {
	References []*core.Cocktail
}

func (n *SimilarityNode) Name() string {
	return "rerank.similarity"
}

func (n *SimilarityNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *SimilarityNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 || len(n.References) == 0 {
		return items, nil
	}

	type refSets struct {
		ingredients map[string]struct{}
		categories  map[string]struct{}
	}
	refs := make([]refSets, 0, len(n.References))
	for _, r := range n.References {
		if r == nil {
			continue
		}
		refs = append(refs, refSets{ingredients: r.IngredientSet(), categories: r.CategorySet()})
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.Cocktail == nil {
			continue
		}
		ings := it.Cocktail.IngredientSet()
		cats := it.Cocktail.CategorySet()

		best := 0.0
		for _, r := range refs {
			s := (Jaccard(ings, r.ingredients) + Jaccard(cats, r.categories)) / 2
			if s > best {
				best = s
			}
		}
		it.Score = best
		it.PutLabel("similarity", utils.Label{
			Value:  strconv.FormatFloat(best, 'f', 4, 64),
			Source: "rerank",
		})
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}
