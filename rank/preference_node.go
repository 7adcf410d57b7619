package rank

import (
	"context"
	"math/rand/v2"
	"sort"
	"strconv"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/pipeline"
	"github.com/rushteam/cocktailkit/pkg/utils"
)

// 排序分层标签值
const (
	TierFavorite = "favorite"
	TierAffinity = "affinity"
	TierOther    = "other"
)

// PreferenceNode 按用户偏好把候选分三层排序后拼接：
//  1. favorite：名称在喜欢的鸡尾酒中，保持上游（存储）顺序
//  2. affinity：含有至少一种喜欢的配料，按喜欢配料数降序；同分时每次调用为每个候选独立随机抽签决定先后
//  3. other：其余候选，完全随机打乱
//
// 同分随机是有意的探索机制：相同偏好程度的候选每次调用呈现新的顺序。
// 写入 labels：rank_tier、rank_affinity；item.Score 为喜欢配料数。
type PreferenceNode struct {
	// Rand 为 nil 时使用全局随机源（每次调用结果不同）；测试可注入固定种子。
	// *rand.Rand 不是并发安全的，注入时每个调用应使用独立实例。
	Rand *rand.Rand
}

func (n *PreferenceNode) Name() string        { return "rank.preference" }
func (n *PreferenceNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *PreferenceNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	prefs := core.NewPreferences()
	if rctx != nil {
		prefs = rctx.Preferences
	}
	likedCocktails := utils.StringSet(utils.NormalizeCocktailNames(prefs.LikedCocktails))
	likedIngredients := utils.StringSet(utils.NormalizeTerms(prefs.LikedIngredients))

	type scored struct {
		item     *core.Item
		tiebreak float64
	}

	favorites := make([]*core.Item, 0)
	affinity := make([]scored, 0, len(items))
	others := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil || it.Cocktail == nil {
			continue
		}

		count := 0
		for ing := range it.Cocktail.IngredientSet() {
			if _, ok := likedIngredients[ing]; ok {
				count++
			}
		}
		it.Score = float64(count)
		it.PutLabel("rank_affinity", utils.Label{Value: strconv.Itoa(count), Source: "rank"})

		switch {
		case hasName(likedCocktails, it):
			it.PutLabel("rank_tier", utils.Label{Value: TierFavorite, Source: "rank"})
			favorites = append(favorites, it)
		case count > 0:
			it.PutLabel("rank_tier", utils.Label{Value: TierAffinity, Source: "rank"})
			affinity = append(affinity, scored{item: it, tiebreak: n.float64()})
		default:
			it.PutLabel("rank_tier", utils.Label{Value: TierOther, Source: "rank"})
			others = append(others, it)
		}
	}

	sort.Slice(affinity, func(i, j int) bool {
		if affinity[i].item.Score != affinity[j].item.Score {
			return affinity[i].item.Score > affinity[j].item.Score
		}
		return affinity[i].tiebreak > affinity[j].tiebreak
	})
	n.shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

	out := make([]*core.Item, 0, len(favorites)+len(affinity)+len(others))
	out = append(out, favorites...)
	for _, s := range affinity {
		out = append(out, s.item)
	}
	out = append(out, others...)
	return out, nil
}

func hasName(set map[string]struct{}, it *core.Item) bool {
	_, ok := set[it.Name()]
	return ok
}

func (n *PreferenceNode) float64() float64 {
	if n.Rand != nil {
		return n.Rand.Float64()
	}
	return rand.Float64()
}

func (n *PreferenceNode) shuffle(size int, swap func(i, j int)) {
	if n.Rand != nil {
		n.Rand.Shuffle(size, swap)
		return
	}
	rand.Shuffle(size, swap)
}
