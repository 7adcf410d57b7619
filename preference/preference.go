// Package preference 实现用户偏好记录的合并规则。
//
// 偏好记录包含四个集合：喜欢/不喜欢的鸡尾酒、喜欢/不喜欢的配料。
// 合并规则保证同一领域内 liked ∩ disliked = ∅，并且对重复的同一更新幂等。
// 持久化由 core.PreferenceStore 完成，本包只做纯计算。
package preference

import (
	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/pkg/utils"
)

// Update 是一次偏好更新的输入，四个字段均可为空。
type Update struct {
	LikedCocktails      []string `json:"liked_cocktails,omitempty" yaml:"liked_cocktails"`
	DislikedCocktails   []string `json:"disliked_cocktails,omitempty" yaml:"disliked_cocktails"`
	LikedIngredients    []string `json:"liked_ingredients,omitempty" yaml:"liked_ingredients"`
	DislikedIngredients []string `json:"disliked_ingredients,omitempty" yaml:"disliked_ingredients"`
}

// IsEmpty 判断更新是否不包含任何条目（规范化后）。
func (u Update) IsEmpty() bool {
	return len(utils.NormalizeCocktailNames(u.LikedCocktails)) == 0 &&
		len(utils.NormalizeCocktailNames(u.DislikedCocktails)) == 0 &&
		len(utils.NormalizeTerms(u.LikedIngredients)) == 0 &&
		len(utils.NormalizeTerms(u.DislikedIngredients)) == 0
}

// Apply 把更新合并进当前偏好并返回新的偏好，不修改入参。
//
// 每个领域的规则：
//   - 规范化输入（名称 capwords，配料小写），丢弃空值与重复
//   - 更新内部冲突：newLiked -= newDisliked，再 newDisliked -= newLiked
//   - liked' = (liked ∪ newLiked) − newDisliked
//   - disliked' = (disliked ∪ newDisliked) − newLiked − liked'
//
// 已有条目保持原顺序，新条目按输入顺序追加。
func Apply(current core.Preferences, upd Update) core.Preferences {
	cur := Normalize(current)

	likedC, dislikedC := merge(
		cur.LikedCocktails, cur.DislikedCocktails,
		utils.NormalizeCocktailNames(upd.LikedCocktails),
		utils.NormalizeCocktailNames(upd.DislikedCocktails),
	)
	likedI, dislikedI := merge(
		cur.LikedIngredients, cur.DislikedIngredients,
		utils.NormalizeTerms(upd.LikedIngredients),
		utils.NormalizeTerms(upd.DislikedIngredients),
	)

	return core.Preferences{
		LikedCocktails:      likedC,
		DislikedCocktails:   dislikedC,
		LikedIngredients:    likedI,
		DislikedIngredients: dislikedI,
	}
}

// Normalize 返回规范化后的偏好视图：四个字段非 nil，已规范化、去重且互不相交。
// 存储中的记录若出现冲突，以喜欢集合为准。
func Normalize(p core.Preferences) core.Preferences {
	likedC := utils.NormalizeCocktailNames(p.LikedCocktails)
	likedI := utils.NormalizeTerms(p.LikedIngredients)
	return core.Preferences{
		LikedCocktails:      likedC,
		DislikedCocktails:   subtract(utils.NormalizeCocktailNames(p.DislikedCocktails), likedC),
		LikedIngredients:    likedI,
		DislikedIngredients: subtract(utils.NormalizeTerms(p.DislikedIngredients), likedI),
	}
}

// Clear 返回空偏好。
func Clear() core.Preferences {
	return core.NewPreferences()
}

func merge(liked, disliked, newLiked, newDisliked []string) ([]string, []string) {
	newLiked = subtract(newLiked, newDisliked)
	newDisliked = subtract(newDisliked, newLiked)

	outLiked := subtract(union(liked, newLiked), newDisliked)
	outDisliked := subtract(subtract(union(disliked, newDisliked), newLiked), outLiked)
	return outLiked, outDisliked
}

// union 保持 a 的顺序，并按顺序追加 b 中未出现的元素。
func union(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func subtract(a, b []string) []string {
	out := make([]string, 0, len(a))
	if len(b) == 0 {
		return append(out, a...)
	}
	drop := utils.StringSet(b)
	for _, s := range a {
		if _, ok := drop[s]; ok {
			continue
		}
		out = append(out, s)
	}
	return out
}
