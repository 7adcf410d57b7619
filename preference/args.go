package preference

import "github.com/rushteam/cocktailkit/pkg/conv"

// UpdateFromArgs 从 JSON 解码后的工具调用参数构建 Update（键名与存储记录一致）。
func UpdateFromArgs(args map[string]any) Update {
	return Update{
		LikedCocktails:      conv.SliceAnyToString(args["liked_cocktails"]),
		DislikedCocktails:   conv.SliceAnyToString(args["disliked_cocktails"]),
		LikedIngredients:    conv.SliceAnyToString(args["liked_ingredients"]),
		DislikedIngredients: conv.SliceAnyToString(args["disliked_ingredients"]),
	}
}
