package filter

import "github.com/rushteam/cocktailkit/pkg/conv"

// 工具调用参数名
const (
	ArgExcludeNames       = "excluded_cocktail_names"
	ArgIngredients        = "ingredients"
	ArgExcludeIngredients = "excluded_ingredients"
	ArgCategories         = "categories"
	ArgExcludeCategories  = "excluded_categories"
	ArgAlcoholContent     = "alcohol_content"
	ArgExprs              = "exprs"
	ArgLimit              = "limit"
)

// RequestFromArgs 从 JSON 解码后的工具调用参数构建 Request，缺失或类型不符的字段视为未提供。
func RequestFromArgs(args map[string]any) Request {
	return Request{
		ExcludeNames:       conv.SliceAnyToString(args[ArgExcludeNames]),
		Ingredients:        conv.SliceAnyToString(args[ArgIngredients]),
		ExcludeIngredients: conv.SliceAnyToString(args[ArgExcludeIngredients]),
		Categories:         conv.SliceAnyToString(args[ArgCategories]),
		ExcludeCategories:  conv.SliceAnyToString(args[ArgExcludeCategories]),
		AlcoholContent:     conv.ConfigGet(args, ArgAlcoholContent, ""),
		Exprs:              conv.SliceAnyToString(args[ArgExprs]),
	}
}

// LimitFromArgs 读取 limit 参数，缺失时返回 0（使用默认数量）。
func LimitFromArgs(args map[string]any) int {
	return conv.ConfigGetInt(args, ArgLimit, 0)
}
