package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CapWords 把每个单词首字母大写、其余字母小写，并把连续空白折叠为单个空格。
// 例如 "  old   FASHIONED " -> "Old Fashioned"。
func CapWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// NormalizeCocktailName 鸡尾酒名称：去首尾空白 + 每个单词首字母大写。
func NormalizeCocktailName(name string) string {
	return CapWords(strings.TrimSpace(name))
}

// NormalizeTerm 配料/类别/酒精分类：去首尾空白 + 小写。
func NormalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeCocktailNames 批量规范化鸡尾酒名称，丢弃空值并去重（保持首次出现的顺序）。
func NormalizeCocktailNames(names []string) []string {
	return normalizeAll(names, NormalizeCocktailName)
}

// NormalizeTerms 批量规范化配料/类别，丢弃空值并去重（保持首次出现的顺序）。
func NormalizeTerms(terms []string) []string {
	return normalizeAll(terms, NormalizeTerm)
}

func normalizeAll(in []string, fn func(string) string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		n := fn(s)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// StringSet 把切片转换为集合。
func StringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
