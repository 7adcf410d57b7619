// Package conv 提供边界参数解析与 any 类型转换工具，用于解析工具调用参数（JSON 解码后的 map[string]any）。
package conv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rushteam/cocktailkit/core"
)

// ParseUserID 解析边界传入的用户 ID（如请求头 X-User-ID、CLI 参数）。
// 空值或非数字返回 INVALID_INPUT。
func ParseUserID(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, core.InvalidInput(core.ModuleService, "user id is required", nil)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, core.InvalidInput(core.ModuleService, fmt.Sprintf("user id %q is not numeric", raw), err)
	}
	return id, nil
}

// ToFloat64 将 any 转为 float64。
// 支持 float64、float32、int、int64、int32。
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	default:
		return 0, false
	}
}

// ToInt 将 any 转为 int。
// 支持 int、int64、int32、float64、float32（JSON 数字解码后为 float64）。
func ToInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case int32:
		return int(val), true
	case float64:
		return int(val), true
	case float32:
		return int(val), true
	default:
		return 0, false
	}
}

// ConvertSlice 将 []T 按 convert 转为 []U，convert 返回 false 的元素被跳过。
func ConvertSlice[T, U any](s []T, convert func(T) (U, bool)) []U {
	if s == nil {
		return nil
	}
	out := make([]U, 0, len(s))
	for _, v := range s {
		if u, ok := convert(v); ok {
			out = append(out, u)
		}
	}
	return out
}

// SliceAnyToString 将 []any 或 []string 转为 []string。
// 元素为 string 直接保留，为数字时格式化为 "%.0f"，其他类型跳过。
func SliceAnyToString(v any) []string {
	switch raw := v.(type) {
	case []string:
		return raw
	case []any:
		return ConvertSlice(raw, func(e any) (string, bool) {
			if s, ok := e.(string); ok {
				return s, true
			}
			if f, ok := ToFloat64(e); ok {
				return fmt.Sprintf("%.0f", f), true
			}
			return "", false
		})
	default:
		return nil
	}
}

// ConfigGet 从 map[string]any 按 key 取 T，取不到或类型不符时返回 defaultVal。
func ConfigGet[T any](m map[string]any, key string, defaultVal T) T {
	if m == nil {
		return defaultVal
	}
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	t, ok := v.(T)
	if !ok {
		return defaultVal
	}
	return t
}

// ConfigGetInt 从 map 取 int。JSON 常得到 float64，此处兼容。
func ConfigGetInt(m map[string]any, key string, defaultVal int) int {
	if m == nil {
		return defaultVal
	}
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	if i, ok := ToInt(v); ok {
		return i
	}
	return defaultVal
}
