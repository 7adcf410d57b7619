package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/cocktailkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("cocktail", cel.DynType),
		cel.Variable("prefs", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译好的鸡尾酒规则表达式，使用 CEL (Common Expression Language) 实现。
// 编译一次后可并发多次求值。
//
// 可用变量：
//   - cocktail.id / cocktail.name / cocktail.category / cocktail.alcoholic / cocktail.glass
//   - cocktail.ingredients（配料名列表）
//   - prefs.liked_cocktails / prefs.disliked_cocktails / prefs.liked_ingredients / prefs.disliked_ingredients
//
// 示例：
//   - `cocktail.glass != "punch bowl"`
//   - `"rum" in cocktail.ingredients && cocktail.category == "ordinary drink"`
//   - `cocktail.ingredients.exists(i, i in prefs.liked_ingredients)`
//   - `size(cocktail.ingredients) <= 4`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 解析并检查表达式。表达式必须返回布尔值。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string {
	return p.expr
}

// Match 对一款鸡尾酒求值。
func (p *Program) Match(c *core.Cocktail, prefs core.Preferences) (bool, error) {
	out, _, err := p.prg.Eval(map[string]any{
		"cocktail": cocktailInput(c),
		"prefs":    prefsInput(prefs),
	})
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must return boolean, got %T", p.expr, out.Value())
	}
	return result, nil
}

func cocktailInput(c *core.Cocktail) map[string]any {
	return map[string]any{
		"id":          c.ID,
		"name":        c.Name,
		"category":    c.Category,
		"alcoholic":   string(c.Alcoholic),
		"glass":       c.GlassType,
		"instruction": c.Instruction,
		"ingredients": c.IngredientNames(),
	}
}

func prefsInput(p core.Preferences) map[string]any {
	p.EnsureDefaults()
	return map[string]any{
		"liked_cocktails":      p.LikedCocktails,
		"disliked_cocktails":   p.DislikedCocktails,
		"liked_ingredients":    p.LikedIngredients,
		"disliked_ingredients": p.DislikedIngredients,
	}
}
