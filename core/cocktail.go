package core

// AlcoholClass 是鸡尾酒的酒精分类（全部小写存储）。
type AlcoholClass string

const (
	Alcoholic       AlcoholClass = "alcoholic"
	NonAlcoholic    AlcoholClass = "non alcoholic"
	OptionalAlcohol AlcoholClass = "optional alcohol"
)

// Cocktail 是目录中的一款鸡尾酒。
// Name 为首字母大写形式（展示/查找统一使用），Category 为小写。
// 配料随鸡尾酒一起加载；删除鸡尾酒时配料级联删除。
type Cocktail struct {
	ID          int64        `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Alcoholic   AlcoholClass `json:"alcoholic" db:"alcoholic"`
	Category    string       `json:"category" db:"category"`
	GlassType   string       `json:"glass_type" db:"glass_type"`
	Instruction string       `json:"instruction" db:"instruction"`
	Thumbnail   string       `json:"drink_thumbnail" db:"drink_thumbnail"`

	Ingredients []Ingredient `json:"ingredients" db:"-"`
}

// Ingredient 是某款鸡尾酒的一条配料记录。
// 同名配料可以出现在不同鸡尾酒中，不存在跨鸡尾酒的配料实体。
type Ingredient struct {
	ID         int64  `json:"id" db:"id"`
	CocktailID int64  `json:"cocktail_id" db:"cocktail_id"`
	Name       string `json:"ingredient" db:"ingredient"`
	Measure    string `json:"measure,omitempty" db:"measure"`
}

// IngredientSet 返回配料名集合（重复配料只计一次）。
func (c *Cocktail) IngredientSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Ingredients))
	for _, ing := range c.Ingredients {
		set[ing.Name] = struct{}{}
	}
	return set
}

// CategorySet 返回类别集合。目前每款鸡尾酒只有一个类别，空类别返回空集合。
func (c *Cocktail) CategorySet() map[string]struct{} {
	set := make(map[string]struct{}, 1)
	if c.Category != "" {
		set[c.Category] = struct{}{}
	}
	return set
}

// IngredientNames 按记录顺序返回配料名。
func (c *Cocktail) IngredientNames() []string {
	names := make([]string, 0, len(c.Ingredients))
	for _, ing := range c.Ingredients {
		names = append(names, ing.Name)
	}
	return names
}

// HasIngredient 判断是否包含某配料。
func (c *Cocktail) HasIngredient(name string) bool {
	for _, ing := range c.Ingredients {
		if ing.Name == name {
			return true
		}
	}
	return false
}
