package store

import (
	"context"
	"sync"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/pkg/utils"
)

// MemoryStore 是内存实现的 CocktailStore + PreferenceStore，用于测试/开发/原型。
// 进程重启后数据丢失。读写都返回副本，调用方修改结果不会影响存储内容。
type MemoryStore struct {
	mu        sync.RWMutex
	cocktails []*core.Cocktail
	byName    map[string]int
	users     map[int64]*core.UserData
	nextID    int64
}

var (
	_ core.CocktailStore   = (*MemoryStore)(nil)
	_ core.PreferenceStore = (*MemoryStore)(nil)
	_ CatalogWriter        = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byName: make(map[string]int),
		users:  make(map[int64]*core.UserData),
	}
}

func (m *MemoryStore) Name() string { return "memory" }

// AddCocktails 写入鸡尾酒目录（导入用）。名称会被规范化，类别与配料转为小写；
// 同名鸡尾酒覆盖旧记录。ID 为 0 时自动分配。
func (m *MemoryStore) AddCocktails(cocktails ...*core.Cocktail) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range cocktails {
		if c == nil {
			continue
		}
		cp := normalizeCocktail(c)
		if cp.ID == 0 {
			m.nextID++
			cp.ID = m.nextID
		} else if cp.ID > m.nextID {
			m.nextID = cp.ID
		}
		for i := range cp.Ingredients {
			cp.Ingredients[i].CocktailID = cp.ID
		}

		if idx, ok := m.byName[cp.Name]; ok {
			m.cocktails[idx] = cp
			continue
		}
		m.byName[cp.Name] = len(m.cocktails)
		m.cocktails = append(m.cocktails, cp)
	}
}

// SaveCocktails 与 AddCocktails 相同，实现 CatalogWriter。
func (m *MemoryStore) SaveCocktails(ctx context.Context, cocktails ...*core.Cocktail) error {
	if err := ctx.Err(); err != nil {
		return core.Unavailable(core.ModuleStore, "memory: save cocktails", err)
	}
	m.AddCocktails(cocktails...)
	return nil
}

func (m *MemoryStore) ListCocktails(ctx context.Context) ([]*core.Cocktail, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.Unavailable(core.ModuleStore, "memory: list cocktails", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.Cocktail, 0, len(m.cocktails))
	for _, c := range m.cocktails {
		out = append(out, cloneCocktail(c))
	}
	return out, nil
}

func (m *MemoryStore) GetCocktailsByNames(ctx context.Context, names []string) ([]*core.Cocktail, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.Unavailable(core.ModuleStore, "memory: get cocktails", err)
	}
	want := utils.StringSet(names)

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.Cocktail, 0, len(want))
	for _, c := range m.cocktails {
		if _, ok := want[c.Name]; ok {
			out = append(out, cloneCocktail(c))
		}
	}
	return out, nil
}

func (m *MemoryStore) GetIngredients(ctx context.Context, cocktailID int64) ([]core.Ingredient, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.Unavailable(core.ModuleStore, "memory: get ingredients", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.cocktails {
		if c.ID == cocktailID {
			return append([]core.Ingredient{}, c.Ingredients...), nil
		}
	}
	return []core.Ingredient{}, nil
}

func (m *MemoryStore) GetUserData(ctx context.Context, userID int64) (*core.UserData, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.Unavailable(core.ModuleStore, "memory: get user data", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	ud, ok := m.users[userID]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return cloneUserData(ud), nil
}

func (m *MemoryStore) UpdateUserData(ctx context.Context, userID int64, fn func(*core.UserData) error) error {
	if err := ctx.Err(); err != nil {
		return core.Unavailable(core.ModuleStore, "memory: update user data", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ud, ok := m.users[userID]
	if ok {
		ud = cloneUserData(ud)
	} else {
		ud = core.NewUserData(userID)
	}
	if err := fn(ud); err != nil {
		return err
	}
	ud.UserID = userID
	m.users[userID] = ud
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

func normalizeCocktail(c *core.Cocktail) *core.Cocktail {
	cp := cloneCocktail(c)
	cp.Name = utils.NormalizeCocktailName(cp.Name)
	cp.Category = utils.NormalizeTerm(cp.Category)
	cp.Alcoholic = core.AlcoholClass(utils.NormalizeTerm(string(cp.Alcoholic)))
	for i := range cp.Ingredients {
		cp.Ingredients[i].Name = utils.NormalizeTerm(cp.Ingredients[i].Name)
	}
	return cp
}

func cloneCocktail(c *core.Cocktail) *core.Cocktail {
	cp := *c
	cp.Ingredients = append([]core.Ingredient{}, c.Ingredients...)
	return &cp
}

func cloneUserData(ud *core.UserData) *core.UserData {
	cp := &core.UserData{
		UserID: ud.UserID,
		Preferences: core.Preferences{
			LikedCocktails:      append([]string{}, ud.Preferences.LikedCocktails...),
			DislikedCocktails:   append([]string{}, ud.Preferences.DislikedCocktails...),
			LikedIngredients:    append([]string{}, ud.Preferences.LikedIngredients...),
			DislikedIngredients: append([]string{}, ud.Preferences.DislikedIngredients...),
		},
		MessageHistory: append([]core.MessagePair{}, ud.MessageHistory...),
	}
	return cp
}
