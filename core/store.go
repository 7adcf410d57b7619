package core

import "context"

// CocktailStore 是鸡尾酒目录的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 目录数据由一次性导入生成，对核心来说只读
//
// 返回的 Cocktail 都已嵌入 Ingredients。
//
// 实现：
//   - store.MemoryStore（测试/开发）
//   - store.SQLStore（Postgres / SQLite）
type CocktailStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// ListCocktails 返回全部鸡尾酒（候选池的来源），顺序为存储顺序
	ListCocktails(ctx context.Context) ([]*Cocktail, error)

	// GetCocktailsByNames 按名称集合查询鸡尾酒，names 需已规范化；不存在的名称直接忽略
	GetCocktailsByNames(ctx context.Context, names []string) ([]*Cocktail, error)

	// GetIngredients 按鸡尾酒 ID 查询配料记录
	GetIngredients(ctx context.Context, cocktailID int64) ([]Ingredient, error)
}

// PreferenceStore 是用户偏好记录的领域接口。
//
// UpdateUserData 必须是单次原子的读-改-写：
//   - 记录不存在时先以 NewUserData 懒创建，再交给 fn 修改
//   - fn 返回错误时不写入
//   - 同一用户的并发调用以“最后写入为准”，不提供更强的隔离
type PreferenceStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// GetUserData 读取用户记录；不存在时返回 ErrStoreNotFound
	GetUserData(ctx context.Context, userID int64) (*UserData, error)

	// UpdateUserData 原子地读取、修改并持久化用户记录
	UpdateUserData(ctx context.Context, userID int64, fn func(*UserData) error) error
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示记录不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: record not found")

	// ErrStoreNotSupported 表示操作不支持
	ErrStoreNotSupported = NewDomainError(ModuleStore, ErrorCodeNotSupported, "store: operation not supported")
)

// IsStoreNotFound 检查错误是否为记录不存在（使用统一的错误检查）
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsStoreNotSupported 检查错误是否为操作不支持（使用统一的错误检查）
func IsStoreNotSupported(err error) bool {
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}
