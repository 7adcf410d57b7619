package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/rushteam/cocktailkit/core"
)

// 支持的 SQL 驱动名
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

//go:embed schema/*.sql
var schemaFS embed.FS

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// SQLStore 是基于 sqlx 的 CocktailStore + PreferenceStore 实现，支持 Postgres 与 SQLite。
//
// 表结构：
//   - cocktails / cocktail_ingredients：鸡尾酒目录，配料随鸡尾酒级联删除
//   - user_data：每个用户一行，preferences 与 message_history 以 JSON 存储（Postgres 为 JSONB）
//
// 所有查询失败都包装为 UNAVAILABLE，不做重试。
type SQLStore struct {
	db     *sqlx.DB
	driver string
}

var (
	_ core.CocktailStore   = (*SQLStore)(nil)
	_ core.PreferenceStore = (*SQLStore)(nil)
)

// SQLOptions 是连接池参数，零值使用 database/sql 默认值。
type SQLOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewSQLStore 打开数据库连接并 Ping 一次。
// SQLite 固定为单连接，保证偏好读-改-写事务串行执行。
func NewSQLStore(ctx context.Context, driver, dsn string, opts SQLOptions) (*SQLStore, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, core.InvalidInput(core.ModuleStore, fmt.Sprintf("sql: unsupported driver %q", driver), nil)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, core.Unavailable(core.ModuleStore, "sql: open", err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	} else if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, core.Unavailable(core.ModuleStore, "sql: ping", err)
	}

	if driver == DriverSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, core.Unavailable(core.ModuleStore, "sql: enable foreign keys", err)
		}
	}

	return &SQLStore{db: db, driver: driver}, nil
}

func (s *SQLStore) Name() string { return "sql:" + s.driver }

// Migrate 创建表结构（幂等）。
func (s *SQLStore) Migrate(ctx context.Context) error {
	schema, err := schemaFS.ReadFile("schema/" + s.driver + ".sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	for _, stmt := range strings.Split(string(schema), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return core.Unavailable(core.ModuleStore, "sql: migrate", err)
		}
	}
	return nil
}

// SaveCocktails 按名称 upsert 鸡尾酒并整体替换其配料（导入用）。
// 名称会被规范化，类别、酒精分类与配料转为小写。
func (s *SQLStore) SaveCocktails(ctx context.Context, cocktails ...*core.Cocktail) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return core.Unavailable(core.ModuleStore, "sql: begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsert := tx.Rebind(`
		INSERT INTO cocktails (name, alcoholic, category, glass_type, instruction, drink_thumbnail)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			alcoholic = excluded.alcoholic,
			category = excluded.category,
			glass_type = excluded.glass_type,
			instruction = excluded.instruction,
			drink_thumbnail = excluded.drink_thumbnail
		RETURNING id`)
	clearIngredients := tx.Rebind(`DELETE FROM cocktail_ingredients WHERE cocktail_id = ?`)
	insertIng := tx.Rebind(`INSERT INTO cocktail_ingredients (cocktail_id, ingredient, measure) VALUES (?, ?, ?)`)

	for _, c := range cocktails {
		if c == nil {
			continue
		}
		n := normalizeCocktail(c)
		if n.Name == "" {
			return core.InvalidInput(core.ModuleStore, "sql: cocktail name is empty", nil)
		}

		var id int64
		if err := tx.QueryRowxContext(ctx, upsert,
			n.Name, string(n.Alcoholic), n.Category, n.GlassType, n.Instruction, n.Thumbnail,
		).Scan(&id); err != nil {
			return core.Unavailable(core.ModuleStore, "sql: save cocktail "+n.Name, err)
		}
		if _, err := tx.ExecContext(ctx, clearIngredients, id); err != nil {
			return core.Unavailable(core.ModuleStore, "sql: clear ingredients", err)
		}
		for _, ing := range n.Ingredients {
			if ing.Name == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, insertIng, id, ing.Name, ing.Measure); err != nil {
				return core.Unavailable(core.ModuleStore, "sql: save ingredient", err)
			}
		}
		c.ID = id
	}

	if err := tx.Commit(); err != nil {
		return core.Unavailable(core.ModuleStore, "sql: commit", err)
	}
	return nil
}

const cocktailColumns = `id, name, alcoholic, category, glass_type, instruction, drink_thumbnail`

func (s *SQLStore) ListCocktails(ctx context.Context) ([]*core.Cocktail, error) {
	var cocktails []*core.Cocktail
	if err := s.db.SelectContext(ctx, &cocktails,
		`SELECT `+cocktailColumns+` FROM cocktails ORDER BY id`); err != nil {
		return nil, core.Unavailable(core.ModuleStore, "sql: list cocktails", err)
	}

	var ingredients []core.Ingredient
	if err := s.db.SelectContext(ctx, &ingredients,
		`SELECT id, cocktail_id, ingredient, measure FROM cocktail_ingredients ORDER BY cocktail_id, id`); err != nil {
		return nil, core.Unavailable(core.ModuleStore, "sql: list ingredients", err)
	}

	attachIngredients(cocktails, ingredients)
	return cocktails, nil
}

func (s *SQLStore) GetCocktailsByNames(ctx context.Context, names []string) ([]*core.Cocktail, error) {
	if len(names) == 0 {
		return []*core.Cocktail{}, nil
	}

	query, args, err := sqlx.In(`SELECT `+cocktailColumns+` FROM cocktails WHERE name IN (?) ORDER BY id`, names)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var cocktails []*core.Cocktail
	if err := s.db.SelectContext(ctx, &cocktails, s.db.Rebind(query), args...); err != nil {
		return nil, core.Unavailable(core.ModuleStore, "sql: get cocktails by names", err)
	}
	if len(cocktails) == 0 {
		return []*core.Cocktail{}, nil
	}

	ids := make([]int64, 0, len(cocktails))
	for _, c := range cocktails {
		ids = append(ids, c.ID)
	}
	query, args, err = sqlx.In(`SELECT id, cocktail_id, ingredient, measure FROM cocktail_ingredients WHERE cocktail_id IN (?) ORDER BY cocktail_id, id`, ids)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var ingredients []core.Ingredient
	if err := s.db.SelectContext(ctx, &ingredients, s.db.Rebind(query), args...); err != nil {
		return nil, core.Unavailable(core.ModuleStore, "sql: get ingredients", err)
	}

	attachIngredients(cocktails, ingredients)
	return cocktails, nil
}

func (s *SQLStore) GetIngredients(ctx context.Context, cocktailID int64) ([]core.Ingredient, error) {
	ingredients := []core.Ingredient{}
	if err := s.db.SelectContext(ctx, &ingredients, s.db.Rebind(
		`SELECT id, cocktail_id, ingredient, measure FROM cocktail_ingredients WHERE cocktail_id = ? ORDER BY id`),
		cocktailID); err != nil {
		return nil, core.Unavailable(core.ModuleStore, "sql: get ingredients", err)
	}
	return ingredients, nil
}

type userDataRow struct {
	UserID         int64  `db:"user_id"`
	Preferences    []byte `db:"preferences"`
	MessageHistory []byte `db:"message_history"`
}

func (s *SQLStore) GetUserData(ctx context.Context, userID int64) (*core.UserData, error) {
	var row userDataRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(
		`SELECT user_id, preferences, message_history FROM user_data WHERE user_id = ?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrStoreNotFound
	}
	if err != nil {
		return nil, core.Unavailable(core.ModuleStore, "sql: get user data", err)
	}
	return row.decode()
}

func (s *SQLStore) UpdateUserData(ctx context.Context, userID int64, fn func(*core.UserData) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return core.Unavailable(core.ModuleStore, "sql: begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `SELECT user_id, preferences, message_history FROM user_data WHERE user_id = ?`
	if s.driver == DriverPostgres {
		query += ` FOR UPDATE`
	}

	var row userDataRow
	ud := core.NewUserData(userID)
	err = tx.GetContext(ctx, &row, tx.Rebind(query), userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return core.Unavailable(core.ModuleStore, "sql: load user data", err)
	default:
		if ud, err = row.decode(); err != nil {
			return err
		}
	}

	if err := fn(ud); err != nil {
		return err
	}

	prefs, err := json.Marshal(ud.Preferences)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	history := ud.MessageHistory
	if history == nil {
		history = []core.MessagePair{}
	}
	hist, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode message history: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO user_data (user_id, preferences, message_history)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			preferences = excluded.preferences,
			message_history = excluded.message_history`),
		userID, string(prefs), string(hist)); err != nil {
		return core.Unavailable(core.ModuleStore, "sql: save user data", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Unavailable(core.ModuleStore, "sql: commit", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (r userDataRow) decode() (*core.UserData, error) {
	ud := core.NewUserData(r.UserID)
	if len(r.Preferences) > 0 {
		if err := json.Unmarshal(r.Preferences, &ud.Preferences); err != nil {
			return nil, core.Unavailable(core.ModuleStore, "decode preferences", err)
		}
	}
	if len(r.MessageHistory) > 0 {
		if err := json.Unmarshal(r.MessageHistory, &ud.MessageHistory); err != nil {
			return nil, core.Unavailable(core.ModuleStore, "decode message history", err)
		}
	}
	ud.Preferences.EnsureDefaults()
	if ud.MessageHistory == nil {
		ud.MessageHistory = []core.MessagePair{}
	}
	return ud, nil
}

func attachIngredients(cocktails []*core.Cocktail, ingredients []core.Ingredient) {
	byID := make(map[int64]*core.Cocktail, len(cocktails))
	for _, c := range cocktails {
		c.Ingredients = []core.Ingredient{}
		byID[c.ID] = c
	}
	for _, ing := range ingredients {
		if c, ok := byID[ing.CocktailID]; ok {
			c.Ingredients = append(c.Ingredients, ing)
		}
	}
}
