// Package config 加载 cocktailkit 的运行配置（YAML），并负责按配置构建存储。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/pkg/logging"
)

// Config 是完整的运行配置。
//
// 示例：
//
//	database:
//	  driver: postgres
//	  dsn: ${DATABASE_URL}
//	redis:
//	  addr: localhost:6379
//	log:
//	  level: debug
//	recommend:
//	  default_limit: 3
//	  exprs:
//	    - 'cocktail.glass != "punch bowl"'
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Log       logging.Config  `yaml:"log"`
	Recommend RecommendConfig `yaml:"recommend"`
}

// DatabaseConfig 是目录（以及未配置 Redis 时的偏好）存储配置。
type DatabaseConfig struct {
	// Driver: postgres / sqlite / memory
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`

	// Migrate 为 true 时启动即建表
	Migrate bool `yaml:"migrate"`
}

// RedisConfig 配置后偏好记录存放在 Redis，Addr 为空表示不使用。
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// RecommendConfig 是推荐默认值，实现 core.RecommendConfig。
type RecommendConfig struct {
	Limit        int      `yaml:"default_limit"`
	SimilarLimit int      `yaml:"similar_limit"`
	HistoryLimit int      `yaml:"history_limit"`
	Exprs        []string `yaml:"exprs"`
}

var _ core.RecommendConfig = RecommendConfig{}

func (c RecommendConfig) DefaultLimit() int        { return orDefault(c.Limit, 3) }
func (c RecommendConfig) DefaultSimilarLimit() int { return orDefault(c.SimilarLimit, 3) }
func (c RecommendConfig) MessageHistoryLimit() int { return orDefault(c.HistoryLimit, 5) }

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Default 返回可直接运行的默认配置：内存存储，info 日志输出到 stderr。
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: DriverMemory},
		Log:      logging.DefaultConfig(),
		Recommend: RecommendConfig{
			Limit:        3,
			SimilarLimit: 3,
			HistoryLimit: 5,
		},
	}
}

// LoadEnv 加载 .env 文件到进程环境（已存在的变量不覆盖）。文件不存在时忽略。
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env %s: %w", p, err)
		}
	}
	return nil
}

// Load 从 YAML 文件加载配置。文件中的 ${VAR} 会先按环境变量展开，
// 未出现的字段保留 Default 的值。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(data)
}

// Parse 解析 YAML 内容，规则同 Load。
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验驱动是否已注册、DSN 是否必填、数值是否非负。
func (c *Config) Validate() error {
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMemory
	}
	if !IsRegistered(c.Database.Driver) {
		return core.InvalidInput(core.ModuleConfig,
			fmt.Sprintf("unsupported database driver %q (supported: %v)", c.Database.Driver, SupportedDrivers()), nil)
	}
	if c.Database.Driver != DriverMemory && c.Database.DSN == "" {
		return core.InvalidInput(core.ModuleConfig, "database.dsn is required for driver "+c.Database.Driver, nil)
	}
	if c.Recommend.Limit < 0 || c.Recommend.SimilarLimit < 0 || c.Recommend.HistoryLimit < 0 {
		return core.InvalidInput(core.ModuleConfig, "recommend limits must not be negative", nil)
	}
	return nil
}
