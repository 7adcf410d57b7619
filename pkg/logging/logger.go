// Package logging 基于 zap 构建结构化日志，文件输出通过 lumberjack 轮转。
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 是日志配置。
type Config struct {
	// Level 最低日志级别：debug / info / warn / error
	Level string `yaml:"level"`

	// Format 输出格式：json（默认）或 console
	Format string `yaml:"format"`

	// Path 日志文件路径；为空时输出到 stderr
	Path string `yaml:"path"`

	// MaxSize 单个文件最大尺寸（MB），超过后轮转
	MaxSize int `yaml:"max_size"`

	// MaxBackups 保留的旧文件数量
	MaxBackups int `yaml:"max_backups"`

	// MaxAge 旧文件保留天数
	MaxAge int `yaml:"max_age"`

	// Compress 是否压缩轮转后的文件
	Compress bool `yaml:"compress"`
}

// DefaultConfig 返回默认配置：info 级别，JSON 格式，输出到 stderr。
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "json",
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     30,
		Compress:   true,
	}
}

// New 按配置创建 zap.Logger。
func New(cfg Config) (*zap.Logger, error) {
	var sink io.Writer = os.Stderr
	if cfg.Path != "" {
		sink = &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
	}
	return NewWithWriter(cfg, sink)
}

// NewWithWriter 与 New 相同，但写入指定的 io.Writer（测试用）。
func NewWithWriter(cfg Config, w io.Writer) (*zap.Logger, error) {
	levelText := cfg.Level
	if levelText == "" {
		levelText = "info"
	}
	level, err := zapcore.ParseLevel(levelText)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", cfg.Level, err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "", "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("invalid log format %s", cfg.Format)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
