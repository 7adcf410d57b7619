// Package cli 实现 cocktailkit 命令行：推荐、相似推荐、详情查询、偏好读写与目录导入。
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rushteam/cocktailkit/config"
	"github.com/rushteam/cocktailkit/pkg/conv"
	"github.com/rushteam/cocktailkit/pkg/logging"
	"github.com/rushteam/cocktailkit/service"
)

type app struct {
	configPath string
	envFile    string
	user       string

	stdout io.Writer
	stderr io.Writer
}

// NewRootCommand 创建根命令，输出到标准输出。
func NewRootCommand() *cobra.Command {
	return newRootCommand(os.Stdout, os.Stderr)
}

// NewRootCommandWithIO 创建根命令并指定输出（测试用）。
func NewRootCommandWithIO(out, errOut io.Writer) *cobra.Command {
	return newRootCommand(out, errOut)
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{stdout: out, stderr: errOut}

	cmd := &cobra.Command{
		Use:           "cocktailkit",
		Short:         "Cocktail recommendations driven by user preferences",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to the YAML config file (default: in-memory store)")
	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the config")
	cmd.PersistentFlags().StringVarP(&a.user, "user", "u", "", "numeric user id")

	cmd.AddCommand(
		newRecommendCmd(a),
		newSimilarCmd(a),
		newInfoCmd(a),
		newPrefsCmd(a),
		newMigrateCmd(a),
		newImportCmd(a),
	)
	return cmd
}

func (a *app) loadConfig() (*config.Config, error) {
	if err := config.LoadEnv(a.envFile); err != nil {
		return nil, err
	}
	if a.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(a.configPath)
}

// session 是一次命令执行期间打开的资源。
type session struct {
	cfg         *config.Config
	stores      *config.Stores
	logger      *zap.Logger
	recommender *service.Recommender
}

func (s *session) Close() error {
	_ = s.logger.Sync()
	return s.stores.Close()
}

func (a *app) open(ctx context.Context) (*session, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	stores, err := config.BuildStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rec, err := service.New(stores.Cocktails, stores.Preferences,
		service.WithLogger(logger),
		service.WithConfig(cfg.Recommend),
		service.WithExprs(cfg.Recommend.Exprs...),
	)
	if err != nil {
		_ = stores.Close()
		return nil, err
	}
	return &session{cfg: cfg, stores: stores, logger: logger, recommender: rec}, nil
}

func (a *app) userID() (int64, error) {
	return conv.ParseUserID(a.user)
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
