// Package service 组装推荐核心：偏好模型、过滤、排序与相似度重排。
//
// Recommender 是对外的唯一入口，存储通过构造参数注入，不使用全局状态。
package service

import (
	"context"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/filter"
	"github.com/rushteam/cocktailkit/pipeline"
	"github.com/rushteam/cocktailkit/pkg/dsl"
	"github.com/rushteam/cocktailkit/pkg/utils"
	"github.com/rushteam/cocktailkit/preference"
	"github.com/rushteam/cocktailkit/rank"
	"github.com/rushteam/cocktailkit/recall"
	"github.com/rushteam/cocktailkit/rerank"
)

// Recommender 提供推荐、相似推荐与偏好读写。并发安全。
type Recommender struct {
	cocktails core.CocktailStore
	prefs     core.PreferenceStore
	config    core.RecommendConfig
	exprs     []string
	logger    *zap.Logger
	newRand   func() *rand.Rand
}

// Option 配置 Recommender。
type Option func(*Recommender)

// WithLogger 设置日志（默认 zap.NewNop）。
func WithLogger(logger *zap.Logger) Option {
	return func(r *Recommender) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithConfig 设置默认数量与对话历史长度。
func WithConfig(cfg core.RecommendConfig) Option {
	return func(r *Recommender) {
		if cfg != nil {
			r.config = cfg
		}
	}
}

// WithExprs 设置对所有推荐生效的 CEL 规则（例如运营下架规则）。
func WithExprs(exprs ...string) Option {
	return func(r *Recommender) {
		r.exprs = append(r.exprs, exprs...)
	}
}

// WithRand 设置随机源工厂，每次推荐调用获取一个新实例。
// 返回的 *rand.Rand 只在单次调用内使用。不设置时使用全局随机源。
func WithRand(newRand func() *rand.Rand) Option {
	return func(r *Recommender) {
		r.newRand = newRand
	}
}

// New 创建 Recommender。全局 CEL 规则在此编译校验，非法时返回 INVALID_INPUT。
func New(cocktails core.CocktailStore, prefs core.PreferenceStore, opts ...Option) (*Recommender, error) {
	if cocktails == nil {
		return nil, core.InvalidInput(core.ModuleService, "cocktail store is required", nil)
	}
	if prefs == nil {
		return nil, core.InvalidInput(core.ModuleService, "preference store is required", nil)
	}

	r := &Recommender{
		cocktails: cocktails,
		prefs:     prefs,
		config:    &core.DefaultRecommendConfig{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, expr := range r.exprs {
		if _, err := dsl.Compile(expr); err != nil {
			return nil, core.InvalidInput(core.ModuleService, "invalid rule", err)
		}
	}
	return r, nil
}

// GetRecommendations 返回按偏好排序的推荐结果。
// limit 为 0 时使用默认数量，负数返回 INVALID_INPUT。
func (r *Recommender) GetRecommendations(ctx context.Context, userID int64, req filter.Request, limit int) ([]*core.Cocktail, error) {
	limit, err := r.resolveLimit(limit, r.config.DefaultLimit())
	if err != nil {
		return nil, err
	}

	rctx, err := r.newContext(ctx, userID)
	if err != nil {
		return nil, err
	}
	logger := r.logger.With(zap.String("request_id", rctx.RequestID), zap.Int64("user_id", userID))

	filters, err := filter.Build(r.withRules(req), rctx.Preferences)
	if err != nil {
		return nil, err
	}

	p := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.Catalog{Store: r.cocktails},
			&filter.Node{Filters: filters},
			&rank.PreferenceNode{Rand: r.randSource()},
			&rerank.TopNNode{N: limit},
		},
		Hooks: []pipeline.Hook{r.traceHook(logger)},
	}
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		logger.Warn("recommend failed", zap.Error(err))
		return nil, err
	}

	logger.Debug("recommend", zap.Int("limit", limit), zap.Int("results", len(items)))
	return core.CocktailsFromItems(items), nil
}

// GetSimilar 返回与参考鸡尾酒最相似的候选，结果不包含参考本身。
// 候选先按用户偏好排序，相似度相同时保持偏好顺序。
// 参考名称全部无法解析时返回空结果。
func (r *Recommender) GetSimilar(ctx context.Context, userID int64, references []string, req filter.Request, limit int) ([]*core.Cocktail, error) {
	limit, err := r.resolveLimit(limit, r.config.DefaultSimilarLimit())
	if err != nil {
		return nil, err
	}

	names := utils.NormalizeCocktailNames(references)
	if len(names) == 0 {
		return []*core.Cocktail{}, nil
	}

	rctx := core.NewRecommendContext(userID)
	rctx.RequestID = uuid.NewString()
	logger := r.logger.With(zap.String("request_id", rctx.RequestID), zap.Int64("user_id", userID))

	var refs []*core.Cocktail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := (&recall.ByName{Store: r.cocktails, Names: names}).Recall(gctx, rctx)
		if err != nil {
			return err
		}
		refs = core.CocktailsFromItems(items)
		return nil
	})
	g.Go(func() error {
		prefs, err := r.loadPreferences(gctx, userID)
		if err != nil {
			return err
		}
		rctx.Preferences = prefs
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Warn("similar: load failed", zap.Error(err))
		return nil, err
	}

	if len(refs) == 0 {
		logger.Debug("similar: no reference resolved", zap.Strings("references", names))
		return []*core.Cocktail{}, nil
	}

	refNames := make([]string, 0, len(refs))
	for _, c := range refs {
		refNames = append(refNames, c.Name)
	}
	rctx.Params["references"] = refNames

	filters, err := filter.Build(r.withRules(req).WithExcludedNames(refNames...), rctx.Preferences)
	if err != nil {
		return nil, err
	}

	p := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.Catalog{Store: r.cocktails},
			&filter.Node{Filters: filters},
			&rank.PreferenceNode{Rand: r.randSource()},
			&rerank.SimilarityNode{References: refs},
			&rerank.TopNNode{N: limit},
		},
		Hooks: []pipeline.Hook{r.traceHook(logger)},
	}
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		logger.Warn("similar failed", zap.Error(err))
		return nil, err
	}

	logger.Debug("similar", zap.Strings("references", refNames), zap.Int("limit", limit), zap.Int("results", len(items)))
	return core.CocktailsFromItems(items), nil
}

// GetCocktails 按名称查询鸡尾酒详情（含配料），未知名称直接忽略。
func (r *Recommender) GetCocktails(ctx context.Context, names []string) ([]*core.Cocktail, error) {
	normalized := utils.NormalizeCocktailNames(names)
	if len(normalized) == 0 {
		return []*core.Cocktail{}, nil
	}
	return r.cocktails.GetCocktailsByNames(ctx, normalized)
}

// UpdatePreferences 以单次原子读-改-写合并偏好更新，首次写入时创建记录。
func (r *Recommender) UpdatePreferences(ctx context.Context, userID int64, upd preference.Update) error {
	err := r.prefs.UpdateUserData(ctx, userID, func(ud *core.UserData) error {
		ud.Preferences = preference.Apply(ud.Preferences, upd)
		return nil
	})
	if err != nil {
		r.logger.Warn("update preferences failed", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}
	r.logger.Debug("update preferences", zap.Int64("user_id", userID))
	return nil
}

// GetPreferences 返回规范化后的偏好；记录不存在时返回四个空列表。
func (r *Recommender) GetPreferences(ctx context.Context, userID int64) (core.Preferences, error) {
	return r.loadPreferences(ctx, userID)
}

// ClearPreferences 把四个集合重置为空，保留记录与对话历史。记录不存在时什么也不做。
func (r *Recommender) ClearPreferences(ctx context.Context, userID int64) error {
	if _, err := r.prefs.GetUserData(ctx, userID); err != nil {
		if core.IsStoreNotFound(err) {
			return nil
		}
		return err
	}
	err := r.prefs.UpdateUserData(ctx, userID, func(ud *core.UserData) error {
		ud.Preferences = preference.Clear()
		return nil
	})
	if err != nil {
		r.logger.Warn("clear preferences failed", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}
	r.logger.Debug("clear preferences", zap.Int64("user_id", userID))
	return nil
}

// AppendMessage 追加一轮对话，只保留最近的若干轮。
func (r *Recommender) AppendMessage(ctx context.Context, userID int64, user, bot string) error {
	limit := r.config.MessageHistoryLimit()
	return r.prefs.UpdateUserData(ctx, userID, func(ud *core.UserData) error {
		ud.AppendMessage(core.MessagePair{User: user, Bot: bot}, limit)
		return nil
	})
}

// MessageHistory 返回对话历史（从旧到新），记录不存在时返回空列表。
func (r *Recommender) MessageHistory(ctx context.Context, userID int64) ([]core.MessagePair, error) {
	ud, err := r.prefs.GetUserData(ctx, userID)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return []core.MessagePair{}, nil
		}
		return nil, err
	}
	if ud.MessageHistory == nil {
		return []core.MessagePair{}, nil
	}
	return ud.MessageHistory, nil
}

func (r *Recommender) newContext(ctx context.Context, userID int64) (*core.RecommendContext, error) {
	rctx := core.NewRecommendContext(userID)
	rctx.RequestID = uuid.NewString()
	prefs, err := r.loadPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	rctx.Preferences = prefs
	return rctx, nil
}

func (r *Recommender) loadPreferences(ctx context.Context, userID int64) (core.Preferences, error) {
	ud, err := r.prefs.GetUserData(ctx, userID)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return core.NewPreferences(), nil
		}
		return core.Preferences{}, err
	}
	return preference.Normalize(ud.Preferences), nil
}

func (r *Recommender) resolveLimit(limit, def int) (int, error) {
	switch {
	case limit < 0:
		return 0, core.InvalidInput(core.ModuleService, "limit must not be negative", nil)
	case limit == 0:
		return def, nil
	default:
		return limit, nil
	}
}

// withRules 把全局规则放在请求规则之前，返回副本。
func (r *Recommender) withRules(req filter.Request) filter.Request {
	if len(r.exprs) == 0 {
		return req
	}
	exprs := make([]string, 0, len(r.exprs)+len(req.Exprs))
	exprs = append(exprs, r.exprs...)
	exprs = append(exprs, req.Exprs...)
	req.Exprs = exprs
	return req
}

func (r *Recommender) randSource() *rand.Rand {
	if r.newRand == nil {
		return nil
	}
	return r.newRand()
}

func (r *Recommender) traceHook(logger *zap.Logger) pipeline.Hook {
	return func(node pipeline.Node, in, out int) {
		logger.Debug("node",
			zap.String("node", node.Name()),
			zap.String("kind", string(node.Kind())),
			zap.Int("in", in),
			zap.Int("out", out),
		)
	}
}
