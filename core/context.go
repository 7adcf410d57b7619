package core

import "github.com/rushteam/cocktailkit/pkg/utils"

// RecommendContext 承载用户与请求级信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID    int64
	RequestID string

	// Preferences 是本次请求开始时读取到的用户偏好（已规范化）
	Preferences Preferences

	// Labels 是用户级标签，用于解释/观测
	Labels map[string]utils.Label

	// Params 请求级参数（例如 limit、references），供自定义 Node 使用
	Params map[string]any
}

// NewRecommendContext 创建请求上下文，偏好默认为空集合。
func NewRecommendContext(userID int64) *RecommendContext {
	return &RecommendContext{
		UserID:      userID,
		Preferences: NewPreferences(),
		Labels:      make(map[string]utils.Label),
		Params:      make(map[string]any),
	}
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
