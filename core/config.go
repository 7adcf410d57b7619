package core

// RecommendConfig 是推荐相关的配置接口，用于提供默认值。
type RecommendConfig interface {
	// DefaultLimit 返回推荐接口的默认返回数量
	DefaultLimit() int

	// DefaultSimilarLimit 返回相似推荐接口的默认返回数量
	DefaultSimilarLimit() int

	// MessageHistoryLimit 返回保留的对话轮数
	MessageHistoryLimit() int
}

// DefaultRecommendConfig 是默认的推荐配置实现。
type DefaultRecommendConfig struct{}

func (c *DefaultRecommendConfig) DefaultLimit() int {
	return 3
}

func (c *DefaultRecommendConfig) DefaultSimilarLimit() int {
	return 3
}

func (c *DefaultRecommendConfig) MessageHistoryLimit() int {
	return 5
}
