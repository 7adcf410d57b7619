// Package cocktailkit 是一个鸡尾酒推荐核心（Cocktail Recommendation Kit）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Labels-first: labels 全链路透传，记录过滤原因、偏好分层与相似度，便于 explain / 观测
// - 存储注入: 目录与偏好存储通过接口注入（内存 / Postgres / SQLite / Redis）
//
// 对外入口是 service.Recommender。
package cocktailkit

import "github.com/rushteam/cocktailkit/pipeline"

// 轻量 facade：便于用户直接 import "cocktailkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)
