package collector

import "context"

// RawNews 采集层输出的原始新闻结构，未做任何清洗与打分
type RawNews struct {
	Title   string
	Content string
	// PubTime 保留数据源给出的原始发布时间字符串，去重指纹依赖原始值
	PubTime string
	Source  string
	URL     string
}

// Fetcher 抽象每一个新闻源
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]RawNews, error)
}
