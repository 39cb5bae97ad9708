package collector

import (
	"context"
	"fmt"
	"time"
)

// MockFetcher 本地模拟数据源，开发调试与演示用，不访问网络
type MockFetcher struct {
	// SourceName 为空时使用默认名
	SourceName string
	// Items 固定返回的条目；为空时生成演示数据
	Items []RawNews
	// Err 非 nil 时 Fetch 直接返回该错误，用于演练失败路径
	Err error

	fetchRound int
}

func (m *MockFetcher) Name() string {
	if m.SourceName != "" {
		return m.SourceName
	}
	return "mock"
}

func (m *MockFetcher) Fetch(ctx context.Context) ([]RawNews, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Items) > 0 {
		return m.Items, nil
	}

	m.fetchRound++
	now := time.Now()
	pub := now.Format("2006-01-02 15:04:05")
	return []RawNews{
		{
			Title:   fmt.Sprintf("【演示】某上市公司发布第 %d 轮模拟公告", m.fetchRound),
			Content: "这是一条本地生成的演示新闻，用于验证采集、去重与缓存链路。",
			PubTime: pub,
			Source:  m.Name(),
			URL:     fmt.Sprintf("https://example.com/mock/%d", now.UnixNano()),
		},
		{
			Title:   "贵州茅台(600519)发布经营数据公告",
			Content: "公司披露最新经营数据，营收稳定增长。",
			PubTime: pub,
			Source:  m.Name(),
			URL:     "https://example.com/mock/moutai",
		},
	}, nil
}
