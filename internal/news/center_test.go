package news

import (
	"errors"
	"testing"

	"github.com/LJTian/NewsRadar/internal/collector"
	"github.com/LJTian/NewsRadar/internal/impact"
	"github.com/LJTian/NewsRadar/internal/relevance"
	"github.com/LJTian/NewsRadar/internal/sentiment"
)

// failingScorer 模拟外部情感服务故障
type failingScorer struct{}

func (failingScorer) Score(title, content string) (sentiment.Result, error) {
	return sentiment.Result{}, errors.New("classifier unavailable")
}

func newTestCenter(opts ...Option) *Center {
	return NewCenter(
		DefaultTTLPolicy(),
		relevance.NewAnalyzer(relevance.DefaultRegistry()),
		impact.NewAssessor(),
		sentiment.NewLexiconScorer(),
		opts...,
	)
}

func TestAddNewsBatchDedupAndCounts(t *testing.T) {
	c := newTestCenter()

	// 三条原始新闻，第 2 条与第 1 条同标题同时间（重复）
	raws := []collector.RawNews{
		{Title: "A公司发布公告", PubTime: "2024-01-03 10:00:00", Source: "cls"},
		{Title: "A公司发布公告", PubTime: "2024-01-03 10:00:00", Source: "sina"},
		{Title: "B公司业绩预增", PubTime: "2024-01-03 10:05:00", Source: "cls"},
	}

	added, skipped := c.AddNewsBatch(raws)
	if added != 2 || skipped != 1 {
		t.Fatalf("AddNewsBatch = (%d, %d), want (2, 1)", added, skipped)
	}
	if size := c.Stats().CurrentSize; size != 2 {
		t.Fatalf("current_size = %d, want 2", size)
	}

	// 同一批再投一次：全部按重复跳过，size 不变（幂等）
	added, skipped = c.AddNewsBatch(raws)
	if added != 0 || skipped != 3 {
		t.Fatalf("repeat AddNewsBatch = (%d, %d), want (0, 3)", added, skipped)
	}
	if size := c.Stats().CurrentSize; size != 2 {
		t.Fatalf("current_size after repeat = %d, want 2", size)
	}
}

func TestAddNewsBatchSkipsEmptyTitle(t *testing.T) {
	c := newTestCenter()

	added, skipped := c.AddNewsBatch([]collector.RawNews{
		{Title: "   ", PubTime: "2024-01-03 10:00:00"},
		{Title: "正常标题", PubTime: "2024-01-03 10:00:00"},
	})
	if added != 1 || skipped != 1 {
		t.Fatalf("AddNewsBatch = (%d, %d), want (1, 1)", added, skipped)
	}
}

func TestAddNewsBatchEnrichesItem(t *testing.T) {
	c := newTestCenter()

	added, _ := c.AddNewsBatch([]collector.RawNews{{
		Title:   "贵州茅台发布年度业绩公告",
		Content: "公司营收增长，利润创新高。",
		PubTime: "2024-01-03 10:00:00",
		Source:  "cls",
		URL:     "https://example.com/1",
	}})
	if added != 1 {
		t.Fatalf("expected 1 added")
	}

	got := c.GetLatestNews(Query{})
	if len(got) != 1 {
		t.Fatalf("expected 1 item in cache")
	}
	it := got[0]

	if it.ID != Fingerprint("贵州茅台发布年度业绩公告", "2024-01-03 10:00:00") {
		t.Fatalf("id should be the content fingerprint")
	}
	// 名称词典应识别出贵州茅台
	found := false
	for _, code := range it.RelatedStocks {
		if code == "600519" {
			found = true
		}
	}
	if !found {
		t.Fatalf("related_stocks should contain 600519: %+v", it.RelatedStocks)
	}
	if it.Sentiment != SentimentPositive {
		t.Fatalf("sentiment = %q, want positive", it.Sentiment)
	}
	if it.SentimentScore < 0 || it.SentimentScore > 100 {
		t.Fatalf("sentiment_score out of range: %f", it.SentimentScore)
	}
	if it.ImpactScore < 0 || it.ImpactScore > 10 {
		t.Fatalf("impact_score out of range: %f", it.ImpactScore)
	}
	if it.ReportType != ReportTypeAnnouncement {
		t.Fatalf("report_type = %q, want announcement", it.ReportType)
	}
	if it.Urgency == "" {
		t.Fatalf("urgency must always be set")
	}
	if it.Summary == "" || it.FetchTime.IsZero() {
		t.Fatalf("summary/fetch_time not populated: %+v", it)
	}
}

func TestAddNewsBatchDropsItemOnEnrichFailure(t *testing.T) {
	c := NewCenter(
		DefaultTTLPolicy(),
		relevance.NewAnalyzer(nil),
		impact.NewAssessor(),
		failingScorer{},
	)

	// 单条富化失败只丢该条，不中断整批（此处整批都会失败，但不 panic 不报错）
	added, skipped := c.AddNewsBatch([]collector.RawNews{
		{Title: "标题一", PubTime: "t1"},
		{Title: "标题二", PubTime: "t2"},
	})
	if added != 0 || skipped != 2 {
		t.Fatalf("AddNewsBatch = (%d, %d), want (0, 2)", added, skipped)
	}
	if size := c.Stats().CurrentSize; size != 0 {
		t.Fatalf("failed items must not enter the cache, size=%d", size)
	}
}

func TestOnUrgentCallbackFires(t *testing.T) {
	c := newTestCenter()

	var fired []NewsItem
	c.OnUrgent(func(it NewsItem) { fired = append(fired, it) })

	c.AddNewsBatch([]collector.RawNews{
		{Title: "某公司被立案调查", Content: "证监会决定对公司立案调查。", PubTime: "t1", Source: "cls"},
		{Title: "某公司获得行业奖项", Content: "公司获奖。", PubTime: "t2", Source: "cls"},
	})

	if len(fired) != 1 {
		t.Fatalf("urgent callback fired %d times, want 1", len(fired))
	}
	if fired[0].Urgency != UrgencyCritical {
		t.Fatalf("callback item urgency = %q, want critical", fired[0].Urgency)
	}
}

func TestGetNewsForStockNormalizesQueryCode(t *testing.T) {
	c := newTestCenter()
	c.AddNewsBatch([]collector.RawNews{{
		Title:   "贵州茅台(600519)经营数据",
		Content: "公司披露经营数据。",
		PubTime: "t1",
	}})

	if got := c.GetNewsForStock(" 600519 ", 0); len(got) != 1 {
		t.Fatalf("query code should be normalized, got %d items", len(got))
	}
}
