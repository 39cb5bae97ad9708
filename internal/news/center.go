package news

import (
	"log"
	"strings"
	"time"

	"github.com/LJTian/NewsRadar/internal/collector"
	"github.com/LJTian/NewsRadar/internal/impact"
	"github.com/LJTian/NewsRadar/internal/relevance"
	"github.com/LJTian/NewsRadar/internal/sentiment"
)

// Archiver 归档协作方（如 Postgres 归档库）。尽力而为：失败只记日志，不阻塞主链路
type Archiver interface {
	ArchiveBatch(items []NewsItem) error
}

const summaryRuneLimit = 200

// Center 新闻监控中心：去重 → 富化 → 分层缓存 的编排者，
// 同时是对 API 层暴露的唯一读入口（查询门面）。
// 进程内只建一个实例，由进程根显式持有并注入各处，不使用全局单例
type Center struct {
	cache    *Cache
	analyzer *relevance.Analyzer
	assessor *impact.Assessor
	scorer   sentiment.Scorer
	archive  Archiver

	snapshotPath string

	// onUrgent 新入缓存的 critical/high 条目回调，在锁外触发
	onUrgent []func(NewsItem)

	now func() time.Time
}

// Option Center 的可选配置
type Option func(*Center)

// WithArchiver 配置归档协作方
func WithArchiver(a Archiver) Option {
	return func(c *Center) { c.archive = a }
}

// WithSnapshotPath 配置快照文件路径
func WithSnapshotPath(path string) Option {
	return func(c *Center) { c.snapshotPath = path }
}

func NewCenter(ttl TTLPolicy, analyzer *relevance.Analyzer, assessor *impact.Assessor, scorer sentiment.Scorer, opts ...Option) *Center {
	c := &Center{
		cache:    NewCache(ttl),
		analyzer: analyzer,
		assessor: assessor,
		scorer:   scorer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnUrgent 注册紧急新闻回调。必须在 Start 之前注册完毕，运行期不加锁遍历
func (c *Center) OnUrgent(fn func(NewsItem)) {
	c.onUrgent = append(c.onUrgent, fn)
}

// AddNewsBatch 处理一批原始新闻：空标题与重复项跳过，其余富化后原子写入缓存。
// 单条富化失败只丢弃该条，不影响同批其它条目。返回新增与跳过的条数
func (c *Center) AddNewsBatch(raws []collector.RawNews) (added, skipped int) {
	var archived []NewsItem
	var urgent []NewsItem

	for _, raw := range raws {
		if strings.TrimSpace(raw.Title) == "" {
			skipped++
			continue
		}

		id := Fingerprint(raw.Title, raw.PubTime)
		// 预检：重复项直接跳过，避免为其做富化。并发下的漏网由 Add 的原子检查兜底
		if c.cache.Contains(id) {
			c.cache.CountSkipped()
			skipped++
			continue
		}

		item, err := c.enrich(id, raw)
		if err != nil {
			log.Printf("news: enrich %q failed, drop item: %v", raw.Title, err)
			skipped++
			continue
		}

		if !c.cache.Add(item) {
			skipped++
			continue
		}
		added++

		if item.Urgency == UrgencyCritical || item.Urgency == UrgencyHigh {
			urgent = append(urgent, *item)
		}
		archived = append(archived, *item)
	}

	// 归档与回调都在锁外，失败不影响缓存
	if c.archive != nil && len(archived) > 0 {
		if err := c.archive.ArchiveBatch(archived); err != nil {
			log.Printf("news: archive batch error: %v", err)
		}
	}
	for _, it := range urgent {
		for _, fn := range c.onUrgent {
			fn(it)
		}
	}

	return added, skipped
}

// enrich 把去重后的原始新闻富化为完整条目。纯计算，在缓存锁之外执行
func (c *Center) enrich(id string, raw collector.RawNews) (*NewsItem, error) {
	senti, err := c.scorer.Score(raw.Title, raw.Content)
	if err != nil {
		return nil, err
	}

	matches := c.analyzer.Analyze(raw.Title, raw.Content)
	stocks := make([]string, 0, len(matches))
	for _, m := range matches {
		stocks = append(stocks, m.Code)
	}

	assessment := c.assessor.Assess(raw.Title, raw.Content, senti.Score)
	urgency := assessment.Urgency
	if urgency == "" {
		// 未命中任何严重度层级的条目按最短保留层级存储
		urgency = UrgencyLow
	}

	return &NewsItem{
		ID:             id,
		Title:          strings.TrimSpace(raw.Title),
		Content:        raw.Content,
		Summary:        summarize(raw.Content, raw.Title),
		Source:         raw.Source,
		URL:            raw.URL,
		PublishTime:    raw.PubTime,
		FetchTime:      c.now(),
		Sentiment:      senti.Sentiment,
		SentimentScore: senti.Score,
		Urgency:        urgency,
		ReportType:     classifyReportType(raw.Title),
		Keywords:       senti.Keywords,
		RelatedStocks:  stocks,
		ImpactScore:    assessment.Score,
		Recommendation: assessment.Recommendation,
		ImpactFactors:  assessment.Factors,
	}, nil
}

// summarize 生成摘要：取正文截断，正文为空时用标题兜底
func summarize(content, title string) string {
	s := strings.TrimSpace(content)
	if s == "" {
		return strings.TrimSpace(title)
	}
	rs := []rune(s)
	if len(rs) <= summaryRuneLimit {
		return s
	}
	return string(rs[:summaryRuneLimit]) + "…"
}

func classifyReportType(title string) string {
	switch {
	case strings.Contains(title, "公告"):
		return ReportTypeAnnouncement
	case strings.Contains(title, "财报"), strings.Contains(title, "业绩"),
		strings.Contains(title, "年报"), strings.Contains(title, "季报"):
		return ReportTypeFinancial
	default:
		return ReportTypeNews
	}
}

// ---- 查询门面：API 层只允许调用以下读接口 ----

// GetLatestNews 按过滤条件返回最新条目
func (c *Center) GetLatestNews(q Query) []NewsItem {
	return c.cache.GetLatest(q)
}

// GetUrgentNews 返回 critical/high 两档条目
func (c *Center) GetUrgentNews(limit int) []NewsItem {
	return c.cache.GetUrgent(limit)
}

// GetNewsForStock 返回与某只股票相关的条目
func (c *Center) GetNewsForStock(code string, limit int) []NewsItem {
	return c.cache.GetForStock(normalizeQueryCode(code), limit)
}

// MarkPushed 标记一条新闻已推送
func (c *Center) MarkPushed(id string) bool {
	return c.cache.MarkPushed(id)
}

// CleanupExpired 清理过期条目
func (c *Center) CleanupExpired() int {
	return c.cache.CleanupExpired()
}

// Stats 返回缓存计数
func (c *Center) Stats() Stats {
	return c.cache.Stats()
}

// Clear 清空缓存
func (c *Center) Clear() {
	c.cache.Clear()
}

// SaveSnapshot 将缓存整体写入快照文件；未配置路径时为空操作
func (c *Center) SaveSnapshot() error {
	if c.snapshotPath == "" {
		return nil
	}
	return c.cache.SaveToFile(c.snapshotPath)
}

// LoadSnapshot 启动时从快照恢复；失败只记日志，缓存继续以纯内存模式工作
func (c *Center) LoadSnapshot() {
	if c.snapshotPath == "" {
		return
	}
	if err := c.cache.LoadFromFile(c.snapshotPath); err != nil {
		log.Printf("news: load snapshot: %v (continue with empty cache)", err)
		return
	}
	log.Printf("news: snapshot restored, current size=%d", c.cache.Stats().CurrentSize)
}

// normalizeQueryCode 查询参数里的代码尽量规范化，规范化失败时保留原样做子串匹配
func normalizeQueryCode(code string) string {
	if n := relevance.NormalizeStockCode(code); n != "" {
		return n
	}
	return strings.TrimSpace(code)
}
