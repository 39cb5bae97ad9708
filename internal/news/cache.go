package news

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Stats 缓存运行计数
type Stats struct {
	TotalAdded        int `json:"total_added"`
	DuplicatesSkipped int `json:"duplicates_skipped"`
	ExpiredCleaned    int `json:"expired_cleaned"`
	CurrentSize       int `json:"current_size"`
}

// Query GetLatest 的过滤条件，零值字段表示不过滤
type Query struct {
	Limit        int
	Urgency      string
	Source       string
	StockCode    string
	UnpushedOnly bool
}

// Cache 以指纹为键的内存缓存，按紧急层级设定过期时间。
// 所有字段修改与多字段读取都在同一把锁内完成，临界区保持短小；
// 富化等 CPU 密集工作必须在入锁之前完成。
type Cache struct {
	mu     sync.Mutex
	items  map[string]*NewsItem
	expiry map[string]time.Time
	ttl    TTLPolicy

	totalAdded     int
	dupSkipped     int
	expiredCleaned int

	// now 可注入，方便 TTL 相关测试
	now func() time.Time
}

func NewCache(ttl TTLPolicy) *Cache {
	return &Cache{
		items:  make(map[string]*NewsItem),
		expiry: make(map[string]time.Time),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Contains 判断指纹是否已存在（入锁的 O(1) 成员测试）
func (c *Cache) Contains(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[id]
	return ok
}

// Add 原子地检查并写入一条新闻。指纹已存在时拒绝写入并返回 false；
// 两个源并发写入同一指纹时由锁串行化，后到者被拒绝（至多一次语义）
func (c *Cache) Add(item *NewsItem) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[item.ID]; ok {
		c.dupSkipped++
		return false
	}

	stored := *item
	c.items[item.ID] = &stored
	c.expiry[item.ID] = c.now().Add(c.ttl.TTL(item.Urgency))
	c.totalAdded++
	return true
}

// CountSkipped 记录一条在入缓存之前就被丢弃的重复/无效条目
func (c *Cache) CountSkipped() {
	c.mu.Lock()
	c.dupSkipped++
	c.mu.Unlock()
}

// GetLatest 按过滤条件返回存活条目的副本，按抓取时间倒序，limit<=0 表示不限制
func (c *Cache) GetLatest(q Query) []NewsItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]NewsItem, 0, len(c.items))
	for _, it := range c.items {
		if q.Urgency != "" && it.Urgency != q.Urgency {
			continue
		}
		if q.Source != "" && it.Source != q.Source {
			continue
		}
		if q.UnpushedOnly && it.IsPushed {
			continue
		}
		if q.StockCode != "" && !matchesStock(it, q.StockCode) {
			continue
		}
		out = append(out, *it)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].FetchTime.After(out[j].FetchTime)
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// GetUrgent 返回 critical / high 两档的最新条目
func (c *Cache) GetUrgent(limit int) []NewsItem {
	c.mu.Lock()
	out := make([]NewsItem, 0, 16)
	for _, it := range c.items {
		if it.Urgency == UrgencyCritical || it.Urgency == UrgencyHigh {
			out = append(out, *it)
		}
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].FetchTime.After(out[j].FetchTime)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// GetForStock 返回与某只股票相关的条目；related_stocks 未命中时回退到标题/正文包含代码的匹配
func (c *Cache) GetForStock(code string, limit int) []NewsItem {
	return c.GetLatest(Query{Limit: limit, StockCode: code})
}

func matchesStock(it *NewsItem, code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}
	for _, s := range it.RelatedStocks {
		if s == code {
			return true
		}
	}
	// 兜底：标签缺失的条目按正文包含判断
	return strings.Contains(it.Title, code) || strings.Contains(it.Content, code)
}

// MarkPushed 设置已推送标记与推送时间，条目不存在时返回 false
func (c *Cache) MarkPushed(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[id]
	if !ok {
		return false
	}
	now := c.now()
	it.IsPushed = true
	it.PushTime = &now
	return true
}

// CleanupExpired 清除所有已过期条目，返回清除数量
func (c *Cache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for id, exp := range c.expiry {
		if now.After(exp) {
			delete(c.items, id)
			delete(c.expiry, id)
			removed++
		}
	}
	c.expiredCleaned += removed
	return removed
}

// Clear 清空全部缓存内容（计数器保留）
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*NewsItem)
	c.expiry = make(map[string]time.Time)
}

// Stats 返回计数快照
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		TotalAdded:        c.totalAdded,
		DuplicatesSkipped: c.dupSkipped,
		ExpiredCleaned:    c.expiredCleaned,
		CurrentSize:       len(c.items),
	}
}
