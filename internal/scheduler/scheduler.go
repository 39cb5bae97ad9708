package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/LJTian/NewsRadar/internal/collector"
	"github.com/LJTian/NewsRadar/internal/news"
	"github.com/robfig/cron/v3"
)

const (
	// 轮询间隔的允许范围，越界的配置会被钳位
	minInterval = 10 * time.Second
	maxInterval = time.Hour

	fetchTimeout = 30 * time.Second
)

// SourceConfig 一个外部新闻源的运行配置
type SourceConfig struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Enabled  bool          `json:"enabled"`
	Interval time.Duration `json:"interval"`
	Priority int           `json:"priority"`
	// Limit 单轮抓取条数上限，具体源自行解释
	Limit int `json:"limit,omitempty"`
	// StockCodes 个股类源的目标代码列表
	StockCodes []string `json:"stock_codes,omitempty"`
}

// SourceStatus 管理接口用的源运行状态快照
type SourceStatus struct {
	SourceConfig
	FetchCount int64     `json:"fetch_count"`
	ErrorCount int64     `json:"error_count"`
	LastFetch  time.Time `json:"last_fetch"`
}

type sourceState struct {
	cfg     SourceConfig
	fetcher collector.Fetcher

	fetchCount int64
	errorCount int64
	lastFetch  time.Time

	// looping 该源当前是否有轮询协程在跑，避免 enable 重复拉起
	looping bool
}

// Manager 源调度器：每个启用的源一个独立轮询协程，各自按自己的周期跑，
// 单个源的失败只影响它自己。间隔、启用状态可以在运行期热改
type Manager struct {
	mu      sync.Mutex
	sources map[string]*sourceState

	center *news.Center
	cron   *cron.Cron

	cleanupSpec  string
	snapshotSpec string

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

func New(center *news.Center, cleanupSpec, snapshotSpec string) *Manager {
	return &Manager{
		sources:      make(map[string]*sourceState),
		center:       center,
		cron:         cron.New(),
		cleanupSpec:  cleanupSpec,
		snapshotSpec: snapshotSpec,
	}
}

// Cron 暴露内部 cron，方便进程根追加维护任务
func (m *Manager) Cron() *cron.Cron {
	return m.cron
}

// AddSource 注册一个源；调度器已启动且源为启用状态时立即拉起轮询
func (m *Manager) AddSource(cfg SourceConfig, f collector.Fetcher) error {
	if cfg.ID == "" {
		return fmt.Errorf("scheduler: source id required")
	}
	cfg.Interval = clampInterval(cfg.Interval)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sources[cfg.ID]; ok {
		return fmt.Errorf("scheduler: source %q already registered", cfg.ID)
	}
	st := &sourceState{cfg: cfg, fetcher: f}
	m.sources[cfg.ID] = st

	if m.running && cfg.Enabled {
		m.spawnLocked(st)
	}
	return nil
}

// RemoveSource 停用一个源。配置从不硬删除，仅置为 disabled，轮询协程在下次醒来时退出
func (m *Manager) RemoveSource(id string) error {
	return m.EnableSource(id, false)
}

// SetInterval 热改某个源的轮询间隔，下一次醒来后生效
func (m *Manager) SetInterval(id string, interval time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.sources[id]
	if !ok {
		return fmt.Errorf("scheduler: unknown source %q", id)
	}
	st.cfg.Interval = clampInterval(interval)
	return nil
}

// EnableSource 热改启用状态；启用且调度器在跑时立即拉起轮询
func (m *Manager) EnableSource(id string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.sources[id]
	if !ok {
		return fmt.Errorf("scheduler: unknown source %q", id)
	}
	st.cfg.Enabled = enabled
	if enabled && m.running && !st.looping {
		m.spawnLocked(st)
	}
	return nil
}

// Sources 返回全部源的状态快照，按注册顺序不保证
func (m *Manager) Sources() []SourceStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]SourceStatus, 0, len(m.sources))
	for _, st := range m.sources {
		out = append(out, SourceStatus{
			SourceConfig: st.cfg,
			FetchCount:   st.fetchCount,
			ErrorCount:   st.errorCount,
			LastFetch:    st.lastFetch,
		})
	}
	return out
}

// Start 为每个启用的源拉起轮询协程，并启动维护定时任务
func (m *Manager) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.ctx, m.cancel = context.WithCancel(context.Background())

	for _, st := range m.sources {
		if st.cfg.Enabled {
			m.spawnLocked(st)
		}
	}
	m.mu.Unlock()

	if m.cleanupSpec != "" {
		if _, err := m.cron.AddFunc(m.cleanupSpec, func() {
			if n := m.center.CleanupExpired(); n > 0 {
				log.Printf("scheduler: cleaned %d expired items", n)
			}
		}); err != nil {
			log.Printf("warn: add cleanup cron failed: %v", err)
		}
	}
	if m.snapshotSpec != "" {
		if _, err := m.cron.AddFunc(m.snapshotSpec, func() {
			if err := m.center.SaveSnapshot(); err != nil {
				log.Printf("scheduler: save snapshot error: %v", err)
			}
		}); err != nil {
			log.Printf("warn: add snapshot cron failed: %v", err)
		}
	}
	m.cron.Start()

	log.Println("scheduler started")
}

// Stop 取消所有轮询协程并等待其退出；在途的抓取请求随 context 取消而中止。
// 缓存写入按条原子，不会留下半条状态
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	<-m.cron.Stop().Done()
	log.Println("scheduler stopped")
}

// spawnLocked 拉起一个源的轮询协程，调用方必须持有 m.mu
func (m *Manager) spawnLocked(st *sourceState) {
	st.looping = true
	m.wg.Add(1)
	go m.runLoop(m.ctx, st.cfg.ID)
}

// runLoop 单个源的轮询循环：睡一个间隔 → 抓取 → 交给监控中心。
// 抓取失败只计数并记日志，循环继续；源被停用或调度器停止时退出
func (m *Manager) runLoop(ctx context.Context, id string) {
	defer m.wg.Done()
	defer func() {
		m.mu.Lock()
		if st, ok := m.sources[id]; ok {
			st.looping = false
		}
		m.mu.Unlock()
	}()

	for {
		interval, fetcher, enabled, ok := m.snapshotSource(id)
		if !ok || !enabled {
			log.Printf("scheduler: source %s disabled, loop exits", id)
			return
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		// 醒来后再查一次启用状态，停用的源不再发起抓取
		if _, _, enabled, ok := m.snapshotSource(id); !ok || !enabled {
			log.Printf("scheduler: source %s disabled, loop exits", id)
			return
		}

		m.fetchOnce(ctx, id, fetcher)
	}
}

// fetchOnce 执行一轮抓取。网络请求完全在锁外进行
func (m *Manager) fetchOnce(ctx context.Context, id string, fetcher collector.Fetcher) {
	fctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	items, err := fetcher.Fetch(fctx)
	cancel()

	if ctx.Err() != nil {
		// 调度器已停止，丢弃在途结果
		return
	}

	m.mu.Lock()
	st, ok := m.sources[id]
	if ok {
		st.lastFetch = time.Now()
		if err != nil {
			st.errorCount++
		} else {
			st.fetchCount++
		}
	}
	m.mu.Unlock()

	if err != nil {
		log.Printf("scheduler: fetch %s error: %v", id, err)
		return
	}
	if len(items) == 0 {
		return
	}

	added, skipped := m.center.AddNewsBatch(items)
	log.Printf("scheduler: %s fetched=%d added=%d skipped=%d", id, len(items), added, skipped)
}

// snapshotSource 在锁内取出循环需要的源配置快照
func (m *Manager) snapshotSource(id string) (time.Duration, collector.Fetcher, bool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.sources[id]
	if !ok {
		return 0, nil, false, false
	}
	return st.cfg.Interval, st.fetcher, st.cfg.Enabled, true
}

func clampInterval(d time.Duration) time.Duration {
	if d < minInterval {
		return minInterval
	}
	if d > maxInterval {
		return maxInterval
	}
	return d
}
