package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LJTian/NewsRadar/internal/api"
	"github.com/LJTian/NewsRadar/internal/collector"
	"github.com/LJTian/NewsRadar/internal/config"
	"github.com/LJTian/NewsRadar/internal/impact"
	"github.com/LJTian/NewsRadar/internal/news"
	"github.com/LJTian/NewsRadar/internal/relevance"
	"github.com/LJTian/NewsRadar/internal/scheduler"
	"github.com/LJTian/NewsRadar/internal/sentiment"
	"github.com/LJTian/NewsRadar/internal/storage"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	// 监控中心：去重 → 富化 → 分层缓存。进程内唯一实例，显式注入各处
	center := news.NewCenter(
		cfg.TTL,
		relevance.NewAnalyzer(relevance.DefaultRegistry()),
		impact.NewAssessor(),
		sentiment.NewLexiconScorer(),
		news.WithArchiver(store),
		news.WithSnapshotPath(cfg.SnapshotPath),
	)
	center.OnUrgent(func(it news.NewsItem) {
		log.Printf("urgent: [%s] %s (score=%.1f)", it.Urgency, it.Title, it.ImpactScore)
	})

	// 启动即恢复上次快照，停机期间过期的条目会被立刻清掉
	center.LoadSnapshot()

	// 按数据源更新频率配置各自独立的轮询周期
	mgr := scheduler.New(center, cfg.CleanupCron, cfg.SnapshotCron)
	sources := []struct {
		cfg     scheduler.SourceConfig
		fetcher collector.Fetcher
	}{
		{
			cfg:     scheduler.SourceConfig{ID: "cls_telegraph", Name: "财联社电报", Enabled: true, Interval: 60 * time.Second, Priority: 1},
			fetcher: &collector.CLSTelegraphFetcher{},
		},
		{
			cfg:     scheduler.SourceConfig{ID: "sina_finance", Name: "新浪财经 7x24", Enabled: true, Interval: 120 * time.Second, Priority: 2},
			fetcher: &collector.SinaRollFetcher{},
		},
		{
			cfg:     scheduler.SourceConfig{ID: "eastmoney_stock", Name: "东财个股新闻", Enabled: true, Interval: 300 * time.Second, Priority: 3},
			fetcher: &collector.EastMoneyStockFetcher{},
		},
	}
	for _, src := range sources {
		if err := mgr.AddSource(src.cfg, src.fetcher); err != nil {
			log.Fatalf("register source %s failed: %v", src.cfg.ID, err)
		}
	}
	mgr.Start()

	// API
	r := gin.Default()
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPass != "" {
		r.Use(basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass))
	}

	apiServer := api.NewServer(center, mgr, store)
	apiServer.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("starting api server at %s ...", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server exit: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	mgr.Stop()
	// 退出前落一次快照，重启后可恢复
	if err := center.SaveSnapshot(); err != nil {
		log.Printf("save snapshot on shutdown: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}

// basicAuthMiddleware 为整个站点增加一个简单的 Basic Auth 访问密码。
// 仅当配置了 APP_BASIC_USER / APP_BASIC_PASS 时启用。
// /health 不做认证，便于健康检查。
func basicAuthMiddleware(user, pass string) gin.HandlerFunc {
	const realm = "Restricted"
	uBytes := []byte(user)
	pBytes := []byte(pass)

	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		u, p, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(u), uBytes) != 1 ||
			subtle.ConstantTimeCompare([]byte(p), pBytes) != 1 {
			c.Header("WWW-Authenticate", `Basic realm="`+realm+`"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
