package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/LJTian/NewsRadar/internal/collector"
	"github.com/LJTian/NewsRadar/internal/news"
	"github.com/LJTian/NewsRadar/internal/scheduler"
	"github.com/LJTian/NewsRadar/internal/storage"
	"github.com/gin-gonic/gin"
)

// Server API 层只依赖查询门面（Center）、调度管理接口与归档库
type Server struct {
	center *news.Center
	mgr    *scheduler.Manager
	store  *storage.Store
}

func NewServer(center *news.Center, mgr *scheduler.Manager, store *storage.Store) *Server {
	return &Server{center: center, mgr: mgr, store: store}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/news", s.listNews)
		v1.POST("/news", s.addNews)
		v1.GET("/news/urgent", s.urgentNews)
		v1.GET("/news/stock/:code", s.newsForStock)
		v1.POST("/news/:id/pushed", s.markPushed)
		v1.GET("/stats", s.stats)
		v1.GET("/history/:code", s.history)

		v1.GET("/sources", s.listSources)
		v1.POST("/sources", s.addSource)
		v1.POST("/sources/:id/interval", s.setSourceInterval)
		v1.POST("/sources/:id/enable", s.enableSource)
		v1.DELETE("/sources/:id", s.removeSource)

		v1.POST("/cleanup", s.cleanup)
		v1.POST("/snapshot/save", s.saveSnapshot)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func okJSON(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    data,
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    "bad_request",
		"message": msg,
	})
}

func parseLimit(c *gin.Context, def int) int {
	limitStr := c.DefaultQuery("limit", strconv.Itoa(def))
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		return def
	}
	return limit
}

func (s *Server) listNews(c *gin.Context) {
	q := news.Query{
		Limit:        parseLimit(c, 20),
		Urgency:      c.Query("urgency"),
		Source:       c.Query("source"),
		StockCode:    c.Query("stock"),
		UnpushedOnly: c.Query("unpushed") == "true",
	}
	okJSON(c, s.center.GetLatestNews(q))
}

// rawNewsPayload 外部投递原始新闻的请求体，仅在 API 边界接受松散 JSON，入管道前立即转为强类型
type rawNewsPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	PubTime string `json:"pub_time"`
	Source  string `json:"source"`
	URL     string `json:"url"`
}

func (s *Server) addNews(c *gin.Context) {
	var payload []rawNewsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	raws := make([]collector.RawNews, 0, len(payload))
	for _, p := range payload {
		raws = append(raws, collector.RawNews{
			Title:   p.Title,
			Content: p.Content,
			PubTime: p.PubTime,
			Source:  p.Source,
			URL:     p.URL,
		})
	}

	added, skipped := s.center.AddNewsBatch(raws)
	okJSON(c, gin.H{"added": added, "skipped": skipped})
}

func (s *Server) urgentNews(c *gin.Context) {
	okJSON(c, s.center.GetUrgentNews(parseLimit(c, 20)))
}

func (s *Server) newsForStock(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		badRequest(c, "stock code required")
		return
	}
	okJSON(c, s.center.GetNewsForStock(code, parseLimit(c, 20)))
}

func (s *Server) markPushed(c *gin.Context) {
	id := c.Param("id")
	if !s.center.MarkPushed(id) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "not_found",
			"message": "news item not found",
		})
		return
	}
	okJSON(c, gin.H{"id": id})
}

func (s *Server) stats(c *gin.Context) {
	okJSON(c, s.center.Stats())
}

func (s *Server) history(c *gin.Context) {
	items, err := s.store.ListArchive(c.Param("code"), parseLimit(c, 50))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}
	okJSON(c, items)
}

func (s *Server) listSources(c *gin.Context) {
	okJSON(c, s.mgr.Sources())
}

// sourcePayload 新增数据源的请求体
type sourcePayload struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Type            string   `json:"type"` // cls / sina / eastmoney / mock
	Enabled         bool     `json:"enabled"`
	IntervalSeconds int      `json:"interval_seconds"`
	Priority        int      `json:"priority"`
	Limit           int      `json:"limit"`
	StockCodes      []string `json:"stock_codes"`
}

func (s *Server) addSource(c *gin.Context) {
	var p sourcePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	fetcher, err := buildFetcher(p)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	cfg := scheduler.SourceConfig{
		ID:         p.ID,
		Name:       p.Name,
		Enabled:    p.Enabled,
		Interval:   time.Duration(p.IntervalSeconds) * time.Second,
		Priority:   p.Priority,
		Limit:      p.Limit,
		StockCodes: p.StockCodes,
	}
	if err := s.mgr.AddSource(cfg, fetcher); err != nil {
		badRequest(c, err.Error())
		return
	}
	okJSON(c, cfg)
}

// buildFetcher 按类型实例化采集器
func buildFetcher(p sourcePayload) (collector.Fetcher, error) {
	switch p.Type {
	case "cls":
		return &collector.CLSTelegraphFetcher{Limit: p.Limit}, nil
	case "sina":
		return &collector.SinaRollFetcher{}, nil
	case "eastmoney":
		codes := p.StockCodes
		return &collector.EastMoneyStockFetcher{
			GetStockCodes: func() []string { return codes },
			Limit:         p.Limit,
		}, nil
	case "mock":
		return &collector.MockFetcher{SourceName: p.ID}, nil
	default:
		return nil, fmt.Errorf("unknown source type %q", p.Type)
	}
}

func (s *Server) setSourceInterval(c *gin.Context) {
	secStr := c.Query("seconds")
	sec, err := strconv.Atoi(secStr)
	if err != nil || sec <= 0 {
		badRequest(c, "invalid seconds")
		return
	}
	if err := s.mgr.SetInterval(c.Param("id"), time.Duration(sec)*time.Second); err != nil {
		badRequest(c, err.Error())
		return
	}
	okJSON(c, gin.H{"id": c.Param("id"), "seconds": sec})
}

func (s *Server) enableSource(c *gin.Context) {
	enabled := c.DefaultQuery("enabled", "true") == "true"
	if err := s.mgr.EnableSource(c.Param("id"), enabled); err != nil {
		badRequest(c, err.Error())
		return
	}
	okJSON(c, gin.H{"id": c.Param("id"), "enabled": enabled})
}

func (s *Server) removeSource(c *gin.Context) {
	if err := s.mgr.RemoveSource(c.Param("id")); err != nil {
		badRequest(c, err.Error())
		return
	}
	okJSON(c, gin.H{"id": c.Param("id")})
}

func (s *Server) cleanup(c *gin.Context) {
	okJSON(c, gin.H{"removed": s.center.CleanupExpired()})
}

func (s *Server) saveSnapshot(c *gin.Context) {
	if err := s.center.SaveSnapshot(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "snapshot save failed",
		})
		return
	}
	okJSON(c, gin.H{"saved": true})
}
