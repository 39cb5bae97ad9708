package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/LJTian/NewsRadar/internal/news"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewsArchive 富化新闻的落库快照，供缓存过期后的历史查询。
// 归档库不是事务性主存储，写失败不影响内存缓存
type NewsArchive struct {
	ID          string    `gorm:"primaryKey;size:40" json:"id"`
	Title       string    `gorm:"size:512" json:"title"`
	Content     string    `gorm:"type:text" json:"content"`
	Summary     string    `gorm:"size:600" json:"summary"`
	Source      string    `gorm:"size:64;index" json:"source"`
	URL         string    `gorm:"size:1024" json:"url"`
	PublishTime string    `gorm:"size:32" json:"publishTime"`
	FetchTime   time.Time `gorm:"index" json:"fetchTime"`

	Sentiment      string  `gorm:"size:16" json:"sentiment"`
	SentimentScore float64 `json:"sentimentScore"`
	Urgency        string  `gorm:"size:16;index" json:"urgency"`
	ReportType     string  `gorm:"size:16" json:"reportType"`
	ImpactScore    float64 `gorm:"index" json:"impactScore"`

	// ExtraData 关键词 / 相关个股 / 影响因子等结构化附加信息
	ExtraData datatypes.JSONMap `gorm:"type:jsonb" json:"extraData"`

	CreatedAt time.Time `json:"createdAt"`
}

// Store 归档库 + 查询缓存。两者都是可选的：
// 未配置 Postgres DSN 时 DB 为 nil，未配置 Redis 地址时 Redis 为 nil，各自的操作退化为空操作
type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStore(dsn, redisAddr string) (*Store, error) {
	s := &Store{}

	if dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(&NewsArchive{}); err != nil {
			return nil, err
		}
		s.DB = db
	}

	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("warn: redis ping failed: %v", err)
		}
		s.Redis = rdb
	}

	return s, nil
}

// toValidUTF8 将字符串规范为合法 UTF-8，避免 PostgreSQL invalid byte sequence 错误
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}

// ArchiveBatch 将一批已富化的新闻落入归档库，已存在的按 ID 忽略。实现 news.Archiver
func (s *Store) ArchiveBatch(items []news.NewsItem) error {
	if s == nil || s.DB == nil {
		return nil
	}

	for _, it := range items {
		extra := datatypes.JSONMap{
			"keywords":       it.Keywords,
			"related_stocks": it.RelatedStocks,
			"impact_factors": it.ImpactFactors,
			"recommendation": it.Recommendation,
		}
		row := &NewsArchive{
			ID:             it.ID,
			Title:          toValidUTF8(it.Title),
			Content:        toValidUTF8(it.Content),
			Summary:        toValidUTF8(it.Summary),
			Source:         it.Source,
			URL:            it.URL,
			PublishTime:    it.PublishTime,
			FetchTime:      it.FetchTime,
			Sentiment:      it.Sentiment,
			SentimentScore: it.SentimentScore,
			Urgency:        it.Urgency,
			ReportType:     it.ReportType,
			ImpactScore:    it.ImpactScore,
			ExtraData:      extra,
		}
		if err := s.DB.Where("id = ?", it.ID).FirstOrCreate(row).Error; err != nil {
			return err
		}
	}
	return nil
}

// ListArchive 按个股代码（可为空）查询历史归档，Redis 做 5 分钟的查询缓存
func (s *Store) ListArchive(stockCode string, limit int) ([]NewsArchive, error) {
	if s == nil || s.DB == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 1000 {
		limit = 50
	}

	ctx := context.Background()
	cacheKey := fmt.Sprintf("news:archive:%s:%d", stockCode, limit)

	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []NewsArchive
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var list []NewsArchive
	db := s.DB.Model(&NewsArchive{})
	if stockCode != "" {
		// related_stocks 存在 JSONB 附加字段里，用包含匹配；正文兜底
		db = db.Where("extra_data -> 'related_stocks' @> ? OR title LIKE ? OR content LIKE ?",
			fmt.Sprintf(`["%s"]`, stockCode), "%"+stockCode+"%", "%"+stockCode+"%")
	}
	if err := db.Order("fetch_time DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}

	const listCacheTTL = 5 * time.Minute
	if s.Redis != nil && len(list) > 0 {
		if bs, err := json.Marshal(list); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}

	return list, nil
}
