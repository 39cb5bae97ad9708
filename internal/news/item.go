package news

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// 紧急程度，决定缓存保留层级
const (
	UrgencyCritical = "critical"
	UrgencyHigh     = "high"
	UrgencyMedium   = "medium"
	UrgencyLow      = "low"
)

// 情感标签
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// 新闻类别，仅作展示分类，不影响缓存策略
const (
	ReportTypeNews         = "news"
	ReportTypeAnnouncement = "announcement"
	ReportTypeFinancial    = "financial"
)

// NewsItem 缓存中的一条富化新闻
type NewsItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Summary string `json:"summary"`
	Source  string `json:"source"`
	URL     string `json:"url"`
	// PublishTime 保留数据源的原始发布时间字符串（指纹的一部分）
	PublishTime string    `json:"publish_time"`
	FetchTime   time.Time `json:"fetch_time"`

	Sentiment      string  `json:"sentiment"`
	SentimentScore float64 `json:"sentiment_score"` // 0–100

	Urgency    string `json:"urgency"`
	ReportType string `json:"report_type"`

	Keywords      []string `json:"keywords"`
	RelatedStocks []string `json:"related_stocks"`

	ImpactScore    float64  `json:"impact_score"` // 0–10
	Recommendation string   `json:"recommendation,omitempty"`
	ImpactFactors  []string `json:"impact_factors,omitempty"`

	IsPushed bool       `json:"is_pushed"`
	PushTime *time.Time `json:"push_time,omitempty"`
}

// Fingerprint 计算去重指纹：标题规范化（去空白、小写）后拼接原始发布时间字符串，取 MD5
func Fingerprint(title, pubTime string) string {
	normalized := strings.ToLower(strings.TrimSpace(title))
	h := md5.Sum([]byte(normalized + "|" + pubTime))
	return hex.EncodeToString(h[:])
}
