package sentiment

import "strings"

// Result 情感分类结果
type Result struct {
	// Sentiment positive / negative / neutral
	Sentiment string
	// Score 0–100，50 为中性
	Score float64
	// Keywords 命中的情感词
	Keywords []string
}

// Scorer 情感分类器边界。默认提供词典实现，线上可替换为外部模型服务
type Scorer interface {
	Score(title, content string) (Result, error)
}

var positiveLexicon = []string{
	"上涨", "涨停", "利好", "增长", "盈利", "突破", "创新高", "超预期",
	"中标", "回购", "增持", "业绩预增", "获批", "合作",
}

var negativeLexicon = []string{
	"下跌", "跌停", "利空", "亏损", "下滑", "创新低", "不及预期",
	"减持", "处罚", "调查", "违约", "退市", "诉讼", "爆雷", "暴雷",
}

// LexiconScorer 基于正负情感词典的本地打分器。
// 每个正面词 +10 / 负面词 -10，叠加在 50 分的中性基线上后截断到 [0,100]
type LexiconScorer struct{}

func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{}
}

func (s *LexiconScorer) Score(title, content string) (Result, error) {
	text := title + "\n" + content

	var keywords []string
	score := 50.0
	for _, w := range positiveLexicon {
		if strings.Contains(text, w) {
			score += 10
			keywords = append(keywords, w)
		}
	}
	for _, w := range negativeLexicon {
		if strings.Contains(text, w) {
			score -= 10
			keywords = append(keywords, w)
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	label := "neutral"
	switch {
	case score >= 60:
		label = "positive"
	case score <= 40:
		label = "negative"
	}

	return Result{Sentiment: label, Score: score, Keywords: keywords}, nil
}
