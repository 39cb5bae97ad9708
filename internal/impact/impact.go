package impact

import (
	"fmt"
	"strings"
)

// Assessment 影响评估结果
type Assessment struct {
	// Score 严重度评分 [0,10]
	Score float64
	// Urgency critical/high/medium/low，未命中任何层级时为空
	Urgency string
	// Recommendation 给下游的一句话处理建议
	Recommendation string
	// Factors 命中的关键词因子，便于追溯评分来源
	Factors []string
}

// 紧急程度标签，与缓存层的层级一致
const (
	UrgencyCritical = "critical"
	UrgencyHigh     = "high"
	UrgencyMedium   = "medium"
	UrgencyLow      = "low"
)

// severityTier 一个严重度层级与其关键词集合。
// 层级表是数据而非控制流，按严重度从高到低排列，取命中的最高层级作为基准分
type severityTier struct {
	name     string
	base     float64
	keywords []string
}

var severityTiers = []severityTier{
	{
		name: UrgencyCritical, base: 9,
		keywords: []string{
			"立案调查", "强制退市", "退市", "破产", "暴雷", "爆雷",
			"债务违约", "重大违法", "财务造假", "资金占用",
		},
	},
	{
		name: UrgencyHigh, base: 7,
		keywords: []string{
			"业绩预亏", "大幅亏损", "减持", "行政处罚", "处罚", "诉讼",
			"仲裁", "停牌", "商誉减值", "质押平仓", "监管函", "警示函",
		},
	},
	{
		name: UrgencyMedium, base: 4,
		keywords: []string{
			"重大资产重组", "重组", "并购", "收购", "增持", "回购",
			"中标", "业绩预增", "定向增发", "战略合作", "签订合同",
		},
	},
	{
		name: UrgencyLow, base: 1,
		keywords: []string{
			"机构调研", "调研", "分红", "派息", "股东大会", "高管变动", "获奖",
		},
	},
}

// 正负面关键词，用于在基准分上做 ±1 修正
var positiveKeywords = []string{
	"增持", "回购", "中标", "预增", "盈利", "增长", "突破", "合作", "获奖", "创新高",
}

var negativeKeywords = []string{
	"亏损", "减持", "处罚", "诉讼", "退市", "调查", "违约", "下滑", "爆雷", "暴雷", "创新低",
}

// 评分到紧急层级的固定阈值
const (
	criticalThreshold = 9
	highThreshold     = 7
	mediumThreshold   = 4
	lowThreshold      = 1
)

// Assessor 基于有序关键词层级表的严重度评估器。纯函数式，无副作用
type Assessor struct{}

func NewAssessor() *Assessor {
	return &Assessor{}
}

// Assess 计算一条新闻的严重度与紧急层级。
// sentimentScore 为外部情感分类器给出的 0–100 分，极端负面会把严重度再往上推
func (a *Assessor) Assess(title, content string, sentimentScore float64) Assessment {
	text := title + "\n" + content

	// 1. 有序扫描层级表，取命中的最高层级为基准分
	var (
		base    float64
		factors []string
	)
	for _, tier := range severityTiers {
		matched := matchKeywords(text, tier.keywords)
		if len(matched) == 0 {
			continue
		}
		if base == 0 {
			base = tier.base
		}
		for _, kw := range matched {
			factors = append(factors, tier.name+":"+kw)
		}
	}

	if base == 0 {
		return Assessment{Score: 0, Urgency: "", Recommendation: "无明显影响，常规关注即可"}
	}

	score := base

	// 2. 正负面关键词计数修正 ±1
	pos := len(matchKeywords(text, positiveKeywords))
	neg := len(matchKeywords(text, negativeKeywords))
	if pos > neg {
		score++
	} else if neg > pos {
		score--
	}

	// 3. 标题加成：够级别的关键词直接出现在标题里，最多 +1
	if titleHitsTier(title) {
		score++
	}

	// 4. 情感分折算：极端负面情绪进一步推高严重度
	switch {
	case sentimentScore < 20:
		score++
	case sentimentScore < 35:
		score += 0.5
	}

	if score > 10 {
		score = 10
	}
	if score < 0 {
		score = 0
	}

	urgency := urgencyFor(score)
	return Assessment{
		Score:          score,
		Urgency:        urgency,
		Recommendation: recommend(urgency, pos >= neg),
		Factors:        factors,
	}
}

func matchKeywords(text string, keywords []string) []string {
	var hits []string
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}

func titleHitsTier(title string) bool {
	for _, tier := range severityTiers {
		for _, kw := range tier.keywords {
			if strings.Contains(title, kw) {
				return true
			}
		}
	}
	return false
}

func urgencyFor(score float64) string {
	switch {
	case score >= criticalThreshold:
		return UrgencyCritical
	case score >= highThreshold:
		return UrgencyHigh
	case score >= mediumThreshold:
		return UrgencyMedium
	case score >= lowThreshold:
		return UrgencyLow
	default:
		return ""
	}
}

func recommend(urgency string, positive bool) string {
	direction := "利空"
	if positive {
		direction = "利好"
	}
	switch urgency {
	case UrgencyCritical:
		return fmt.Sprintf("重大%s，建议立即核查相关持仓并评估风险敞口", direction)
	case UrgencyHigh:
		return fmt.Sprintf("较大%s，建议当日内跟进相关标的", direction)
	case UrgencyMedium:
		return fmt.Sprintf("一般%s，建议纳入观察列表", direction)
	case UrgencyLow:
		return "影响有限，常规关注即可"
	default:
		return "无明显影响，常规关注即可"
	}
}
