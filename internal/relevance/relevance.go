package relevance

import (
	"regexp"
	"sort"
	"strings"
)

// Confidence 匹配置信度，数值越大越可信
type Confidence int

const (
	// ConfidenceIndustry 行业关键词关联到的代表性个股
	ConfidenceIndustry Confidence = iota + 1
	// ConfidenceName 正文中出现已知公司名称
	ConfidenceName
	// ConfidenceNameTitle 标题中出现已知公司名称
	ConfidenceNameTitle
	// ConfidenceCode 文本中出现精确的 6 位股票代码
	ConfidenceCode
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceCode:
		return "code"
	case ConfidenceNameTitle:
		return "name_title"
	case ConfidenceName:
		return "name"
	case ConfidenceIndustry:
		return "industry"
	default:
		return "unknown"
	}
}

// Match 一条相关个股匹配结果
type Match struct {
	Code       string
	Confidence Confidence
}

// Registry 股票名录协作方，提供 名称→代码 映射，供名称扫描用
type Registry interface {
	NameToCode() map[string]string
}

const maxMatches = 10

var digitRun = regexp.MustCompile(`[0-9]+`)

// Analyzer 从标题与正文中提取相关个股代码。
// 三种手段按置信度从高到低：精确代码匹配 > 名称词典 > 行业关键词关联
type Analyzer struct {
	names    map[string]string
	industry map[string][]string
}

func NewAnalyzer(reg Registry) *Analyzer {
	a := &Analyzer{
		names:    map[string]string{},
		industry: defaultIndustryBaskets(),
	}
	if reg != nil {
		for name, code := range reg.NameToCode() {
			if name != "" && NormalizeStockCode(code) != "" {
				a.names[name] = NormalizeStockCode(code)
			}
		}
	}
	return a
}

// Analyze 返回按置信度倒序、去重、截断后的相关个股列表
func (a *Analyzer) Analyze(title, content string) []Match {
	best := map[string]Confidence{}

	text := title + "\n" + content

	// 1. 精确代码
	for _, run := range digitRun.FindAllString(text, -1) {
		code := NormalizeStockCode(run)
		if code == "" {
			continue
		}
		record(best, code, ConfidenceCode)
	}

	// 2. 名称词典：标题命中比仅正文命中置信度更高
	for name, code := range a.names {
		if strings.Contains(title, name) {
			record(best, code, ConfidenceNameTitle)
		} else if strings.Contains(content, name) {
			record(best, code, ConfidenceName)
		}
	}

	// 3. 行业关键词 → 代表性个股篮子
	for keyword, basket := range a.industry {
		if !strings.Contains(text, keyword) {
			continue
		}
		for _, code := range basket {
			record(best, code, ConfidenceIndustry)
		}
	}

	out := make([]Match, 0, len(best))
	for code, conf := range best {
		out = append(out, Match{Code: code, Confidence: conf})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Code < out[j].Code
	})
	if len(out) > maxMatches {
		out = out[:maxMatches]
	}
	return out
}

func record(best map[string]Confidence, code string, conf Confidence) {
	if prev, ok := best[code]; !ok || conf > prev {
		best[code] = conf
	}
}

// NormalizeStockCode 规范为合法的 6 位 A 股代码；非法输入返回空串。
// 仅接受沪深两市常见段位：60/68（沪）、00/30（深）
func NormalizeStockCode(code string) string {
	code = strings.TrimSpace(code)
	if len(code) != 6 {
		return ""
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return ""
		}
	}
	switch code[:2] {
	case "60", "68", "00", "30":
		return code
	}
	return ""
}
