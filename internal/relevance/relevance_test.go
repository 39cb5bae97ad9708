package relevance

import "testing"

func TestNormalizeStockCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"600519", "600519"},
		{" 600519 ", "600519"},
		{"000858", "000858"},
		{"300750", "300750"},
		{"688981", "688981"},
		{"123456", ""}, // 非沪深常见段位
		{"60051", ""},  // 位数不足
		{"6005190", ""},
		{"60051a", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeStockCode(c.in); got != c.want {
			t.Fatalf("NormalizeStockCode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAnalyzeExactCodeHighestConfidence(t *testing.T) {
	a := NewAnalyzer(DefaultRegistry())

	// 标题仅含一个精确 6 位代码，无名称与行业词 → 恰好一条最高置信度匹配
	got := a.Analyze("600036 盘中快速拉升", "")
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 match, got %d: %+v", len(got), got)
	}
	if got[0].Code != "600036" {
		t.Fatalf("code = %q, want 600036", got[0].Code)
	}
	if got[0].Confidence != ConfidenceCode {
		t.Fatalf("confidence = %v, want ConfidenceCode", got[0].Confidence)
	}
}

func TestAnalyzeNameTitleOutranksBodyName(t *testing.T) {
	a := NewAnalyzer(DefaultRegistry())

	got := a.Analyze("贵州茅台发布公告", "文中还提到五粮液的动态。")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(got), got)
	}
	// 标题命中的名称置信度高于仅正文命中的
	if got[0].Code != "600519" || got[0].Confidence != ConfidenceNameTitle {
		t.Fatalf("first match should be title name hit: %+v", got[0])
	}
	if got[1].Code != "000858" || got[1].Confidence != ConfidenceName {
		t.Fatalf("second match should be body name hit: %+v", got[1])
	}
}

func TestAnalyzeIndustryBasketLowestConfidence(t *testing.T) {
	a := NewAnalyzer(DefaultRegistry())

	got := a.Analyze("白酒板块午后走强", "")
	if len(got) == 0 {
		t.Fatalf("industry keyword should yield basket matches")
	}
	for _, m := range got {
		if m.Confidence != ConfidenceIndustry {
			t.Fatalf("industry match confidence = %v, want ConfidenceIndustry", m.Confidence)
		}
	}
}

func TestAnalyzeDedupKeepsHighestConfidence(t *testing.T) {
	a := NewAnalyzer(DefaultRegistry())

	// 同一只股票被代码与名称同时命中，只保留一条且取最高置信度
	got := a.Analyze("贵州茅台(600519)发布公告", "")
	count := 0
	for _, m := range got {
		if m.Code == "600519" {
			count++
			if m.Confidence != ConfidenceCode {
				t.Fatalf("dedup should keep highest confidence, got %v", m.Confidence)
			}
		}
	}
	if count != 1 {
		t.Fatalf("600519 appears %d times, want 1", count)
	}
}

func TestAnalyzeCapsMatches(t *testing.T) {
	a := NewAnalyzer(DefaultRegistry())

	// 堆满行业词与名称，结果应被截断到上限
	title := "白酒 新能源 银行 半导体 医药 房地产 保险 券商 锂电池 芯片"
	content := "贵州茅台 五粮液 宁德时代 比亚迪 中国平安 招商银行 工商银行 万科 中芯国际 恒瑞医药 隆基绿能 东方财富"
	got := a.Analyze(title, content)
	if len(got) > 10 {
		t.Fatalf("matches should be capped at 10, got %d", len(got))
	}
	// 截断后留下的应是置信度靠前的（名称命中优于行业关联）
	for _, m := range got {
		if m.Confidence == ConfidenceIndustry {
			t.Fatalf("industry matches should be truncated before name matches: %+v", got)
		}
	}
}

func TestAnalyzeIgnoresLongDigitRuns(t *testing.T) {
	a := NewAnalyzer(nil)

	// 电话号码、长数字串不应被当作股票代码
	got := a.Analyze("客服电话 4006001234", "订单号 20240103600519")
	if len(got) != 0 {
		t.Fatalf("long digit runs must not match codes: %+v", got)
	}
}
