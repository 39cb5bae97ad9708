package collector

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestStripEmTags(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<em>贵州茅台</em>发布公告", "贵州茅台发布公告"},
		{"  无标签标题  ", "无标签标题"},
		{"", ""},
	}
	for _, c := range cases {
		if got := stripEmTags(c.in); got != c.want {
			t.Fatalf("stripEmTags(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestGetOptionalStockCodesFromEnv(t *testing.T) {
	envKey := "NEWS_STOCK_CODES"
	defer os.Unsetenv(envKey)

	_ = os.Unsetenv(envKey)
	if codes := getOptionalStockCodes(); len(codes) != 0 {
		t.Fatalf("expected empty codes when env not set, got %v", codes)
	}

	if err := os.Setenv(envKey, "600519, 000858 , ,300750"); err != nil {
		t.Fatalf("Setenv error: %v", err)
	}
	codes := getOptionalStockCodes()
	if len(codes) != 3 {
		t.Fatalf("expected 3 codes, got %d (%v)", len(codes), codes)
	}
	want := []string{"600519", "000858", "300750"}
	for i, c := range want {
		if codes[i] != c {
			t.Fatalf("codes[%d]=%q, want %q", i, codes[i], c)
		}
	}
}

func TestFirstNonEmptyText(t *testing.T) {
	html := `<div><p class="a"> </p><p class="b">正文内容</p></div>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}

	// 依选择器顺序取第一个非空文本
	if got := firstNonEmptyText(doc.Selection, "p.a", "p.b"); got != "正文内容" {
		t.Fatalf("firstNonEmptyText = %q, want %q", got, "正文内容")
	}
	if got := firstNonEmptyText(doc.Selection, "p.missing"); got != "" {
		t.Fatalf("expected empty result for missing selector, got %q", got)
	}
}

func TestMockFetcherFixedItemsAndError(t *testing.T) {
	fixed := []RawNews{{Title: "固定条目", PubTime: "t1", Source: "mock"}}
	m := &MockFetcher{Items: fixed}

	got, err := m.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "固定条目" {
		t.Fatalf("unexpected items: %+v", got)
	}

	failing := &MockFetcher{Err: errors.New("boom")}
	if _, err := failing.Fetch(context.Background()); err == nil {
		t.Fatalf("expected configured error")
	}
}

func TestMockFetcherGeneratesDistinctRounds(t *testing.T) {
	m := &MockFetcher{}

	first, err := m.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	second, err := m.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(first) == 0 || len(second) == 0 {
		t.Fatalf("mock rounds should not be empty")
	}
	// 每一轮生成的首条标题不同，保证多轮投喂不会整批被判重
	if first[0].Title == second[0].Title {
		t.Fatalf("rounds should generate distinct leading items")
	}
}
