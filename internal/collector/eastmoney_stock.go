package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	emSearchURL        = "https://search-api-web.eastmoney.com/search/jsonp"
	emMaxResponseBytes = 1 << 20
	emClientTimeout    = 10 * time.Second
	emConcurrency      = 5
	emPerStockLimit    = 10
)

// EastMoneyStockFetcher 按自选股代码从东方财富拉取个股新闻。
// 自选股来源：GetStockCodes 若非空则用其返回值（如从配置读），否则用环境变量 NEWS_STOCK_CODES
type EastMoneyStockFetcher struct {
	// GetStockCodes 返回关注的股票代码列表，由调用方注入
	GetStockCodes func() []string
	// Limit 每只股票的抓取条数上限，0 表示默认值
	Limit int
}

func (a *EastMoneyStockFetcher) Name() string {
	return "eastmoney_stock"
}

type emArticle struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
	Date    string `json:"date"`
}

type emSearchResult struct {
	Result struct {
		CmsArticle []emArticle `json:"cmsArticleWebOld"`
	} `json:"result"`
}

func (a *EastMoneyStockFetcher) Fetch(ctx context.Context) ([]RawNews, error) {
	var codes []string
	if a.GetStockCodes != nil {
		codes = a.GetStockCodes()
	}
	if len(codes) == 0 {
		codes = getOptionalStockCodes()
	}
	if len(codes) == 0 {
		log.Println("eastmoney: no stock codes configured, skip")
		return nil, nil
	}

	log.Printf("fetch East Money news for %d stocks...", len(codes))

	limit := a.Limit
	if limit <= 0 || limit > emPerStockLimit {
		limit = emPerStockLimit
	}

	client := &http.Client{Timeout: emClientTimeout}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		sem     = make(chan struct{}, emConcurrency)
		results = make([]RawNews, 0, len(codes)*limit)
	)

	for _, code := range codes {
		wg.Add(1)
		sem <- struct{}{}
		go func(code string) {
			defer wg.Done()
			defer func() { <-sem }()

			items, err := a.fetchForCode(ctx, client, code, limit)
			if err != nil {
				log.Printf("eastmoney: fetch %s: %v", code, err)
				return
			}
			mu.Lock()
			results = append(results, items...)
			mu.Unlock()
		}(code)
	}
	wg.Wait()

	return results, nil
}

func (a *EastMoneyStockFetcher) fetchForCode(ctx context.Context, client *http.Client, code string, limit int) ([]RawNews, error) {
	param := fmt.Sprintf(`{"uid":"","keyword":%q,"type":["cmsArticleWebOld"],"client":"web","clientVersion":"curr","clientType":"web","param":{"cmsArticleWebOld":{"searchScope":"default","sort":"default","pageIndex":1,"pageSize":%d}}}`, code, limit)
	reqURL := emSearchURL + "?param=" + url.QueryEscape(param)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, emMaxResponseBytes))
	if err != nil {
		return nil, err
	}

	var parsed emSearchResult
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	out := make([]RawNews, 0, len(parsed.Result.CmsArticle))
	for _, art := range parsed.Result.CmsArticle {
		title := stripEmTags(art.Title)
		if title == "" {
			continue
		}
		out = append(out, RawNews{
			Title:   title,
			Content: stripEmTags(art.Content),
			PubTime: art.Date,
			Source:  a.Name(),
			URL:     art.URL,
		})
	}
	return out, nil
}

// stripEmTags 去掉搜索接口返回的 <em> 高亮标签
func stripEmTags(s string) string {
	s = strings.ReplaceAll(s, "<em>", "")
	s = strings.ReplaceAll(s, "</em>", "")
	return strings.TrimSpace(s)
}

// getOptionalStockCodes 从环境变量读取自选股代码，逗号分隔，空白项忽略
func getOptionalStockCodes() []string {
	raw := os.Getenv("NEWS_STOCK_CODES")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			codes = append(codes, p)
		}
	}
	return codes
}
