package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	clsRollURL          = "https://www.cls.cn/nodeapi/telegraphList"
	clsMaxItems         = 50
	clsMaxResponseBytes = 1 << 20 // 1MB
	clsClientTimeout    = 10 * time.Second
	clsDefaultUserAgent = "NewsRadarBot/1.0"
)

// CLSTelegraphFetcher 通过财联社电报接口抓取实时快讯
type CLSTelegraphFetcher struct {
	// Limit 单次抓取条数上限，0 表示使用默认值
	Limit int
}

func (c *CLSTelegraphFetcher) Name() string {
	return "cls_telegraph"
}

type clsItem struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Brief string `json:"brief"`
	Ctime int64  `json:"ctime"`
}

type clsResponse struct {
	Data struct {
		RollData []clsItem `json:"roll_data"`
	} `json:"data"`
}

func (c *CLSTelegraphFetcher) Fetch(ctx context.Context) ([]RawNews, error) {
	log.Println("fetch CLS telegraph...")

	limit := c.Limit
	if limit <= 0 || limit > clsMaxItems {
		limit = clsMaxItems
	}

	client := &http.Client{Timeout: clsClientTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s?rn=%d", clsRollURL, limit), nil)
	if err != nil {
		return nil, fmt.Errorf("cls: build request: %w", err)
	}
	req.Header.Set("User-Agent", clsDefaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cls: fetch telegraph list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cls: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, clsMaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("cls: read body: %w", err)
	}

	var parsed clsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("cls: unmarshal: %w", err)
	}

	results := make([]RawNews, 0, len(parsed.Data.RollData))
	for _, it := range parsed.Data.RollData {
		title := it.Title
		// 电报类快讯常常只有正文没有标题，用正文兜底
		if title == "" {
			title = it.Brief
		}
		if title == "" {
			continue
		}
		results = append(results, RawNews{
			Title:   title,
			Content: it.Brief,
			PubTime: time.Unix(it.Ctime, 0).Format("2006-01-02 15:04:05"),
			Source:  c.Name(),
			URL:     fmt.Sprintf("https://www.cls.cn/detail/%d", it.ID),
		})
	}

	if len(results) == 0 {
		log.Println("cls: no items fetched")
	}
	return results, nil
}
