package collector

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// SinaRollFetcher 抓取新浪财经 7x24 滚动页
type SinaRollFetcher struct{}

func (s *SinaRollFetcher) Name() string {
	return "sina_finance"
}

func (s *SinaRollFetcher) Fetch(ctx context.Context) ([]RawNews, error) {
	log.Println("fetch Sina finance roll...")

	c := colly.NewCollector(
		colly.AllowedDomains("finance.sina.com.cn"),
		colly.UserAgent("NewsRadarBot/1.0"),
	)
	c.SetRequestTimeout(10 * time.Second)

	results := make([]RawNews, 0, 50)
	today := time.Now().Format("2006-01-02")

	// 页面结构可能调整，此处基于当前的 DOM 结构做"尽力而为"的解析
	c.OnHTML("div.bd_i", func(e *colly.HTMLElement) {
		select {
		case <-ctx.Done():
			return
		default:
		}

		title := firstNonEmptyText(e.DOM, "p.bd_i_txt_c", "a")
		if title == "" {
			return
		}

		link := e.ChildAttr("a", "href")
		if link != "" && !strings.HasPrefix(link, "http") {
			link = "https://finance.sina.com.cn" + link
		}

		// 滚动页只展示 HH:MM 时间，补全为当天日期
		pubTime := strings.TrimSpace(e.ChildText("p.bd_i_time_c"))
		if pubTime != "" && len(pubTime) <= 5 {
			pubTime = today + " " + pubTime + ":00"
		}

		results = append(results, RawNews{
			Title:   title,
			Content: title,
			PubTime: pubTime,
			Source:  s.Name(),
			URL:     link,
		})
	})

	if err := c.Visit("https://finance.sina.com.cn/7x24/"); err != nil {
		return nil, err
	}
	c.Wait()

	if len(results) == 0 {
		log.Println("sina: no items fetched")
	}
	return results, nil
}

// firstNonEmptyText 依次尝试多个选择器，返回第一个非空文本
func firstNonEmptyText(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		if text := strings.TrimSpace(sel.Find(s).First().Text()); text != "" {
			return text
		}
	}
	return ""
}
