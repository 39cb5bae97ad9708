package main

import (
	"context"
	"log"
	"time"

	"github.com/LJTian/NewsRadar/internal/collector"
	"github.com/LJTian/NewsRadar/internal/config"
	"github.com/LJTian/NewsRadar/internal/impact"
	"github.com/LJTian/NewsRadar/internal/news"
	"github.com/LJTian/NewsRadar/internal/relevance"
	"github.com/LJTian/NewsRadar/internal/sentiment"
	"github.com/LJTian/NewsRadar/internal/storage"
)

// 一个仅执行一轮采集的命令行入口：适合手动触发与排查单个源
func main() {
	cfg := config.Load()

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	center := news.NewCenter(
		cfg.TTL,
		relevance.NewAnalyzer(relevance.DefaultRegistry()),
		impact.NewAssessor(),
		sentiment.NewLexiconScorer(),
		news.WithArchiver(store),
		news.WithSnapshotPath(cfg.SnapshotPath),
	)
	center.LoadSnapshot()

	fetchers := []collector.Fetcher{
		&collector.CLSTelegraphFetcher{},
		&collector.SinaRollFetcher{},
		&collector.EastMoneyStockFetcher{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, f := range fetchers {
		items, err := f.Fetch(ctx)
		if err != nil {
			log.Printf("fetch %s error: %v", f.Name(), err)
			continue
		}
		added, skipped := center.AddNewsBatch(items)
		log.Printf("%s done, fetched=%d added=%d skipped=%d", f.Name(), len(items), added, skipped)
	}

	if err := center.SaveSnapshot(); err != nil {
		log.Printf("save snapshot error: %v", err)
	}

	stats := center.Stats()
	log.Printf("cache: size=%d total_added=%d duplicates=%d", stats.CurrentSize, stats.TotalAdded, stats.DuplicatesSkipped)
}
