package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/LJTian/NewsRadar/internal/news"
)

type Config struct {
	AppPort string

	// PostgresDSN 归档库连接串，留空则不落库
	PostgresDSN string
	// RedisAddr 查询缓存地址，留空则不启用
	RedisAddr string

	SnapshotPath string

	// CleanupCron / SnapshotCron 维护任务的 cron 表达式
	CleanupCron  string
	SnapshotCron string

	// TTL 各紧急层级的缓存保留时长
	TTL news.TTLPolicy

	BasicAuthUser string
	BasicAuthPass string
}

func Load() *Config {
	cfg := &Config{
		AppPort:      getEnv("APP_PORT", "9000"),
		PostgresDSN:  getEnv("POSTGRES_DSN", ""),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		SnapshotPath: getEnv("SNAPSHOT_PATH", "data/news_snapshot.json"),
		CleanupCron:  getEnv("CLEANUP_CRON", "*/10 * * * *"),
		SnapshotCron: getEnv("SNAPSHOT_CRON", "*/30 * * * *"),
		TTL: news.TTLPolicy{
			Critical: getEnvMinutes("TTL_CRITICAL_MIN", 24*60),
			High:     getEnvMinutes("TTL_HIGH_MIN", 12*60),
			Medium:   getEnvMinutes("TTL_MEDIUM_MIN", 6*60),
			Low:      getEnvMinutes("TTL_LOW_MIN", 3*60),
		},
		BasicAuthUser: getEnv("APP_BASIC_USER", ""),
		BasicAuthPass: getEnv("APP_BASIC_PASS", ""),
	}

	log.Printf("config loaded: port=%s cleanup=%q snapshot=%q", cfg.AppPort, cfg.CleanupCron, cfg.SnapshotCron)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvMinutes 读取以分钟为单位的时长配置，非法值回落到默认
func getEnvMinutes(key string, defMinutes int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
		log.Printf("warn: invalid %s=%q, use default %d min", key, v, defMinutes)
	}
	return time.Duration(defMinutes) * time.Minute
}
