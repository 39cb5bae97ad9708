package config

import (
	"os"
	"testing"
	"time"
)

func TestGetEnvWithDefault(t *testing.T) {
	const key = "TEST_APP_PORT"

	// 环境变量未设置时，应该返回默认值
	_ = os.Unsetenv(key)
	if got := getEnv(key, "9000"); got != "9000" {
		t.Fatalf("getEnv(%q) = %q, want %q", key, got, "9000")
	}

	// 环境变量设置后，应优先返回环境变量
	if err := os.Setenv(key, "8080"); err != nil {
		t.Fatalf("Setenv error: %v", err)
	}
	defer os.Unsetenv(key)
	if got := getEnv(key, "9000"); got != "8080" {
		t.Fatalf("getEnv(%q) = %q, want %q", key, got, "8080")
	}
}

func TestGetEnvMinutes(t *testing.T) {
	const key = "TEST_TTL_MIN"
	defer os.Unsetenv(key)

	_ = os.Unsetenv(key)
	if got := getEnvMinutes(key, 180); got != 180*time.Minute {
		t.Fatalf("default minutes = %v, want 180m", got)
	}

	_ = os.Setenv(key, "60")
	if got := getEnvMinutes(key, 180); got != time.Hour {
		t.Fatalf("minutes = %v, want 1h", got)
	}

	// 非法值回落到默认
	_ = os.Setenv(key, "abc")
	if got := getEnvMinutes(key, 180); got != 180*time.Minute {
		t.Fatalf("invalid value should fall back to default, got %v", got)
	}
	_ = os.Setenv(key, "-5")
	if got := getEnvMinutes(key, 180); got != 180*time.Minute {
		t.Fatalf("negative value should fall back to default, got %v", got)
	}
}

func TestLoadTTLPolicyOrdering(t *testing.T) {
	for _, key := range []string{"TTL_CRITICAL_MIN", "TTL_HIGH_MIN", "TTL_MEDIUM_MIN", "TTL_LOW_MIN"} {
		_ = os.Unsetenv(key)
	}

	cfg := Load()
	// 默认保留时长必须满足 critical > high > medium > low 的顺序语义
	if !(cfg.TTL.Critical > cfg.TTL.High && cfg.TTL.High > cfg.TTL.Medium && cfg.TTL.Medium > cfg.TTL.Low) {
		t.Fatalf("TTL ordering broken: %+v", cfg.TTL)
	}
}
