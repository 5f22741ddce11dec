package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppPort string

	RedisAddr string
	CacheTTL  time.Duration

	CronSpec     string
	CronLookback time.Duration

	// 抓取相关
	FetchStrategy    string
	FetchConcurrency int
	ListingTimeout   time.Duration
	BodyTimeout      time.Duration
	MaxPages         int
	UserAgent        string

	// 关键词分组文件，为空时使用内置分组
	KeywordsFile  string
	DefaultGroups []string

	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		AppPort:          getEnv("APP_PORT", "9000"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		CacheTTL:         getDuration("CACHE_TTL", "5m"),
		CronSpec:         getEnv("CRON_SPEC", "*/30 * * * *"),
		CronLookback:     getDuration("CRON_LOOKBACK", "30m"),
		FetchStrategy:    getEnv("FETCH_STRATEGY", "parallel"),
		FetchConcurrency: getInt("FETCH_CONCURRENCY", 20),
		ListingTimeout:   getDuration("LISTING_TIMEOUT", "5s"),
		BodyTimeout:      getDuration("BODY_TIMEOUT", "10s"),
		MaxPages:         getInt("MAX_PAGES", 200),
		UserAgent:        getEnv("USER_AGENT", "Mozilla/5.0"),
		KeywordsFile:     getEnv("KEYWORDS_FILE", ""),
		DefaultGroups:    splitAndTrim(getEnv("DEFAULT_GROUPS", "시경,종혜북")),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	log.Printf("config loaded: port=%s cron=%s strategy=%s concurrency=%d",
		cfg.AppPort, cfg.CronSpec, cfg.FetchStrategy, cfg.FetchConcurrency)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// getDuration 解析失败时回退到默认值，默认值本身必须合法
func getDuration(key, def string) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, def)); err == nil {
		return d
	}
	d, err := time.ParseDuration(def)
	if err != nil {
		panic("config: invalid default duration " + def)
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// 首尔时区，所有时间窗口与列表时间都按此时区解析
var locSeoul *time.Location

func init() {
	locSeoul, _ = time.LoadLocation("Asia/Seoul")
	if locSeoul == nil {
		locSeoul = time.FixedZone("KST", 9*3600)
	}
}

// Location 返回统一使用的时区
func Location() *time.Location {
	return locSeoul
}

// Now returns current time in Seoul, 方便后续做可测试封装
func Now() time.Time {
	return time.Now().In(locSeoul)
}

var timeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04"}

// ParseTime 支持 RFC3339，或按 loc 解析的本地时间
func ParseTime(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, want RFC3339 or 2006-01-02 15:04", raw)
}
