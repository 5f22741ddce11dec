package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Strategy 正文抓取的并发策略
type Strategy string

const (
	StrategySequential Strategy = "sequential"
	StrategyParallel   Strategy = "parallel"
)

const (
	DefaultConcurrency = 20
	MaxConcurrency     = 50
)

// ParseStrategy 未知取值返回错误，空字符串视为 parallel
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyParallel:
		return StrategyParallel, nil
	case StrategySequential:
		return StrategySequential, nil
	default:
		return "", fmt.Errorf("unknown fetch strategy %q", s)
	}
}

// ProgressFunc 每完成一篇调用一次，done 严格递增直到 total
type ProgressFunc func(done, total int)

// BodyFetcher 批量抓取正文。单篇失败按空正文处理，不会中断整批，也不重试。
type BodyFetcher struct {
	Getter      PageGetter
	Strategy    Strategy
	Concurrency int
	Logger      *slog.Logger
}

func (f *BodyFetcher) limit() int {
	n := f.Concurrency
	if n <= 0 {
		n = DefaultConcurrency
	}
	if n > MaxConcurrency {
		n = MaxConcurrency
	}
	return n
}

// Fetch 返回与 entries 同序的 Article；抓取失败的文章 Body 为空、Fetched 为 false
func (f *BodyFetcher) Fetch(ctx context.Context, entries []ListingEntry, extract func(string) string, progress ProgressFunc) []Article {
	articles := make([]Article, len(entries))
	for i, e := range entries {
		articles[i] = Article{ListingEntry: e}
	}
	if len(entries) == 0 {
		return articles
	}

	var (
		mu   sync.Mutex
		done int
	)
	total := len(entries)
	report := func() {
		mu.Lock()
		defer mu.Unlock()
		done++
		if progress != nil {
			progress(done, total)
		}
	}

	log := loggerOrDefault(f.Logger)

	// 每个 goroutine 只写自己下标的 Article，唯一共享的是进度计数
	fetchOne := func(i int) {
		defer report()
		html, err := f.Getter.Get(ctx, articles[i].URL)
		if err != nil {
			log.Debug("fetch body failed", "url", articles[i].URL, "err", err)
			return
		}
		articles[i].Body = extract(html)
		articles[i].Fetched = true
	}

	if f.Strategy == StrategySequential {
		for i := range articles {
			fetchOne(i)
		}
		return articles
	}

	var g errgroup.Group
	g.SetLimit(f.limit())
	for i := range articles {
		i := i
		g.Go(func() error {
			fetchOne(i)
			return nil
		})
	}
	_ = g.Wait()

	return articles
}
