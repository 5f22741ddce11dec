package collector

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/LJTian/NewsSieve/internal/logger"
)

func tenEntries() ([]ListingEntry, *fakeGetter) {
	g := &fakeGetter{pages: map[string]string{}, fail: map[string]bool{}}
	entries := make([]ListingEntry, 0, 10)
	for i := 1; i <= 10; i++ {
		url := fmt.Sprintf("article/%d", i)
		entries = append(entries, ListingEntry{Source: SourceYonhap, Title: fmt.Sprintf("t%d", i), URL: url})
		g.pages[url] = fmt.Sprintf("body %d 서울경찰청", i)
	}
	// 第 3、7 篇模拟抓取失败
	g.fail["article/3"] = true
	g.fail["article/7"] = true
	return entries, g
}

func identity(s string) string { return s }

func TestFetchIsolatesFailures(t *testing.T) {
	for _, strategy := range []Strategy{StrategyParallel, StrategySequential} {
		t.Run(string(strategy), func(t *testing.T) {
			entries, g := tenEntries()
			f := &BodyFetcher{Getter: g, Strategy: strategy, Concurrency: 4, Logger: logger.Discard()}

			var (
				mu    sync.Mutex
				calls []int
			)
			articles := f.Fetch(context.Background(), entries, identity, func(done, total int) {
				mu.Lock()
				defer mu.Unlock()
				if total != 10 {
					t.Errorf("total = %d, want 10", total)
				}
				calls = append(calls, done)
			})

			if len(articles) != 10 {
				t.Fatalf("got %d articles, want 10", len(articles))
			}
			fetched := 0
			for i, a := range articles {
				// 输出顺序与输入一致
				if a.URL != entries[i].URL {
					t.Fatalf("articles[%d].URL = %q, want %q", i, a.URL, entries[i].URL)
				}
				if a.Fetched {
					fetched++
				}
			}
			if fetched != 8 {
				t.Fatalf("fetched = %d, want 8", fetched)
			}
			if articles[2].Body != "" || articles[6].Body != "" {
				t.Fatalf("failed fetches must leave an empty body")
			}

			if len(calls) != 10 {
				t.Fatalf("progress called %d times, want 10", len(calls))
			}
			for i, done := range calls {
				if done != i+1 {
					t.Fatalf("progress not monotonic: %v", calls)
				}
			}
		})
	}
}

func TestFetchEmptyInput(t *testing.T) {
	f := &BodyFetcher{Getter: &fakeGetter{}, Logger: logger.Discard()}
	called := false
	got := f.Fetch(context.Background(), nil, identity, func(int, int) { called = true })
	if len(got) != 0 || called {
		t.Fatalf("empty input should produce no articles and no progress")
	}
}

func TestFetchAppliesExtractor(t *testing.T) {
	g := &fakeGetter{pages: map[string]string{
		"a": `<div class="viewer"><p>추출된 본문</p></div>`,
	}}
	f := &BodyFetcher{Getter: g, Logger: logger.Discard()}
	n := NewNewsisAdapter(NewsisConfig(testLoc))
	got := f.Fetch(context.Background(), []ListingEntry{{URL: "a"}}, n.ExtractBody, nil)
	if got[0].Body != "추출된 본문" {
		t.Fatalf("Body = %q", got[0].Body)
	}
}

func TestConcurrencyLimitIsClamped(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, DefaultConcurrency},
		{-3, DefaultConcurrency},
		{7, 7},
		{500, MaxConcurrency},
	}
	for _, c := range cases {
		f := &BodyFetcher{Concurrency: c.in}
		if got := f.limit(); got != c.want {
			t.Fatalf("limit(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	if s, err := ParseStrategy(""); err != nil || s != StrategyParallel {
		t.Fatalf("empty strategy = %q, %v", s, err)
	}
	if s, err := ParseStrategy(" Sequential "); err != nil || s != StrategySequential {
		t.Fatalf("sequential strategy = %q, %v", s, err)
	}
	if _, err := ParseStrategy("threads"); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}
