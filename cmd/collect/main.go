package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/LJTian/NewsSieve/internal/collector"
	"github.com/LJTian/NewsSieve/internal/config"
	"github.com/LJTian/NewsSieve/internal/logger"
	"github.com/LJTian/NewsSieve/internal/matcher"
	"github.com/LJTian/NewsSieve/internal/pipeline"
)

// 一个仅执行一次采集任务的命令行入口：进度写到 stderr，结果与复制文本写到 stdout
func main() {
	cfg := config.Load()

	now := config.Now()
	start := flag.String("start", now.Add(-time.Hour).Format("2006-01-02 15:04"), "window start (RFC3339 or 2006-01-02 15:04, Asia/Seoul)")
	end := flag.String("end", now.Format("2006-01-02 15:04"), "window end")
	groups := flag.String("groups", strings.Join(cfg.DefaultGroups, ","), "comma separated keyword groups")
	extra := flag.String("keywords", "", "extra comma separated keywords")
	keywordsFile := flag.String("keywords-file", cfg.KeywordsFile, "YAML keyword groups file")
	strategy := flag.String("strategy", cfg.FetchStrategy, "body fetch strategy: parallel or sequential")
	concurrency := flag.Int("concurrency", cfg.FetchConcurrency, "max in-flight body requests (1-50)")
	flag.Parse()

	appLog := logger.New("newssieve-collect", cfg.LogLevel)

	window, err := parseWindow(*start, *end)
	if err != nil {
		log.Fatalf("invalid window: %v", err)
	}

	file, err := config.LoadFile(*keywordsFile)
	if err != nil {
		log.Fatalf("load keywords failed: %v", err)
	}
	keywords, missing := matcher.Flatten(file.Groups, splitList(*groups))
	if len(missing) > 0 {
		log.Printf("warn: unknown groups ignored: %v", missing)
	}
	keywords = appendUnique(keywords, splitList(*extra))
	if len(keywords) == 0 {
		log.Fatalf("no keywords selected")
	}

	st, err := collector.ParseStrategy(*strategy)
	if err != nil {
		log.Fatalf("invalid strategy: %v", err)
	}

	c := &pipeline.Collector{
		Adapters: file.Adapters(),
		Walker: &collector.Walker{
			Getter:   collector.NewCollyGetter(cfg.UserAgent, cfg.ListingTimeout),
			Logger:   appLog,
			MaxPages: cfg.MaxPages,
		},
		Bodies: &collector.BodyFetcher{
			Getter:      collector.NewCollyGetter(cfg.UserAgent, cfg.BodyTimeout),
			Strategy:    st,
			Concurrency: *concurrency,
			Logger:      appLog,
		},
		Logger: appLog,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var mu sync.Mutex
	res := c.Run(ctx, pipeline.Request{
		Window:   window,
		Keywords: keywords,
		Progress: func(src collector.Source, done, total int) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(os.Stderr, "\r%s %d/%d", src.Label(), done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		},
	})

	for _, r := range res.Sources {
		fmt.Fprintf(os.Stderr, "%s: stop=%s pages=%d candidates=%d fetched=%d matched=%d\n",
			r.Source.Label(), r.Stop, r.Pages, r.Candidates, r.Fetched, r.Matched)
	}

	if len(res.Articles) == 0 {
		fmt.Println("조건에 맞는 기사가 없습니다.")
		return
	}

	loc := config.Location()
	for _, a := range res.Articles {
		fmt.Printf("[%s] %s %s\n%s\n키워드: %s\n\n%s\n\n",
			a.Source.Label(),
			a.PublishedAt.In(loc).Format("2006-01-02 15:04"),
			a.Title,
			a.URL,
			strings.Join(a.Matched, ", "),
			matcher.Highlight(a.Body, a.Matched, matcher.Bold),
		)
	}
	fmt.Println("----")
	fmt.Print(res.CopyText)
}

func parseWindow(start, end string) (collector.Window, error) {
	loc := config.Location()
	st, err := config.ParseTime(start, loc)
	if err != nil {
		return collector.Window{}, err
	}
	et, err := config.ParseTime(end, loc)
	if err != nil {
		return collector.Window{}, err
	}
	w := collector.Window{Start: st, End: et}
	return w, w.Validate()
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func appendUnique(dst, extra []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		seen[s] = struct{}{}
	}
	for _, s := range extra {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}
