package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/LJTian/NewsSieve/internal/aggregator"
	"github.com/LJTian/NewsSieve/internal/collector"
	"github.com/LJTian/NewsSieve/internal/matcher"
)

// ProgressFunc 报告某个站点的正文抓取进度
type ProgressFunc func(src collector.Source, done, total int)

type Request struct {
	Window   collector.Window
	Keywords []string
	Progress ProgressFunc
}

// SourceReport 单个站点本轮采集的统计
type SourceReport struct {
	Source          collector.Source     `json:"source"`
	Stop            collector.StopReason `json:"stop"`
	Pages           int                  `json:"pages"`
	Candidates      int                  `json:"candidates"`
	Fetched         int                  `json:"fetched"`
	Matched         int                  `json:"matched"`
	OrderViolations int                  `json:"orderViolations"`
	Elapsed         time.Duration        `json:"elapsed"`
}

// Result 空结果与"没有找到"无法区分，由调用方决定如何展示
type Result struct {
	Articles []collector.Article
	CopyText string
	Sources  []SourceReport
}

// Collector 串联列表遍历、正文抓取、关键词过滤与合并
type Collector struct {
	Adapters []collector.Adapter
	Walker   *collector.Walker
	Bodies   *collector.BodyFetcher
	Logger   *slog.Logger
}

// Run 各站点并行处理，站点内部列表翻页严格串行；
// 结果按 Adapters 的顺序合并，每个站点内部保持列表顺序（新到旧）。
func (c *Collector) Run(ctx context.Context, req Request) Result {
	log := c.Logger
	if log == nil {
		log = slog.Default()
	}
	if len(req.Keywords) == 0 {
		log.Warn("no keywords selected, nothing can match")
	}

	perSource := make([][]collector.Article, len(c.Adapters))
	reports := make([]SourceReport, len(c.Adapters))

	var wg sync.WaitGroup
	for i, a := range c.Adapters {
		i, a := i, a
		wg.Add(1)
		go func() {
			defer wg.Done()
			perSource[i], reports[i] = c.runSource(ctx, a, req)
			log.Info("source done",
				"source", string(a.Source()),
				"stop", string(reports[i].Stop),
				"pages", reports[i].Pages,
				"candidates", reports[i].Candidates,
				"fetched", reports[i].Fetched,
				"matched", reports[i].Matched,
				"elapsed", reports[i].Elapsed,
			)
		}()
	}
	wg.Wait()

	articles := aggregator.Merge(perSource...)
	return Result{
		Articles: articles,
		CopyText: aggregator.CopyText(articles),
		Sources:  reports,
	}
}

func (c *Collector) runSource(ctx context.Context, a collector.Adapter, req Request) ([]collector.Article, SourceReport) {
	started := time.Now()
	walk := c.Walker.Walk(ctx, a, req.Window)

	var progress collector.ProgressFunc
	if req.Progress != nil {
		src := a.Source()
		progress = func(done, total int) { req.Progress(src, done, total) }
	}

	fetched := c.Bodies.Fetch(ctx, walk.Entries, a.ExtractBody, progress)
	matched := matcher.Filter(fetched, req.Keywords)

	report := SourceReport{
		Source:          a.Source(),
		Stop:            walk.Stop,
		Pages:           walk.Pages,
		Candidates:      len(walk.Entries),
		Matched:         len(matched),
		OrderViolations: walk.OrderViolations,
	}
	for _, art := range fetched {
		if art.Fetched {
			report.Fetched++
		}
	}
	report.Elapsed = time.Since(started)
	return matched, report
}
