package collector

import (
	"context"
	"log/slog"
	"time"
)

// StopReason 列表遍历的终止原因
type StopReason string

const (
	StopExhausted    StopReason = "exhausted"
	StopWindowPassed StopReason = "window-passed"
	StopFetchFailed  StopReason = "fetch-failed"
	StopPageLimit    StopReason = "page-limit"
	StopCanceled     StopReason = "canceled"
)

// WalkResult 一个站点的遍历结果，Entries 按列表顺序（新到旧）排列
type WalkResult struct {
	Source          Source
	Entries         []ListingEntry
	Pages           int
	Stop            StopReason
	OrderViolations int
}

// Walker 逐页遍历列表，直到越过时间窗口起点。
// 提前终止依赖站点列表严格按时间倒序，这一点无法在此校验，只能记录违例。
type Walker struct {
	Getter PageGetter
	Logger *slog.Logger
	// MaxPages 为 0 表示不限制
	MaxPages int
}

func (w *Walker) Walk(ctx context.Context, a Adapter, window Window) WalkResult {
	res := WalkResult{Source: a.Source()}
	log := loggerOrDefault(w.Logger).With("source", string(a.Source()))
	refYear := window.Start.Year()

	var prev time.Time
	for page := 1; ; page++ {
		if w.MaxPages > 0 && page > w.MaxPages {
			log.Warn("listing page limit reached", "max_pages", w.MaxPages)
			res.Stop = StopPageLimit
			return res
		}
		if ctx.Err() != nil {
			res.Stop = StopCanceled
			return res
		}

		url := a.ListingURL(page)
		html, err := w.Getter.Get(ctx, url)
		if err != nil {
			log.Warn("fetch listing page failed", "page", page, "err", err)
			res.Stop = StopFetchFailed
			return res
		}
		res.Pages = page

		raws := a.ParsePage(html)
		if len(raws) == 0 {
			res.Stop = StopExhausted
			return res
		}

		for _, raw := range raws {
			ts, err := a.ParseTimestamp(raw.RawTime, refYear)
			if err != nil {
				log.Debug("skip entry with bad timestamp", "title", raw.Title, "err", err)
				continue
			}

			if !prev.IsZero() && ts.After(prev) {
				res.OrderViolations++
				log.Warn("listing not in descending order",
					"page", page, "title", raw.Title, "at", ts, "previous", prev)
			}
			prev = ts

			if window.Before(ts) {
				res.Stop = StopWindowPassed
				log.Debug("window passed", "page", page, "at", ts)
				return res
			}
			if window.After(ts) {
				continue
			}
			res.Entries = append(res.Entries, ListingEntry{
				Source:      a.Source(),
				PublishedAt: ts,
				Title:       raw.Title,
				URL:         raw.URL,
			})
		}
	}
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
