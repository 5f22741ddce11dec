package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/LJTian/NewsSieve/internal/collector"
	"github.com/LJTian/NewsSieve/internal/pipeline"
)

// Runner 执行一轮采集，*pipeline.Collector 满足该接口
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) pipeline.Result
}

// Scheduler 定时采集最近 lookback 时间段内的新闻
type Scheduler struct {
	cron     *cron.Cron
	runner   Runner
	keywords []string
	lookback time.Duration
	now      func() time.Time
	onResult func(pipeline.Result)

	// 上一轮未结束时跳过本轮，避免两轮同时翻页
	mu      sync.Mutex
	running bool
}

func New(spec string, runner Runner, keywords []string, lookback time.Duration, now func() time.Time) (*Scheduler, error) {
	c := cron.New()

	if now == nil {
		now = time.Now
	}
	s := &Scheduler{
		cron:     c,
		runner:   runner,
		keywords: keywords,
		lookback: lookback,
		now:      now,
	}

	_, err := c.AddFunc(spec, func() { s.runOnce() })
	if err != nil {
		return nil, err
	}

	return s, nil
}

// OnResult 注册每轮采集结束后的回调
func (s *Scheduler) OnResult(fn func(pipeline.Result)) {
	s.onResult = fn
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce 对外暴露的单次执行入口，方便手动触发采集；上一轮仍在运行时返回 false
func (s *Scheduler) RunOnce() (pipeline.Result, bool) {
	return s.runOnce()
}

func (s *Scheduler) runOnce() (pipeline.Result, bool) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Println("previous collect job still running, skip")
		return pipeline.Result{}, false
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	end := s.now()
	window := collector.Window{Start: end.Add(-s.lookback), End: end}
	log.Printf("start collect job: %s ~ %s, %d keywords",
		window.Start.Format("2006-01-02 15:04"), window.End.Format("2006-01-02 15:04"), len(s.keywords))

	res := s.runner.Run(context.Background(), pipeline.Request{
		Window:   window,
		Keywords: s.keywords,
	})

	log.Printf("collect job done: matched=%d copyText=%d bytes", len(res.Articles), len(res.CopyText))
	if s.onResult != nil {
		s.onResult(res)
	}
	return res, true
}
