package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LJTian/NewsSieve/internal/api"
	"github.com/LJTian/NewsSieve/internal/collector"
	"github.com/LJTian/NewsSieve/internal/config"
	"github.com/LJTian/NewsSieve/internal/logger"
	"github.com/LJTian/NewsSieve/internal/matcher"
	"github.com/LJTian/NewsSieve/internal/pipeline"
	"github.com/LJTian/NewsSieve/internal/scheduler"
	"github.com/LJTian/NewsSieve/internal/storage"
)

func main() {
	cfg := config.Load()
	appLog := logger.New("newssieve-api", cfg.LogLevel)

	file, err := config.LoadFile(cfg.KeywordsFile)
	if err != nil {
		log.Fatalf("load keywords failed: %v", err)
	}

	strategy, err := collector.ParseStrategy(cfg.FetchStrategy)
	if err != nil {
		log.Fatalf("invalid fetch strategy: %v", err)
	}

	// 列表页与正文页使用不同的超时
	listing := collector.NewCollyGetter(cfg.UserAgent, cfg.ListingTimeout)
	bodies := collector.NewCollyGetter(cfg.UserAgent, cfg.BodyTimeout)

	c := &pipeline.Collector{
		Adapters: file.Adapters(),
		Walker:   &collector.Walker{Getter: listing, Logger: appLog, MaxPages: cfg.MaxPages},
		Bodies: &collector.BodyFetcher{
			Getter:      bodies,
			Strategy:    strategy,
			Concurrency: cfg.FetchConcurrency,
			Logger:      appLog,
		},
		Logger: appLog,
	}

	cache := storage.NewCache(cfg.RedisAddr, cfg.CacheTTL)
	defer cache.Close()

	keywords, missing := matcher.Flatten(file.Groups, cfg.DefaultGroups)
	if len(missing) > 0 {
		log.Printf("warn: unknown default groups: %v", missing)
	}

	// 定时采集默认分组，只记录结果
	s, err := scheduler.New(cfg.CronSpec, c, keywords, cfg.CronLookback, config.Now)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.OnResult(func(res pipeline.Result) {
		for _, r := range res.Sources {
			appLog.Info("scheduled collect",
				"groups", storage.GroupsKey(cfg.DefaultGroups),
				"source", string(r.Source),
				"stop", string(r.Stop),
				"matched", r.Matched,
			)
		}
	})
	s.Start()
	defer s.Stop()

	r := gin.Default()
	api.NewServer(c, file.Groups, cfg.DefaultGroups, cache, config.Location()).RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}
	go func() {
		log.Printf("starting api server at %s ...", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server exit: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down ...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
