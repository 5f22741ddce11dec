package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LJTian/NewsSieve/internal/aggregator"
	"github.com/LJTian/NewsSieve/internal/collector"
	"github.com/LJTian/NewsSieve/internal/config"
	"github.com/LJTian/NewsSieve/internal/matcher"
	"github.com/LJTian/NewsSieve/internal/pipeline"
	"github.com/LJTian/NewsSieve/internal/storage"
)

var ErrNoKeywords = errors.New("no keywords selected")

// Runner 执行一轮采集，*pipeline.Collector 满足该接口
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) pipeline.Result
}

type Server struct {
	runner        Runner
	groups        []matcher.KeywordGroup
	defaultGroups []string
	cache         *storage.Cache
	loc           *time.Location
}

func NewServer(runner Runner, groups []matcher.KeywordGroup, defaultGroups []string, cache *storage.Cache, loc *time.Location) *Server {
	if loc == nil {
		loc = time.UTC
	}
	return &Server{
		runner:        runner,
		groups:        groups,
		defaultGroups: defaultGroups,
		cache:         cache,
		loc:           loc,
	}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/groups", s.listGroups)
		v1.POST("/collect", s.collect)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listGroups(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data": gin.H{
			"groups":   s.groups,
			"defaults": s.defaultGroups,
		},
	})
}

type collectRequest struct {
	Start    string   `json:"start" binding:"required"`
	End      string   `json:"end" binding:"required"`
	Groups   []string `json:"groups"`
	Keywords []string `json:"keywords"`
}

type articleView struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	SourceLabel string    `json:"sourceLabel"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
	Matched     []string  `json:"matched"`
	Body        string    `json:"body"`
	Highlighted string    `json:"highlighted"`
}

type collectResponse struct {
	Articles []articleView           `json:"articles"`
	CopyText string                  `json:"copyText"`
	Sources  []pipeline.SourceReport `json:"sources"`
}

func (s *Server) collect(c *gin.Context) {
	var req collectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	window, err := s.parseWindow(req.Start, req.End)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	keywords, err := s.resolveKeywords(req)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	key := storage.CollectKey(window.Start, window.End, keywords)
	var cached collectResponse
	if s.cache.Get(ctx, key, &cached) {
		ok(c, cached)
		return
	}

	res := s.runner.Run(ctx, pipeline.Request{Window: window, Keywords: keywords})
	out := toResponse(res)

	// 空结果可能是站点暂时不可达，不缓存
	if len(out.Articles) > 0 {
		_ = s.cache.Set(ctx, key, out)
	}
	ok(c, out)
}

func (s *Server) parseWindow(start, end string) (collector.Window, error) {
	st, err := config.ParseTime(start, s.loc)
	if err != nil {
		return collector.Window{}, err
	}
	et, err := config.ParseTime(end, s.loc)
	if err != nil {
		return collector.Window{}, err
	}
	w := collector.Window{Start: st, End: et}
	if err := w.Validate(); err != nil {
		return collector.Window{}, err
	}
	return w, nil
}

// resolveKeywords groups 与 keywords 都未给出时使用默认分组
func (s *Server) resolveKeywords(req collectRequest) ([]string, error) {
	groups := req.Groups
	if groups == nil && req.Keywords == nil {
		groups = s.defaultGroups
	}

	keywords, missing := matcher.Flatten(s.groups, groups)
	if len(missing) > 0 {
		return nil, errors.New("unknown groups: " + strings.Join(missing, ","))
	}

	// 额外关键词追加在分组关键词之后
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		seen[kw] = struct{}{}
	}
	for _, kw := range req.Keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}
	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}
	return keywords, nil
}

func toResponse(res pipeline.Result) collectResponse {
	out := collectResponse{
		Articles: make([]articleView, 0, len(res.Articles)),
		CopyText: res.CopyText,
		Sources:  res.Sources,
	}
	for _, a := range res.Articles {
		out.Articles = append(out.Articles, articleView{
			ID:          aggregator.ArticleID(a.URL),
			Source:      string(a.Source),
			SourceLabel: a.Source.Label(),
			Title:       a.Title,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			Matched:     a.Matched,
			Body:        a.Body,
			Highlighted: matcher.Highlight(a.Body, a.Matched, matcher.Bold),
		})
	}
	return out
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    data,
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    "bad_request",
		"message": msg,
	})
}
