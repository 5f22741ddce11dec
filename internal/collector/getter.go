package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
)

var ErrUnexpectedStatus = errors.New("unexpected status code")

// PageGetter 获取一个 HTML 页面；列表翻页与正文抓取共用
type PageGetter interface {
	Get(ctx context.Context, url string) (string, error)
}

// CollyGetter 基于 colly 的页面获取器。每次请求都从 base 克隆一个新的 collector，
// 回调互不干扰，因此可以被多个 goroutine 同时使用。
type CollyGetter struct {
	base *colly.Collector
}

func NewCollyGetter(userAgent string, timeout time.Duration) *CollyGetter {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(timeout)
	return &CollyGetter{base: c}
}

func (g *CollyGetter) Get(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := g.base.Clone()

	var (
		body   []byte
		status int
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})

	if err := c.Visit(url); err != nil {
		return "", fmt.Errorf("get %s: %w", url, err)
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("get %s: %w: %d", url, ErrUnexpectedStatus, status)
	}
	return string(body), nil
}
