package collector

import (
	"errors"
	"time"
)

// Source 标识一个新闻站点
type Source string

const (
	SourceNewsis Source = "newsis"
	SourceYonhap Source = "yonhap"
)

// Label 返回站点的展示名称
func (s Source) Label() string {
	switch s {
	case SourceNewsis:
		return "뉴시스"
	case SourceYonhap:
		return "연합뉴스"
	default:
		return string(s)
	}
}

var ErrInvalidWindow = errors.New("window end is before window start")

// Window 为闭区间 [Start, End]
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Before 表示 t 早于窗口起点
func (w Window) Before(t time.Time) bool {
	return t.Before(w.Start)
}

// After 表示 t 晚于窗口终点
func (w Window) After(t time.Time) bool {
	return t.After(w.End)
}

// Validate 只在 CLI / API 边界调用，核心流程不做校验
func (w Window) Validate() error {
	if w.End.Before(w.Start) {
		return ErrInvalidWindow
	}
	return nil
}

// ListingEntry 列表页中的一条候选新闻，创建后不再修改
type ListingEntry struct {
	Source      Source
	PublishedAt time.Time
	Title       string
	URL         string
}

// Article 在 ListingEntry 基础上附加正文与命中的关键词
type Article struct {
	ListingEntry
	Body    string
	Fetched bool
	Matched []string
}

// RawEntry 列表页解析出的原始字段，时间尚未解析
type RawEntry struct {
	Title   string
	URL     string
	RawTime string
}
