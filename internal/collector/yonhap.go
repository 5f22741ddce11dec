package collector

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// YonhapConfig 연합뉴스 最新新闻列表的默认配置；列表时间只有 "MM-DD HH:MM"，年份需要补全
func YonhapConfig(loc *time.Location) SiteConfig {
	return SiteConfig{
		ListingURL:    "https://www.yna.co.kr/news/%d?site=navi_latest_depth01",
		DetailURL:     "https://www.yna.co.kr/view/%s",
		ItemSelector:  "ul.list01 > li[data-cid]",
		TitleSelector: ".title01",
		TimeSelector:  ".txt-time",
		BodySelector:  "div.story-news.article",
		TimeLayout:    "01-02 15:04",
		Location:      loc,
	}
}

// YonhapAdapter 对应 Source B
type YonhapAdapter struct {
	cfg SiteConfig
}

func NewYonhapAdapter(cfg SiteConfig) *YonhapAdapter {
	return &YonhapAdapter{cfg: cfg}
}

func (y *YonhapAdapter) Source() Source {
	return SourceYonhap
}

func (y *YonhapAdapter) ListingURL(page int) string {
	return fmt.Sprintf(y.cfg.ListingURL, page)
}

func (y *YonhapAdapter) ParsePage(page string) []RawEntry {
	doc, err := parseDocument(page)
	if err != nil {
		return nil
	}

	out := make([]RawEntry, 0, 25)
	doc.Find(y.cfg.ItemSelector).Each(func(_ int, item *goquery.Selection) {
		cid, _ := item.Attr("data-cid")
		cid = strings.TrimSpace(cid)
		title := strings.TrimSpace(item.Find(y.cfg.TitleSelector).First().Text())
		timeSel := item.Find(y.cfg.TimeSelector).First()
		if cid == "" || title == "" || timeSel.Length() == 0 {
			return
		}

		out = append(out, RawEntry{
			Title:   title,
			URL:     fmt.Sprintf(y.cfg.DetailURL, cid),
			RawTime: strings.TrimSpace(timeSel.Text()),
		})
	})
	return out
}

func (y *YonhapAdapter) ParseTimestamp(raw string, refYear int) (time.Time, error) {
	return CompleteTimestamp(raw, y.cfg.TimeLayout, refYear, y.cfg.location())
}

func (y *YonhapAdapter) ExtractBody(page string) string {
	return ExtractText(page, y.cfg.BodySelector)
}
