package collector

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var newsisTimePattern = regexp.MustCompile(`\d{4}\.\d{2}\.\d{2} \d{2}:\d{2}:\d{2}`)

// NewsisConfig 뉴시스 实时新闻列表的默认配置，时间格式带年份
func NewsisConfig(loc *time.Location) SiteConfig {
	return SiteConfig{
		ListingURL:    "https://www.newsis.com/realnews/?cid=realnews&day=today&page=%d",
		DetailURL:     "https://www.newsis.com%s",
		ItemSelector:  "ul.articleList2 > li",
		TitleSelector: "p.tit > a",
		TimeSelector:  "p.time",
		BodySelector:  "div.viewer",
		LinkPrefix:    "/view/",
		TimeLayout:    "2006.01.02 15:04:05",
		Location:      loc,
	}
}

// NewsisAdapter 对应 Source A
type NewsisAdapter struct {
	cfg SiteConfig
}

func NewNewsisAdapter(cfg SiteConfig) *NewsisAdapter {
	return &NewsisAdapter{cfg: cfg}
}

func (n *NewsisAdapter) Source() Source {
	return SourceNewsis
}

func (n *NewsisAdapter) ListingURL(page int) string {
	return fmt.Sprintf(n.cfg.ListingURL, page)
}

func (n *NewsisAdapter) ParsePage(page string) []RawEntry {
	doc, err := parseDocument(page)
	if err != nil {
		return nil
	}

	out := make([]RawEntry, 0, 20)
	doc.Find(n.cfg.ItemSelector).Each(func(_ int, item *goquery.Selection) {
		titleSel := item.Find(n.cfg.TitleSelector).First()
		timeSel := item.Find(n.cfg.TimeSelector).First()
		if titleSel.Length() == 0 || timeSel.Length() == 0 {
			return
		}

		title := strings.TrimSpace(titleSel.Text())
		href, _ := titleSel.Attr("href")
		href = strings.TrimSpace(href)
		// 只保留正文页链接，广告和专题页跳过
		if title == "" || !strings.HasPrefix(href, n.cfg.LinkPrefix) {
			return
		}

		out = append(out, RawEntry{
			Title:   title,
			URL:     fmt.Sprintf(n.cfg.DetailURL, href),
			RawTime: timeSel.Text(),
		})
	})
	return out
}

// ParseTimestamp 时间节点中混有记者名等文字，只取其中的完整日期时间
func (n *NewsisAdapter) ParseTimestamp(raw string, _ int) (time.Time, error) {
	m := newsisTimePattern.FindString(raw)
	if m == "" {
		return time.Time{}, fmt.Errorf("newsis: no timestamp in %q", strings.TrimSpace(raw))
	}
	return time.ParseInLocation(n.cfg.TimeLayout, m, n.cfg.location())
}

func (n *NewsisAdapter) ExtractBody(page string) string {
	return ExtractText(page, n.cfg.BodySelector)
}
