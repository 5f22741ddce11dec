package collector

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Adapter 描述一个新闻站点：如何翻页、解析列表、解析时间以及提取正文。
// 实现必须是纯函数，不做网络请求。
type Adapter interface {
	Source() Source
	ListingURL(page int) string
	ParsePage(page string) []RawEntry
	ParseTimestamp(raw string, refYear int) (time.Time, error)
	ExtractBody(page string) string
}

// SiteConfig 站点的静态配置（URL 模板与选择器），可由 YAML 覆盖
type SiteConfig struct {
	ListingURL    string `yaml:"listing_url"`
	DetailURL     string `yaml:"detail_url"`
	ItemSelector  string `yaml:"item_selector"`
	TitleSelector string `yaml:"title_selector"`
	TimeSelector  string `yaml:"time_selector"`
	BodySelector  string `yaml:"body_selector"`
	LinkPrefix    string `yaml:"link_prefix"`
	TimeLayout    string `yaml:"time_layout"`

	Location *time.Location `yaml:"-"`
}

// Merge 用 override 中的非空字段覆盖当前配置
func (c SiteConfig) Merge(override SiteConfig) SiteConfig {
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&c.ListingURL, override.ListingURL)
	pick(&c.DetailURL, override.DetailURL)
	pick(&c.ItemSelector, override.ItemSelector)
	pick(&c.TitleSelector, override.TitleSelector)
	pick(&c.TimeSelector, override.TimeSelector)
	pick(&c.BodySelector, override.BodySelector)
	pick(&c.LinkPrefix, override.LinkPrefix)
	pick(&c.TimeLayout, override.TimeLayout)
	if override.Location != nil {
		c.Location = override.Location
	}
	return c
}

func (c SiteConfig) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// CompleteTimestamp 补全缺少年份的时间字符串：raw 按 layout 解析，年份取 refYear
func CompleteTimestamp(raw, layout string, refYear int, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-"+layout, fmt.Sprintf("%04d-%s", refYear, raw), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("complete timestamp %q with year %d: %w", raw, refYear, err)
	}
	return t, nil
}

func parseDocument(page string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(page))
}

// ExtractText 取 selector 匹配的第一个容器中的可见文本，每个文本节点去掉首尾空白后以换行连接。
// 容器不存在时返回空字符串。
func ExtractText(page, selector string) string {
	doc, err := parseDocument(page)
	if err != nil {
		return ""
	}
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}

	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(sel.Nodes[0])

	return strings.Join(parts, "\n")
}
