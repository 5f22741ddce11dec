package matcher

import (
	"strings"
	"unicode/utf8"

	"github.com/LJTian/NewsSieve/internal/collector"
)

// KeywordGroup 一组关键词，例如某个警察署辖区
type KeywordGroup struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Flatten 将选中的分组展开为关键词列表，保持分组与组内顺序，去重并忽略空串。
// 返回值 missing 为不存在的分组名。
func Flatten(groups []KeywordGroup, names []string) (keywords, missing []string) {
	byName := make(map[string]KeywordGroup, len(groups))
	for _, g := range groups {
		byName[g.Name] = g
	}

	seen := make(map[string]struct{})
	for _, name := range names {
		g, ok := byName[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		for _, kw := range g.Keywords {
			if kw == "" {
				continue
			}
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			keywords = append(keywords, kw)
		}
	}
	return keywords, missing
}

// Matches 返回 body 中以字面子串形式出现的关键词，顺序与 keywords 一致。
// 区分大小写，不要求词边界。
func Matches(body string, keywords []string) []string {
	if body == "" {
		return nil
	}
	var out []string
	for _, kw := range keywords {
		if kw != "" && strings.Contains(body, kw) {
			out = append(out, kw)
		}
	}
	return out
}

// Filter 为每篇文章写入命中的关键词，并丢弃没有命中的文章
func Filter(articles []collector.Article, keywords []string) []collector.Article {
	out := make([]collector.Article, 0, len(articles))
	for _, a := range articles {
		matched := Matches(a.Body, keywords)
		if len(matched) == 0 {
			continue
		}
		a.Matched = matched
		out = append(out, a)
	}
	return out
}

// Bold 以 markdown 粗体标记关键词
func Bold(kw string) string {
	return "**" + kw + "**"
}

// Highlight 将 text 中关键词的出现替换为 wrap(kw)。
// 从左到右扫描，每个位置取最长的匹配关键词，匹配之间互不重叠，
// 因此 "서울대" 与 "서울대병원" 同时存在时只会标记后者。
func Highlight(text string, keywords []string, wrap func(string) string) string {
	if text == "" || len(keywords) == 0 {
		return text
	}
	if wrap == nil {
		wrap = Bold
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		best := ""
		for _, kw := range keywords {
			if len(kw) > len(best) && strings.HasPrefix(text[i:], kw) {
				best = kw
			}
		}
		if best != "" {
			b.WriteString(wrap(best))
			i += len(best)
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		b.WriteString(text[i : i+size])
		i += size
	}
	return b.String()
}
