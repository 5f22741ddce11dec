package aggregator

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/LJTian/NewsSieve/internal/collector"
)

// CondensedBodyLimit 复制用摘要中正文保留的字符数
const CondensedBodyLimit = 300

// Merge 按传入顺序拼接各站点结果：不跨站点重排，也不去重
func Merge(perSource ...[]collector.Article) []collector.Article {
	n := 0
	for _, list := range perSource {
		n += len(list)
	}
	out := make([]collector.Article, 0, n)
	for _, list := range perSource {
		out = append(out, list...)
	}
	return out
}

// CondensedLine 单篇文章的复制格式："△标题\n-正文前 300 字\n\n"，正文中的换行替换为空格
func CondensedLine(a collector.Article) string {
	body := truncateRunes(strings.ReplaceAll(a.Body, "\n", " "), CondensedBodyLimit)
	return "△" + a.Title + "\n-" + body + "\n\n"
}

// CopyText 拼接所有文章的复制格式
func CopyText(articles []collector.Article) string {
	var b strings.Builder
	for _, a := range articles {
		b.WriteString(CondensedLine(a))
	}
	return b.String()
}

// ArticleID 以 URL 的 sha1 作为稳定 ID
func ArticleID(url string) string {
	h := sha1.New()
	h.Write([]byte(url))
	return hex.EncodeToString(h.Sum(nil))
}

// truncateRunes 按 rune 截断，不追加省略号
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}
