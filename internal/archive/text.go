package archive

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// textWithNewlines 把选区转成纯文本：<br> 变为换行，其余标签只保留文本。
// 格子文本里常见 <br> 分行与 <i>/<a> 内嵌标签，直接 .Text() 会丢掉分行。
func textWithNewlines(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeTextWithNewlines(&b, n)
	}
	return strings.TrimSpace(b.String())
}

func writeTextWithNewlines(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	if n.Type == html.ElementNode && n.Data == "br" {
		b.WriteString("\n")
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeTextWithNewlines(b, c)
	}
}

// stripTags 把一段 HTML 片段转成纯文本（response 里偶见 <i>/<em> 内嵌标签）。
func stripTags(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }
