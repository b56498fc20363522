package source

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var (
	blockStripRe = regexp.MustCompile(`(?is)<(?:script|style|nav|footer|aside)\b[^>]*>.*?</(?:script|style|nav|footer|aside)\s*>`)
	paraBreakRe  = regexp.MustCompile(`(?i)</p\s*>|<br\s*/?>`)
	tagRe        = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	blankLineRe  = regexp.MustCompile(`\n{3,}`)
	numEntityRe  = regexp.MustCompile(`&#(x?)([0-9a-fA-F]+);`)
)

var namedEntities = map[string]string{
	"&amp;":  "&",
	"&lt;":   "<",
	"&gt;":   ">",
	"&quot;": `"`,
	"&#39;":  "'",
	"&nbsp;": " ",
}

// DecodeEntities decodes the named entities caption and page sources emit,
// plus decimal and hex numeric references.
func DecodeEntities(s string) string {
	for entity, repl := range namedEntities {
		s = strings.ReplaceAll(s, entity, repl)
	}

	return numEntityRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := numEntityRe.FindStringSubmatch(m)
		base := 10
		if sub[1] == "x" {
			base = 16
		}
		n, err := strconv.ParseInt(sub[2], base, 32)
		if err != nil || n <= 0 {
			return m
		}
		return string(rune(n))
	})
}

// StripHTML converts an HTML fragment to plain text: script/style/nav/
// footer/aside blocks are dropped, paragraph ends and line breaks become
// newlines, the remaining tags are removed, entities are decoded, and
// whitespace is collapsed.
func StripHTML(s string) string {
	s = blockStripRe.ReplaceAllString(s, " ")
	s = paraBreakRe.ReplaceAllString(s, "\n")
	s = tagRe.ReplaceAllString(s, " ")
	s = DecodeEntities(s)
	s = spaceRunRe.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankLineRe.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}

// firstMatch tries each pattern in order and returns the first non-empty
// capture. Hostile or unexpected markup yields "", never a crash.
func firstMatch(s string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(s); len(m) > 1 && strings.TrimSpace(m[1]) != "" {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// visibleText walks the parsed HTML tree and joins the text nodes, skipping
// script, style, and noscript. Fallback for pages whose markup defeats the
// regex passes.
func visibleText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "nav", "footer", "aside":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}
