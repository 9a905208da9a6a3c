package canonicalize

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// urlAttrs are the HTML attributes whose value is a URL reference
// (spec §4.4).
var urlAttrs = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"poster":     true,
	"data":       true,
	"cite":       true,
	"formaction": true,
}

// metaURLPattern matches the "url=..." portion of a <meta> content
// attribute (e.g. `0;url=/next.html`), the one place a bare attribute
// isn't itself a URL but contains one.
var metaURLPattern = regexp.MustCompile(`(?i)(url=)([^;]+)`)

// HTML rewrites every URL-bearing attribute (including url(...) inside
// inline style attributes, and the url= portion of <meta> content
// attributes) in an HTML fragment or document.
func HTML(content, root, targetPath string) (string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(content), &html.Node{
		Type: html.ElementNode, Data: "body", DataAtom: atom.Body,
	})
	if err != nil {
		return "", err
	}

	for _, n := range nodes {
		rewriteNode(n, root, targetPath)
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func rewriteNode(n *html.Node, root, targetPath string) {
	if n.Type == html.ElementNode {
		for i, attr := range n.Attr {
			switch {
			case attr.Key == "style":
				rewritten, err := CSS(attr.Val, root, targetPath)
				if err == nil {
					n.Attr[i].Val = rewritten
				}
			case n.Data == "meta" && attr.Key == "content":
				n.Attr[i].Val = metaURLPattern.ReplaceAllStringFunc(attr.Val, func(m string) string {
					parts := metaURLPattern.FindStringSubmatch(m)
					return parts[1] + rewriteURL(parts[2], root, targetPath)
				})
			case urlAttrs[attr.Key]:
				n.Attr[i].Val = rewriteURL(attr.Val, root, targetPath)
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, root, targetPath)
	}
}
