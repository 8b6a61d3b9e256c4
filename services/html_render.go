package services

import (
	"bufio"
	"bytes"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "keygen": true, "link": true,
	"meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

var rawTextElements = map[string]bool{
	"iframe": true, "noembed": true, "noframes": true, "noscript": true,
	"plaintext": true, "script": true, "style": true, "xmp": true,
}

// RenderHTML serializes the children of the first node in sel the way a
// browser's outerHTML does: void elements are written as <img ...> without a
// self-closing slash.
func RenderHTML(sel *goquery.Selection) (string, error) {
	if len(sel.Nodes) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	for c := sel.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if err := renderNode(w, c); err != nil {
			return "", err
		}
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderNode(w *bufio.Writer, n *html.Node) error {
	if n.Type != html.ElementNode {
		// text, comment and doctype nodes have no children and render the same
		return html.Render(w, n)
	}

	w.WriteByte('<')
	w.WriteString(n.Data)
	for _, a := range n.Attr {
		w.WriteByte(' ')
		if a.Namespace != "" {
			w.WriteString(a.Namespace)
			w.WriteByte(':')
		}
		w.WriteString(a.Key)
		w.WriteString(`="`)
		w.WriteString(strings.ReplaceAll(html.EscapeString(a.Val), "&#34;", "&quot;"))
		w.WriteByte('"')
	}
	w.WriteByte('>')

	if voidElements[n.Data] {
		if n.FirstChild != nil {
			return errors.New("html: void element <" + n.Data + "> has child nodes")
		}
		return nil
	}

	switch n.Data {
	case "pre", "listing", "textarea":
		if c := n.FirstChild; c != nil && c.Type == html.TextNode && strings.HasPrefix(c.Data, "\n") {
			w.WriteByte('\n')
		}
	}

	raw := rawTextElements[n.Data]
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if raw && c.Type == html.TextNode {
			w.WriteString(c.Data)
			continue
		}
		if err := renderNode(w, c); err != nil {
			return err
		}
	}

	w.WriteString("</")
	w.WriteString(n.Data)
	w.WriteByte('>')
	return nil
}
