// Package html builds dom documents from HTML source using
// golang.org/x/net/html as the underlying parser.
package html

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/chrisuehlinger/dropzone/dom"
)

// Parse reads an HTML document. Contents of style elements are registered
// as document stylesheets; script and link elements are kept for the page
// loader.
func Parse(r io.Reader) (*dom.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("html: %w", err)
	}
	doc := dom.NewEmptyDocument()
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			if err := convert(doc, doc.AsNode(), c); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*dom.Document, error) {
	return Parse(strings.NewReader(s))
}

func convert(doc *dom.Document, parent *dom.Node, n *html.Node) error {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		_, err := parent.AppendChild(doc.CreateTextNode(n.Data))
		return err
	case html.ElementNode:
		el := doc.CreateElement(n.Data)
		for _, a := range n.Attr {
			if a.Namespace == "" {
				el.SetAttribute(a.Key, a.Val)
			}
		}
		if _, err := parent.AppendChild(el.AsNode()); err != nil {
			return err
		}
		if n.DataAtom == atom.Style {
			doc.AddStyleSheet(rawText(n))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := convert(doc, el.AsNode(), c); err != nil {
				return err
			}
		}
	}
	return nil
}

func rawText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
