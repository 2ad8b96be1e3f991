// Package render writes explanation trees for presentation layers.
package render

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/cognicore/chainer/pkg/chainer/internalerr"
	"github.com/cognicore/chainer/pkg/chainer/kb"
)

// Supported output formats
const (
	FormatText = "text"
	FormatHTML = "html"
)

// Write renders e in the given format.
func Write(w io.Writer, e *kb.Explanation, format string) error {
	switch format {
	case "", FormatText:
		_, err := io.WriteString(w, e.String())
		return err
	case FormatHTML:
		return HTML(w, e)
	default:
		return fmt.Errorf("unknown format %q: %w", format, internalerr.ErrInvalidInput)
	}
}

// HTML renders e as nested lists:
//
//	<ul class="explanation"><li><span class="fact">...</span>
//	  <ul class="supported-by"><li>...</li></ul></li></ul>
func HTML(w io.Writer, e *kb.Explanation) error {
	root := element(atom.Ul, "explanation")
	root.AppendChild(itemNode(e, true))
	return html.Render(w, root)
}

func itemNode(e *kb.Explanation, top bool) *html.Node {
	li := element(atom.Li, "")

	label := element(atom.Span, e.Kind.String())
	label.AppendChild(&html.Node{Type: html.TextNode, Data: e.Kind.String() + ": " + e.Text})
	li.AppendChild(label)

	if e.Asserted && !top {
		mark := element(atom.Span, "asserted")
		mark.AppendChild(&html.Node{Type: html.TextNode, Data: "ASSERTED"})
		li.AppendChild(mark)
	}

	for _, s := range e.Supports {
		group := element(atom.Ul, "supported-by")
		group.AppendChild(itemNode(s.Fact, false))
		group.AppendChild(itemNode(s.Rule, false))
		li.AppendChild(group)
	}
	return li
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}
