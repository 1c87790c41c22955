// Package headless provides the minimal document model the label sanitizer
// needs when no browser is around: a parsed blank page whose body is the
// context for fragment parsing.
package headless

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BlankDocument is the page every window starts from.
const BlankDocument = "<!doctype html><html><body></body></html>"

var ErrNoBody = errors.New("headless: document has no body")

// Window is a parsed document.
type Window struct {
	Document *html.Node
	body     *html.Node
}

// Factory builds a window from markup; NewWindow is the default.
type Factory func(markup string) (*Window, error)

// NewWindow parses markup into a document and locates its body.
func NewWindow(markup string) (*Window, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("headless: parse document: %w", err)
	}
	body := findElement(doc, atom.Body)
	if body == nil {
		return nil, ErrNoBody
	}
	return &Window{Document: doc, body: body}, nil
}

// Body returns the body element.
func (w *Window) Body() *html.Node {
	if w == nil {
		return nil
	}
	return w.body
}

// CreateFragment parses markup as the content of the body element. The
// returned nodes are detached from the document.
func (w *Window) CreateFragment(markup string) ([]*html.Node, error) {
	if w.Body() == nil {
		return nil, ErrNoBody
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), w.body)
	if err != nil {
		return nil, fmt.Errorf("headless: parse fragment: %w", err)
	}
	return nodes, nil
}

// Serialize renders nodes back to markup.
func Serialize(nodes []*html.Node) (string, error) {
	var sb strings.Builder
	for _, n := range nodes {
		if err := html.Render(&sb, n); err != nil {
			return "", fmt.Errorf("headless: render: %w", err)
		}
	}
	return sb.String(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
