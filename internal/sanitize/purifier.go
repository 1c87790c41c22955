// Package sanitize cleans user-visible diagram labels before they reach
// markup. It needs a headless document to parse fragments against; a purifier
// without one still escapes text but cannot remove scripts.
package sanitize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"mmdcheck/internal/headless"
)

var ErrUnbound = errors.New("sanitize: purifier is not bound to a document")

// Level is the diagram security level.
type Level string

const (
	LevelStrict     Level = "strict"
	LevelLoose      Level = "loose"
	LevelAntiscript Level = "antiscript"
	LevelSandbox    Level = "sandbox"
)

// ParseLevel validates a level name.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelStrict, LevelLoose, LevelAntiscript, LevelSandbox:
		return l, nil
	}
	return "", fmt.Errorf("unknown security level %q (want strict, loose, antiscript or sandbox)", s)
}

// Options mirror the label-related engine settings.
type Options struct {
	Level Level
	// HTMLLabels off skips the level-specific pass.
	HTMLLabels bool
}

// Purifier is shared by everything that renders labels. Bind configures it
// in place, so holders of the pointer see the change.
type Purifier struct {
	mu     sync.RWMutex
	window *headless.Window
}

// New returns an unbound purifier; Bind makes it able to remove scripts.
func New() *Purifier {
	return &Purifier{}
}

// Bind attaches the document fragments are parsed against.
func (p *Purifier) Bind(w *headless.Window) error {
	if w.Body() == nil {
		return headless.ErrNoBody
	}
	p.mu.Lock()
	p.window = w
	p.mu.Unlock()
	return nil
}

// Ready reports whether a document is bound.
func (p *Purifier) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.window != nil
}

var breakTag = regexp.MustCompile(`(?i)<br\s*/?>`)

const breakPlaceholder = "#br#"

// SanitizeText applies the level policy, then the purifier with <style>
// forbidden. Unbound, strict and antiscript fail with ErrUnbound while loose
// and sandbox skip the purifier.
func (p *Purifier) SanitizeText(text string, opts Options) (string, error) {
	if text == "" {
		return text, nil
	}
	if opts.HTMLLabels {
		switch opts.Level {
		case LevelStrict, LevelAntiscript:
			var err error
			if text, err = p.RemoveScript(text); err != nil {
				return "", err
			}
		case LevelLoose:
		default:
			text = escapeMarkup(text)
		}
	}
	if !p.Ready() {
		return text, nil
	}
	return p.purify(text, forbidStyle)
}

// RemoveScript drops script elements, event handlers and script URLs.
func (p *Purifier) RemoveScript(text string) (string, error) {
	if !p.Ready() {
		return "", ErrUnbound
	}
	return p.purify(text, nil)
}

// escapeMarkup turns every tag except <br> into text.
func escapeMarkup(text string) string {
	text = breakTag.ReplaceAllString(text, breakPlaceholder)
	text = strings.NewReplacer("<", "&lt;", ">", "&gt;", "=", "&equals;").Replace(text)
	return strings.ReplaceAll(text, breakPlaceholder, "<br/>")
}

var forbidStyle = map[atom.Atom]bool{atom.Style: true}

func (p *Purifier) purify(text string, extra map[atom.Atom]bool) (string, error) {
	p.mu.RLock()
	w := p.window
	p.mu.RUnlock()

	nodes, err := w.CreateFragment(text)
	if err != nil {
		return "", err
	}
	kept := nodes[:0]
	for _, n := range nodes {
		if n.Type == html.ElementNode && (dangerous[n.DataAtom] || extra[n.DataAtom]) {
			continue
		}
		clean(n, extra)
		kept = append(kept, n)
	}
	return headless.Serialize(kept)
}
