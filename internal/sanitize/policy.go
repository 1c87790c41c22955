package sanitize

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// dangerous elements are removed together with their content.
var dangerous = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Iframe:   true,
	atom.Frame:    true,
	atom.Frameset: true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Applet:   true,
	atom.Base:     true,
	atom.Link:     true,
	atom.Meta:     true,
	atom.Noscript: true,
	atom.Template: true,
}

// urlAttrs may carry a script scheme.
var urlAttrs = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"xlink:href": true,
	"background": true,
	"poster":     true,
}

var scriptSchemes = []string{"javascript:", "vbscript:", "data:text/html"}

// clean strips forbidden children and attributes below n.
func clean(n *html.Node, extra map[atom.Atom]bool) {
	if n.Type == html.ElementNode {
		n.Attr = cleanAttrs(n.Attr)
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && (dangerous[c.DataAtom] || extra[c.DataAtom]) {
			n.RemoveChild(c)
		} else {
			clean(c, extra)
		}
		c = next
	}
}

func cleanAttrs(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if a.Namespace != "" {
			key = a.Namespace + ":" + key
		}
		if strings.HasPrefix(key, "on") {
			continue
		}
		if urlAttrs[key] && hasScriptScheme(a.Val) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// hasScriptScheme ignores blanks and control bytes browsers drop inside
// a scheme ("java\tscript:").
func hasScriptScheme(val string) bool {
	var sb strings.Builder
	for _, r := range val {
		if r <= ' ' {
			continue
		}
		sb.WriteRune(r)
	}
	v := strings.ToLower(sb.String())
	for _, s := range scriptSchemes {
		if strings.HasPrefix(v, s) {
			return true
		}
	}
	return false
}
