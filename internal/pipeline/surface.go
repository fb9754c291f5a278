package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Fragment is surface content split into body markup and the style sheets
// collected from it.
type Fragment struct {
	Body   string
	Styles []string
}

// PrepareOptions controls how surface markup is normalized before capture.
type PrepareOptions struct {
	// SourceDir rewrites relative img/a paths to file:// URLs under this directory.
	SourceDir string

	// CrossOrigin marks remote images crossorigin="anonymous" so they are
	// fetched with CORS instead of silently tainting the capture.
	CrossOrigin bool
}

// Prepare parses a full HTML document or a fragment and returns its body
// content with <style> blocks lifted out. Scripts are dropped so the
// captured page is static.
func Prepare(content string, opts PrepareOptions) (Fragment, error) {
	doc, isFragment, err := parseHTML(content)
	if err != nil {
		return Fragment{}, err
	}

	absSourceDir := ""
	if opts.SourceDir != "" {
		absSourceDir, err = filepath.Abs(opts.SourceDir)
		if err != nil {
			return Fragment{}, err
		}
	}

	var frag Fragment
	walk(doc, &frag, absSourceDir, opts.CrossOrigin)

	root := doc
	if !isFragment {
		if body := findElement(doc, atom.Body); body != nil {
			root = body
		}
	}

	var buf strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return Fragment{}, err
		}
	}
	frag.Body = strings.TrimSpace(buf.String())
	return frag, nil
}

// parseHTML parses HTML content, handling both full documents and fragments.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// walk collects and detaches style/script elements and rewrites image
// attributes in place.
func walk(n *html.Node, frag *Fragment, sourceDir string, crossOrigin bool) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			switch c.DataAtom {
			case atom.Style:
				frag.Styles = append(frag.Styles, textContent(c))
				n.RemoveChild(c)
				c = next
				continue
			case atom.Script:
				n.RemoveChild(c)
				c = next
				continue
			case atom.Img:
				rewriteAttr(c, "src", sourceDir)
				if crossOrigin && isRemote(attrValue(c, "src")) {
					setAttr(c, "crossorigin", "anonymous")
				}
			case atom.A:
				rewriteAttr(c, "href", sourceDir)
			}
		}
		walk(c, frag, sourceDir, crossOrigin)
		c = next
	}
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

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// rewriteAttr rewrites a single attribute if it holds a relative path.
func rewriteAttr(n *html.Node, attrName, sourceDir string) {
	if sourceDir == "" {
		return
	}
	for i, attr := range n.Attr {
		if attr.Key != attrName || !isRelativePath(attr.Val) {
			continue
		}

		absPath := filepath.Join(sourceDir, attr.Val)
		if !isPathUnderDir(absPath, sourceDir) {
			continue
		}
		n.Attr[i].Val = pathToFileURL(absPath)
	}
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//")
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" || isRemote(path) {
		return false
	}
	if strings.HasPrefix(path, "file://") ||
		strings.HasPrefix(path, "data:") ||
		strings.HasPrefix(path, "#") {
		return false
	}
	return !filepath.IsAbs(path)
}

// isPathUnderDir checks if absPath is under dir.
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
