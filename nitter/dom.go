package nitter

import (
	"strings"

	"golang.org/x/net/html"
)

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// text concatenates all text descendants of n.
func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			sb.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// find walks the tree depth-first and returns the first node the predicate
// accepts, or nil.
func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func findClass(n *html.Node, class string) *html.Node {
	return find(n, func(cur *html.Node) bool { return hasClass(cur, class) })
}

// classText returns the trimmed text of the first node carrying class.
func classText(n *html.Node, class string) (string, bool) {
	found := findClass(n, class)
	if found == nil {
		return "", false
	}
	return strings.TrimSpace(text(found)), true
}

func findElement(n *html.Node, tag string) *html.Node {
	return find(n, func(cur *html.Node) bool {
		return cur.Type == html.ElementNode && cur.Data == tag
	})
}

func findWithAttr(n *html.Node, tag, key string) *html.Node {
	return find(n, func(cur *html.Node) bool {
		return cur.Type == html.ElementNode && cur.Data == tag && attr(cur, key) != ""
	})
}

func findMetaProperty(n *html.Node, prop string) *html.Node {
	return find(n, func(cur *html.Node) bool {
		return cur.Type == html.ElementNode && cur.Data == "meta" && attr(cur, "property") == prop
	})
}

// findSpanWithText returns the first span whose own text equals want.
func findSpanWithText(n *html.Node, want string) *html.Node {
	return find(n, func(cur *html.Node) bool {
		if cur.Type != html.ElementNode || cur.Data != "span" {
			return false
		}
		return strings.TrimSpace(text(cur)) == want
	})
}

// lastChildElement returns the last direct child element with the given tag.
func lastChildElement(n *html.Node, tag string) *html.Node {
	var last *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			last = c
		}
	}
	return last
}

// nextClass searches forward from n (following siblings, then ancestors'
// siblings) for the first node carrying class.
func nextClass(n *html.Node, class string) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		for sib := cur.NextSibling; sib != nil; sib = sib.NextSibling {
			if hasClass(sib, class) {
				return sib
			}
			if found := findClass(sib, class); found != nil {
				return found
			}
		}
	}
	return nil
}
