// Package scene holds the retained visual tree that widgets draw into and
// serializes it as SVG.
package scene

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

type Attr struct {
	Name, Value string
}

// Node is one SVG element. Attribute order is preserved so that rendering the
// same tree twice yields byte-identical output.
type Node struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Node
}

func El(tag string, attrs ...Attr) *Node {
	return &Node{Tag: tag, Attrs: attrs}
}

func A(name, value string) Attr { return Attr{Name: name, Value: value} }

// F formats a float attribute with at most two decimals.
func F(name string, v float64) Attr {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" || s == "" {
		s = "0"
	}
	return Attr{Name: name, Value: s}
}

func (n *Node) Set(name, value string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
	return n
}

func (n *Node) Get(name string) string {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

func (n *Node) WithText(s string) *Node {
	n.Text = s
	return n
}

func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// HasClass reports whether the node's class list contains class.
func (n *Node) HasClass(class string) bool {
	for _, c := range strings.Fields(n.Get("class")) {
		if c == class {
			return true
		}
	}
	return false
}

// Clear drops every child.
func (n *Node) Clear() {
	n.Children = nil
}

// RemoveClass drops direct children tagged with class and returns how many
// were removed.
func (n *Node) RemoveClass(class string) int {
	kept := n.Children[:0]
	removed := 0
	for _, c := range n.Children {
		if c.HasClass(class) {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(n.Children); i++ {
		n.Children[i] = nil
	}
	n.Children = kept
	return removed
}

// Count returns the number of descendants (including n) tagged with class.
func (n *Node) Count(class string) int {
	total := 0
	n.Walk(func(c *Node) {
		if c.HasClass(class) {
			total++
		}
	})
	return total
}

// Find returns the first descendant with the given id.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) {
		if found == nil && c.Get("id") == id {
			found = c
		}
	})
	return found
}

func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// WriteSVG serializes the tree. The root gets the SVG namespace when it is an
// <svg> element without one.
func (n *Node) WriteSVG(w io.Writer) error {
	sw := &stickyWriter{w: w}
	if n.Tag == "svg" && n.Get("xmlns") == "" {
		cp := *n
		cp.Attrs = append([]Attr{{Name: "xmlns", Value: "http://www.w3.org/2000/svg"}}, n.Attrs...)
		cp.write(sw)
	} else {
		n.write(sw)
	}
	return sw.err
}

func (n *Node) String() string {
	var b strings.Builder
	_ = n.WriteSVG(&b)
	return b.String()
}

func (n *Node) write(w *stickyWriter) {
	w.str("<" + n.Tag)
	for _, a := range n.Attrs {
		w.str(" " + a.Name + `="`)
		w.escape(a.Value)
		w.str(`"`)
	}
	if n.Text == "" && len(n.Children) == 0 {
		w.str("/>")
		return
	}
	w.str(">")
	if n.Text != "" {
		w.escape(n.Text)
	}
	for _, c := range n.Children {
		c.write(w)
	}
	w.str("</" + n.Tag + ">")
}

type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) str(v string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, v)
}

func (s *stickyWriter) escape(v string) {
	if s.err != nil {
		return
	}
	s.err = xml.EscapeText(s.w, []byte(v))
}
