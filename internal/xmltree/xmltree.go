// Package xmltree decodes an XML document into a small element tree that can
// be walked by local element name.
package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrNoRoot is returned for input holding no element at all.
var ErrNoRoot = errors.New("no root element")

// Node is one element. Name is the local name with any namespace dropped and
// Text is the element's own character data, trimmed.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []*Node
	Text     string
}

// Parse decodes r strictly: every element must be closed and entities must
// be the predefined XML ones.
func Parse(r io.Reader) (*Node, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel
	return decode(d)
}

// ParseLenient decodes r with HTML-style leniency for unknown entities and
// unclosed elements.
func ParseLenient(r io.Reader) (*Node, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel
	d.Strict = false
	d.AutoClose = xml.HTMLAutoClose
	d.Entity = xml.HTMLEntity
	return decode(d)
}

// ParseString is Parse over a string.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

func decode(d *xml.Decoder) (*Node, error) {
	var root *Node
	var stack []*Node
	var text []*strings.Builder

	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs[a.Name.Local] = a.Value
				}
			}
			switch {
			case len(stack) > 0:
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			case root == nil:
				root = n
			default:
				return nil, fmt.Errorf("decoding xml: second root element <%s>", n.Name)
			}
			stack = append(stack, n)
			text = append(text, &strings.Builder{})
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			top := len(stack) - 1
			stack[top].Text = strings.TrimSpace(text[top].String())
			stack, text = stack[:top], text[:top]
		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}

	if root == nil {
		return nil, ErrNoRoot
	}
	// Lenient decoding can reach EOF with elements still open.
	for i := len(stack) - 1; i >= 0; i-- {
		stack[i].Text = strings.TrimSpace(text[i].String())
	}
	return root, nil
}

// Child returns the first direct child named name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every direct child named name.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Path follows a chain of first-match children. It returns nil as soon as a
// step is missing.
func (n *Node) Path(names ...string) *Node {
	cur := n
	for _, name := range names {
		cur = cur.Child(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// TextAt is the text of Path(names...), or "" when absent.
func (n *Node) TextAt(names ...string) string {
	if c := n.Path(names...); c != nil {
		return c.Text
	}
	return ""
}

// Find returns the first descendant named name in document order, or nil.
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// FindAll returns every descendant named name in document order. Matches
// nested inside a match are included.
func (n *Node) FindAll(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
		out = append(out, c.FindAll(name)...)
	}
	return out
}
