// Package xmltree parses Ableton's decompressed project XML into a simple
// in-memory tree and provides dotted-path lookups (C3).
package xmltree

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"studiocat/internal/model"
)

// Node is one element in the parsed tree.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []*Node
	Text     string
}

// Attr returns the named attribute's value and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	v, ok := n.Attrs[name]
	return v, ok
}

// Tree wraps the parsed root for path-based lookups.
type Tree struct {
	Root *Node
}

// Parse decodes bytes into a Tree. It requires a well-formed XML document;
// any parse failure is a FormatError.
func Parse(b []byte) (*Tree, error) {
	dec := xml.NewDecoder(strings.NewReader(string(b)))
	var stack []*Node
	var root *Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xmltree: parse: %w: %v", model.ErrFormat, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local, Attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				n.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("xmltree: parse: %w: empty document", model.ErrFormat)
	}
	return &Tree{Root: root}, nil
}

// Get resolves a dotted path of element names as nested children from root,
// optionally returning a single attribute of the first match in document
// order. If attribute is empty, the matched Node itself is returned via n.
//
// When silent is true, a missing path yields (nil, "", nil) instead of an
// error.
func Get(root *Node, dottedPath string, attribute string, silent bool) (n *Node, value string, err error) {
	segments := strings.Split(dottedPath, ".")
	matches := findAll(root, segments)
	if len(matches) == 0 {
		if silent {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("xmltree: %w: no element for path %q", model.ErrElementNotFound, dottedPath)
	}
	first := matches[0]
	if attribute == "" {
		return first, "", nil
	}
	v, ok := first.Attr(attribute)
	if !ok {
		if silent {
			return first, "", nil
		}
		return nil, "", fmt.Errorf("xmltree: %w: no attribute %q on path %q", model.ErrElementNotFound, attribute, dottedPath)
	}
	return first, v, nil
}

// findAll walks root's descendants matching segments as a chain of direct
// child relationships rooted AT root (root's own tag name is not part of
// the path), returning every match in document order.
func findAll(root *Node, segments []string) []*Node {
	if len(segments) == 0 {
		return nil
	}
	current := []*Node{root}
	for _, seg := range segments {
		var next []*Node
		for _, n := range current {
			for _, c := range n.Children {
				if c.Name == seg {
					next = append(next, c)
				}
			}
		}
		current = next
		if len(current) == 0 {
			return nil
		}
	}
	return current
}

// FindAll returns every descendant node (any depth) named name, in document
// order. Used by extractors that need to collect every occurrence of a tag
// (e.g. every CurrentEnd or every MidiClip) rather than a single dotted path.
func FindAll(root *Node, name string) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Name == name {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return out
}

// Find returns the first descendant (any depth, including root) named name.
func Find(root *Node, name string) *Node {
	if root.Name == name {
		return root
	}
	for _, c := range root.Children {
		if f := Find(c, name); f != nil {
			return f
		}
	}
	return nil
}

// Child returns the first direct child of n named name.
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
