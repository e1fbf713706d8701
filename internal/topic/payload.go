package topic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Parse builds a complete tree from a category payload: a JSON object whose
// keys are category names and whose values are either null (leaf) or a
// nested object of the same shape. Key order is preserved. The returned root
// is the ROOT sentinel; a top-level null yields a root with no child list.
func Parse(r io.Reader) (*Node, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("topic: read payload: %w", err)
	}
	root := NewRoot()
	if tok != nil {
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, fmt.Errorf("topic: payload must be an object, got %v", tok)
		}
		children, err := parseMembers(dec)
		if err != nil {
			return nil, err
		}
		root.children = children
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("topic: trailing data after payload")
	}
	return root, nil
}

// ParseBytes is Parse over a byte slice.
func ParseBytes(b []byte) (*Node, error) { return Parse(bytes.NewReader(b)) }

// parseMembers reads object members up to and including the closing brace.
func parseMembers(dec *json.Decoder) ([]*Node, error) {
	children := []*Node{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("topic: read name: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("topic: expected name, got %v", tok)
		}
		node := New(name)
		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("topic: read %q: %w", name, err)
		}
		switch v := tok.(type) {
		case nil:
		case json.Delim:
			if v != '{' {
				return nil, fmt.Errorf("topic: %q: unexpected %v", name, v)
			}
			sub, err := parseMembers(dec)
			if err != nil {
				return nil, err
			}
			node.children = sub
		default:
			return nil, fmt.Errorf("topic: %q: unexpected value %v", name, v)
		}
		children = append(children, node)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("topic: read object end: %w", err)
	}
	return children, nil
}

// MarshalJSON encodes the subtree below n in the payload format accepted by
// Parse. A leaf encodes as null.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeNode(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeNode(buf *bytes.Buffer, n *Node) error {
	if n.IsLeaf() {
		buf.WriteString("null")
		return nil
	}
	buf.WriteByte('{')
	for i, c := range n.children {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(c.name)
		if err != nil {
			return err
		}
		buf.Write(name)
		buf.WriteByte(':')
		if err := writeNode(buf, c); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}
