// Package codec maps messages to and from their JSON document form. The
// document layout is a contract with indexing, display, and link-shortening
// consumers: key order and optional-field rules are fixed.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is a JSON object that marshals its keys in insertion order.
// encoding/json sorts map keys, which would break the byte-for-byte document
// contract, so the codec builds documents through this type instead.
type Document struct {
	keys []string
	vals map[string]any
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{vals: make(map[string]any)}
}

// Put sets key to v, appending the key on first use.
func (d *Document) Put(key string, v any) {
	if _, ok := d.vals[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = v
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.vals[key]
	return v, ok
}

// Len returns the number of keys.
func (d *Document) Len() int { return len(d.keys) }

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// MarshalJSON emits the object with keys in insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(d.vals[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value of %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
