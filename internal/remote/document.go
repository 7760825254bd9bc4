package remote

import (
	"encoding/json"
	"math"
	"time"
)

// FieldClientID is the field carrying the shared record id.
const FieldClientID = "clientId"

// Args is the argument object of a mutation. Values must be representable as
// google.protobuf.Value: nil, bool, numbers, string, []any or map[string]any.
type Args map[string]any

// Doc is one decoded remote object. Accessors never panic: a missing or
// mistyped field yields the zero value.
type Doc map[string]any

// Has reports whether key is present (even if null).
func (d Doc) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// ClientID returns the shared record id.
func (d Doc) ClientID() string { return d.String(FieldClientID) }

func (d Doc) String(key string) string {
	s, _ := d[key].(string)
	return s
}

func (d Doc) Float(key string) float64 {
	switch v := d[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}

func (d Doc) Int(key string) int {
	return int(math.Round(d.Float(key)))
}

func (d Doc) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

// Time parses an RFC 3339 string. Unparseable or absent values yield the zero time.
func (d Doc) Time(key string) time.Time {
	s := d.String(key)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Docs returns a nested array of objects; non-object elements are skipped.
func (d Doc) Docs(key string) []Doc {
	if ms, ok := d[key].([]map[string]any); ok {
		out := make([]Doc, len(ms))
		for i, m := range ms {
			out[i] = Doc(m)
		}
		return out
	}
	raw, _ := d[key].([]any)
	out := make([]Doc, 0, len(raw))
	for _, item := range raw {
		switch m := item.(type) {
		case map[string]any:
			out = append(out, Doc(m))
		case Doc:
			out = append(out, m)
		}
	}
	return out
}

// Strings returns a nested array of strings; non-string elements are skipped.
func (d Doc) Strings(key string) []string {
	if ss, ok := d[key].([]string); ok {
		return append([]string(nil), ss...)
	}
	raw, _ := d[key].([]any)
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Object returns a nested object, or nil.
func (d Doc) Object(key string) Doc {
	switch m := d[key].(type) {
	case map[string]any:
		return Doc(m)
	case Doc:
		return m
	}
	return nil
}

// Timestamp encodes t for the wire. The zero time encodes as null.
func Timestamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// List converts a string slice into a wire array.
func List(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}
