package value

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dekarrin/jqx/internal/jqxerr"
)

// Parse decodes s as JSON into a Value, preserving object key order --
// something encoding/json's map[string]interface{} decoding cannot do, so
// this walks json.Decoder's token stream by hand instead, the same reason
// the kilojoule original keeps insertion-ordered dicts throughout
// evaluation (ordinary Python dicts already do this; Go's map does not).
func Parse(s string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, jqxerr.WrapIO(err, "invalid JSON")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			var arr []Value
			for dec.More() {
				elem, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				arr = append(arr, elem)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return ArrayOf(arr), nil
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("value: expected string object key")
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return ObjectOf(m), nil
		}
		return Value{}, fmt.Errorf("value: unexpected delimiter %v", t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return NumberOf(f), nil
	case string:
		return StringOf(t), nil
	case bool:
		return BoolOf(t), nil
	case nil:
		return NullValue, nil
	default:
		return Value{}, fmt.Errorf("value: unexpected JSON token %v", tok)
	}
}

// ReadAll decodes every JSON value in r in sequence, to support decoding
// an entire stream, e.g. from stdin.
func ReadAll(r io.Reader) ([]Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var out []Value
	for {
		v, err := decodeValue(dec)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, jqxerr.WrapIO(err, "invalid JSON")
		}
		out = append(out, v)
	}
	return out, nil
}

// MarshalIndent renders v as JSON text. An empty indent produces compact,
// comma/colon-only output (used for embedding a value inside a format
// string); a non-empty indent pretty-prints with that string repeated per
// nesting level, mirroring the original's obj_to_str(obj, indent=2).
//
// A Value of Kind Output has no JSON representation and is not expected to
// reach this method; callers unwrap it at the print boundary first.
func (v Value) MarshalIndent(indent string) string {
	var sb strings.Builder
	v.writeJSON(&sb, indent, "")
	return sb.String()
}

func (v Value) writeJSON(sb *strings.Builder, indent, cur string) {
	switch v.kind {
	case Null:
		sb.WriteString("null")
	case Bool:
		if v.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case Number:
		sb.WriteString(formatNumber(v.n))
	case String:
		b, _ := json.Marshal(v.s)
		sb.Write(b)
	case Array:
		if len(v.arr) == 0 {
			sb.WriteString("[]")
			return
		}
		sb.WriteByte('[')
		next := cur + indent
		for i, e := range v.arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			if indent != "" {
				sb.WriteByte('\n')
				sb.WriteString(next)
			}
			e.writeJSON(sb, indent, next)
		}
		if indent != "" {
			sb.WriteByte('\n')
			sb.WriteString(cur)
		}
		sb.WriteByte(']')
	case Object:
		if v.obj.Len() == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteByte('{')
		next := cur + indent
		for i, k := range v.obj.Keys() {
			if i > 0 {
				sb.WriteByte(',')
			}
			if indent != "" {
				sb.WriteByte('\n')
				sb.WriteString(next)
			}
			kb, _ := json.Marshal(k)
			sb.Write(kb)
			sb.WriteByte(':')
			if indent != "" {
				sb.WriteByte(' ')
			}
			val, _ := v.obj.Get(k)
			val.writeJSON(sb, indent, next)
		}
		if indent != "" {
			sb.WriteByte('\n')
			sb.WriteString(cur)
		}
		sb.WriteByte('}')
	case Output:
		v.out.writeJSON(sb, indent, cur)
	}
}

// formatNumber prints an integral float without a trailing ".0" and
// everything else with Go's shortest round-tripping representation --
// purely a print-time rule, the Go analogue of the original's
// deep_float_to_int, since jqx's Value never distinguishes int from float
// at the type level.
func formatNumber(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "null"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
