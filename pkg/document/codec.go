package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-yaml"
)

// jsonIndent matches the output formatting of the dictionaries this
// tool consumes: 4-space indentation.
const jsonIndent = "    "

// ParseJSON decodes a JSON object into a document, preserving key
// encounter order. Numbers are kept as json.Number so values round-trip
// without float formatting drift.
func ParseJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("document root must be an object, got %v", tok)
	}

	root, err := decodeObject(dec)
	if err != nil {
		return nil, err
	}

	// Trailing content after the root object is malformed input.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected content after document root")
	}

	return FromObject(root), nil
}

// decodeObject decodes object members after the opening brace has been
// consumed, up to and including the closing brace.
func decodeObject(dec *json.Decoder) (*Object, error) {
	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading object key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, fmt.Errorf("reading object end: %w", err)
	}
	return obj, nil
}

// decodeValue decodes the next JSON value from the token stream.
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading value: %w", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			arr := []Value{}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, item)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return nil, fmt.Errorf("reading array end: %w", err)
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	default:
		// string, json.Number, bool, or nil
		return t, nil
	}
}

// MarshalJSON serializes the object as compact JSON with keys in
// encounter order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON serializes the document as a compact JSON object with
// keys in encounter order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, d.Root()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeJSON serializes the document with 4-space indentation, keys in
// encounter order, matching the formatting of the source dictionaries.
func (d *Document) EncodeJSON() ([]byte, error) {
	compact, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", jsonIndent); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// encodeValue writes a compact JSON encoding of v.
func encodeValue(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case *Object:
		if val == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('{')
		for i, key := range val.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			encoded, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(encoded)
			buf.WriteByte(':')
			if err := encodeValue(buf, val.values[key]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []Value:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case json.Number:
		buf.WriteString(string(val))
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("encoding value %v: %w", val, err)
		}
		buf.Write(encoded)
	}
	return nil
}

// ParseYAML decodes a YAML mapping into a document, preserving key
// encounter order via goccy's ordered-map decoding.
func ParseYAML(data []byte) (*Document, error) {
	var raw any
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	value, err := fromYAML(raw)
	if err != nil {
		return nil, err
	}
	root, ok := value.(*Object)
	if !ok {
		return nil, fmt.Errorf("document root must be a mapping")
	}
	return FromObject(root), nil
}

// EncodeYAML serializes the document as YAML with keys in encounter order.
func (d *Document) EncodeYAML() ([]byte, error) {
	return yaml.Marshal(toYAML(d.Root()))
}

// fromYAML converts goccy's ordered decoding output into document values.
func fromYAML(v any) (Value, error) {
	switch val := v.(type) {
	case yaml.MapSlice:
		obj := NewObject()
		for _, item := range val {
			key, ok := item.Key.(string)
			if !ok {
				key = fmt.Sprintf("%v", item.Key)
			}
			value, err := fromYAML(item.Value)
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		return obj, nil
	case []any:
		arr := make([]Value, len(val))
		for i, item := range val {
			value, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			arr[i] = value
		}
		return arr, nil
	case map[string]any:
		return nil, fmt.Errorf("unordered mapping in yaml decode output")
	default:
		return val, nil
	}
}

// toYAML converts document values back into goccy's ordered types.
func toYAML(v Value) any {
	switch val := v.(type) {
	case *Object:
		if val == nil {
			return nil
		}
		slice := make(yaml.MapSlice, 0, val.Len())
		for _, key := range val.keys {
			slice = append(slice, yaml.MapItem{Key: key, Value: toYAML(val.values[key])})
		}
		return slice
	case []Value:
		arr := make([]any, len(val))
		for i, item := range val {
			arr[i] = toYAML(item)
		}
		return arr
	case json.Number:
		if n, err := strconv.ParseInt(string(val), 10, 64); err == nil {
			return n
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return string(val)
	default:
		return val
	}
}
