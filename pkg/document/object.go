package document

// Value is any JSON-like value held by a document: *Object, []Value,
// string, a numeric type, bool, or nil.
type Value any

// Object is a mapping from string keys to values that remembers the
// order in which keys were first set. Documents and attribute records
// are Objects; reconciliation order depends on key encounter order, so
// the ordering is part of the contract, not a presentation detail.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject creates an empty ordered object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Len returns the number of keys in the object.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in encounter order. The returned slice is a copy.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Get returns the value for key and whether it is present.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.values[key]
	return ok
}

// Set stores the value for key. A new key is appended to the encounter
// order; an existing key keeps its position.
func (o *Object) Set(key string, value Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Object returns the value for key as an *Object, or nil if the key is
// absent or its value is not an object.
func (o *Object) Object(key string) *Object {
	v, ok := o.Get(key)
	if !ok {
		return nil
	}
	obj, _ := v.(*Object)
	return obj
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	clone := &Object{
		keys:   make([]string, len(o.keys)),
		values: make(map[string]Value, len(o.values)),
	}
	copy(clone.keys, o.keys)
	for k, v := range o.values {
		clone.values[k] = CloneValue(v)
	}
	return clone
}

// CloneValue returns a deep copy of a value. Scalars are returned as-is.
func CloneValue(v Value) Value {
	switch val := v.(type) {
	case *Object:
		return val.Clone()
	case []Value:
		cloned := make([]Value, len(val))
		for i, item := range val {
			cloned[i] = CloneValue(item)
		}
		return cloned
	default:
		return v
	}
}

// Without returns a copy of the object with the given key dropped.
// Used to build comparison views that exclude a volatile field.
func (o *Object) Without(key string) *Object {
	if o == nil {
		return nil
	}
	view := NewObject()
	for _, k := range o.keys {
		if k == key {
			continue
		}
		view.Set(k, o.values[k])
	}
	return view
}
