package scopectx

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	defaultScope = "prompt"
	globalScope  = "global"
)

// Context is a nested scope -> key -> Value mapping. It is not safe
// for concurrent use; a renderer owns one Context for the lifetime of
// a single render.
type Context struct {
	order  []string
	scopes map[string]*scopeBucket
}

type scopeBucket struct {
	order []string
	byKey map[string]Value
}

func newScopeBucket() *scopeBucket {
	return &scopeBucket{byKey: make(map[string]Value)}
}

// New returns a Context with the "prompt" and "global" scopes already
// created.
func New() *Context {
	c := &Context{scopes: make(map[string]*scopeBucket)}
	c.ensureScope(defaultScope)
	c.ensureScope(globalScope)
	return c
}

func (c *Context) ensureScope(scope string) *scopeBucket {
	b, ok := c.scopes[scope]
	if !ok {
		b = newScopeBucket()
		c.scopes[scope] = b
		c.order = append(c.order, scope)
	}
	return b
}

// splitKey parses "scope:key" or a bare "key" (which defaults to the
// prompt scope). Both scope and key must be non-empty.
func splitKey(raw string) (scope, key string, err error) {
	if idx := strings.IndexByte(raw, ':'); idx >= 0 {
		scope, key = raw[:idx], raw[idx+1:]
	} else {
		scope, key = defaultScope, raw
	}
	if scope == "" {
		return "", "", errors.Errorf("context key %q has an empty scope", raw)
	}
	if key == "" {
		return "", "", errors.Errorf("context key %q has an empty key", raw)
	}
	return scope, key, nil
}

// Set writes v under the scope and key parsed from keyPath, creating
// the scope on first write if it does not already exist.
func (c *Context) Set(keyPath string, v Value) error {
	scope, key, err := splitKey(keyPath)
	if err != nil {
		return err
	}
	b := c.ensureScope(scope)
	if _, exists := b.byKey[key]; !exists {
		b.order = append(b.order, key)
	}
	b.byKey[key] = v
	return nil
}

// Get returns the value at keyPath, if any.
func (c *Context) Get(keyPath string) (Value, bool, error) {
	scope, key, err := splitKey(keyPath)
	if err != nil {
		return Value{}, false, err
	}
	b, ok := c.scopes[scope]
	if !ok {
		return Value{}, false, nil
	}
	v, ok := b.byKey[key]
	return v, ok, nil
}

// GetText is Get followed by AsText, returning "" if keyPath is unset.
func (c *Context) GetText(keyPath string) (string, error) {
	v, ok, err := c.Get(keyPath)
	if err != nil || !ok {
		return "", err
	}
	return v.AsText(), nil
}

// GetNumber is Get followed by AsNumber, returning ok=false if keyPath
// is unset.
func (c *Context) GetNumber(keyPath string) (n int64, ok bool, err error) {
	v, ok, err := c.Get(keyPath)
	if err != nil || !ok {
		return 0, ok, err
	}
	n, err = v.AsNumber()
	return n, true, err
}

// GetBoolean is Get followed by AsBoolean, returning ok=false if
// keyPath is unset.
func (c *Context) GetBoolean(keyPath string) (b bool, ok bool, err error) {
	v, ok, err := c.Get(keyPath)
	if err != nil || !ok {
		return false, ok, err
	}
	b, err = v.AsBoolean()
	return b, true, err
}

// Has reports whether keyPath is set.
func (c *Context) Has(keyPath string) (bool, error) {
	_, ok, err := c.Get(keyPath)
	return ok, err
}

// Remove deletes keyPath if present; removing an unset key is a no-op.
func (c *Context) Remove(keyPath string) error {
	scope, key, err := splitKey(keyPath)
	if err != nil {
		return err
	}
	b, ok := c.scopes[scope]
	if !ok {
		return nil
	}
	if _, exists := b.byKey[key]; !exists {
		return nil
	}
	delete(b.byKey, key)
	for i, k := range b.order {
		if k == key {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return nil
}

// ClearScope removes every key from scope, leaving the scope itself
// present (empty). Clearing an unknown scope is a no-op.
func (c *Context) ClearScope(scope string) {
	b, ok := c.scopes[scope]
	if !ok {
		return
	}
	b.byKey = make(map[string]Value)
	b.order = nil
}

// GetScope returns a copy of scope's keys and values as a map, which
// carries no order (ScopeKeys gives insertion order). Returns nil if
// scope does not exist.
func (c *Context) GetScope(scope string) map[string]Value {
	b, ok := c.scopes[scope]
	if !ok {
		return nil
	}
	out := make(map[string]Value, len(b.order))
	for _, k := range b.order {
		out[k] = b.byKey[k]
	}
	return out
}

// ScopeKeys returns the keys of scope in insertion order.
func (c *Context) ScopeKeys(scope string) []string {
	b, ok := c.scopes[scope]
	if !ok {
		return nil
	}
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Scopes returns every scope name in the order it was created.
func (c *Context) Scopes() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
