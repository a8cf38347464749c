package ajx

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// OptionStore is the configuration surface the core depends on: a mapping
// from dotted option keys (e.g. "js.app.export") to values. The concrete
// Options type satisfies it; applications may supply their own.
type OptionStore interface {
	Has(key string) bool
	Get(key string, def any) any
	Set(key string, value any)
}

// Options is a map-backed OptionStore with dotted keys and typed accessors.
// Safe for concurrent use.
type Options struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewOptions creates an empty option store.
func NewOptions() *Options {
	return &Options{values: make(map[string]any)}
}

// Has reports whether key is set.
func (o *Options) Has(key string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.values[key]
	return ok
}

// Get returns the value for key, or def when unset.
func (o *Options) Get(key string, def any) any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if v, ok := o.values[key]; ok {
		return v
	}
	return def
}

// Set stores a value under key, replacing any previous value.
func (o *Options) Set(key string, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.values[key] = value
}

// String returns the option as a string, or def when unset.
func (o *Options) String(key, def string) string {
	return optString(o, key, def)
}

// Bool returns the option as a bool, or def when unset.
func (o *Options) Bool(key string, def bool) bool {
	return optBool(o, key, def)
}

// Int returns the option as an int, or def when unset or unparsable.
func (o *Options) Int(key string, def int) int {
	return optInt(o, key, def)
}

// LoadYAML merges a YAML document into the store, flattening nested mappings
// into dotted keys:
//
//	js:
//	  app:
//	    export: true
//
// becomes js.app.export = true.
func (o *Options) LoadYAML(data []byte) error {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("ajx: parse yaml options: %w", err)
	}
	o.merge("", root)
	return nil
}

// LoadJSON merges a JSON document into the store, flattening nested objects
// into dotted keys the same way LoadYAML does.
func (o *Options) LoadJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("ajx: parse json options: invalid document")
	}
	root, ok := gjson.ParseBytes(data).Value().(map[string]any)
	if !ok {
		return fmt.Errorf("ajx: parse json options: top level must be an object")
	}
	o.merge("", root)
	return nil
}

func (o *Options) merge(prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			o.merge(key, nested)
			continue
		}
		o.Set(key, v)
	}
}

func optString(s OptionStore, key, def string) string {
	switch v := s.Get(key, def).(type) {
	case string:
		return v
	case nil:
		return def
	default:
		return fmt.Sprint(v)
	}
}

func optBool(s OptionStore, key string, def bool) bool {
	switch v := s.Get(key, def).(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return def
	}
}

func optInt(s OptionStore, key string, def int) int {
	switch v := s.Get(key, def).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return def
		}
		return n
	default:
		return def
	}
}
