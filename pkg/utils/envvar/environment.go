package envvar

import "slices"

// Environment is an ordered set of KEY=VALUE overrides for child processes.
// The parent process environment is never modified.
type Environment struct {
	keys   []string
	values map[string]string
}

// NewEnvironment returns an empty Environment.
func NewEnvironment() *Environment {
	return &Environment{values: map[string]string{}}
}

// Set adds or replaces a variable. Replaced variables keep their original position.
func (e *Environment) Set(key, value string) {
	if _, exists := e.values[key]; !exists {
		e.keys = append(e.keys, key)
	}

	e.values[key] = value
}

// Get returns the override for key.
func (e *Environment) Get(key string) (string, bool) {
	value, ok := e.values[key]

	return value, ok
}

// Unset removes an override.
func (e *Environment) Unset(key string) {
	if _, exists := e.values[key]; !exists {
		return
	}

	delete(e.values, key)
	e.keys = slices.DeleteFunc(e.keys, func(k string) bool { return k == key })
}

// Keys returns the override names in insertion order.
func (e *Environment) Keys() []string {
	return slices.Clone(e.keys)
}

// Pairs renders the overrides as KEY=VALUE strings in insertion order.
func (e *Environment) Pairs() []string {
	pairs := make([]string, 0, len(e.keys))

	for _, key := range e.keys {
		pairs = append(pairs, key+"="+e.values[key])
	}

	return pairs
}
