package dialect

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Dialect registry
var (
	dialectsMu  sync.RWMutex
	definitions = make(map[string]*Definition)
	resolved    = make(map[string]*Dialect)
)

// Register registers a dialect definition in the global registry.
// Called by dialect implementations in their init() functions.
// Registering a name again replaces the previous definition.
func Register(def *Definition) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	definitions[strings.ToLower(def.name)] = def
	// Any resolved dialect may descend from the replaced definition.
	resolved = make(map[string]*Dialect)
}

// Get returns a registered definition by name.
func Get(name string) (*Definition, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	def, ok := definitions[strings.ToLower(name)]
	return def, ok
}

// Load returns the resolved dialect registered under name, resolving it and
// its ancestors on first use.
func Load(name string) (*Dialect, error) {
	if name == "" {
		return nil, ErrDialectRequired
	}
	key := strings.ToLower(name)

	dialectsMu.RLock()
	d, ok := resolved[key]
	dialectsMu.RUnlock()
	if ok {
		return d, nil
	}

	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	return loadLocked(key, nil)
}

// MustLoad is like Load but panics on error.
func MustLoad(name string) *Dialect {
	d, err := Load(name)
	if err != nil {
		panic(err)
	}
	return d
}

func loadLocked(key string, chain []string) (*Dialect, error) {
	if d, ok := resolved[key]; ok {
		return d, nil
	}
	for _, seen := range chain {
		if seen == key {
			path := strings.Join(append(chain, key), " -> ")
			return nil, &ConfigError{Dialect: chain[0], Err: fmt.Errorf("%w: %s", ErrInheritanceCycle, path)}
		}
	}

	def, ok := definitions[key]
	if !ok {
		if len(chain) == 0 {
			return nil, &ConfigError{Dialect: key, Err: ErrUnknownDialect}
		}
		child := chain[len(chain)-1]
		return nil, &ConfigError{Dialect: child, Err: fmt.Errorf("%w: parent %q", ErrUnknownDialect, key)}
	}

	var parent *Dialect
	if def.parent != "" {
		p, err := loadLocked(strings.ToLower(def.parent), append(chain, key))
		if err != nil {
			return nil, err
		}
		parent = p
	}

	d, err := Resolve(def, parent)
	if err != nil {
		return nil, err
	}
	resolved[key] = d
	return d, nil
}

// List returns all registered dialect names (sorted).
func List() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
