// Package sugar attaches named methods to parsers for fluent chaining:
//
//	sugar.Init()
//	p := sugar.From(digit).Call("many1").Call("label", "number").Parser()
//
// Methods live in a process-wide registry. Init registers the built-in set
// once; ExtendParser adds more. Both are meant to run at start-up. A name can
// be registered only once.
package sugar

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/opal-lang/loquat/core/invariant"
	"github.com/opal-lang/loquat/core/parser"
)

// Method builds a new parser from self and the call arguments.
type Method func(self parser.Parser[any], args ...any) parser.Parser[any]

// Registry holds named parser methods.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]Method
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{methods: make(map[string]Method)}
}

// Register adds one method. Registering a name twice panics.
func (r *Registry) Register(name string, m Method) {
	r.Extend(map[string]Method{name: m})
}

// Extend adds every method in methods. If any name is empty, already
// registered or has a nil method, nothing is added and Extend panics.
func (r *Registry) Extend(methods map[string]Method) {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := slices.Sorted(maps.Keys(methods))
	for _, name := range names {
		invariant.Precondition(name != "", "method name must not be empty")
		invariant.NotNil(methods[name], "method "+name)
		_, exists := r.methods[name]
		invariant.Precondition(!exists, "parser method %q is already registered", name)
	}
	for _, name := range names {
		r.methods[name] = methods[name]
	}
}

// Lookup returns the method registered under name.
func (r *Registry) Lookup(name string) (Method, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.methods[name]
	return m, ok
}

// IsRegistered reports whether name is registered.
func (r *Registry) IsRegistered(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.methods))
}

// Suggest returns registered names close to name, best first.
func (r *Registry) Suggest(name string) []string {
	return Suggest(name, r.Names())
}

// Suggest ranks candidates that fuzzily match target, falling back to names
// within a small edit distance. At most three are returned.
func Suggest(target string, candidates []string) []string {
	var out []string
	ranks := fuzzy.RankFindFold(target, candidates)
	sort.Sort(ranks)
	for _, rank := range ranks {
		out = append(out, rank.Target)
	}

	if len(out) == 0 {
		lower := strings.ToLower(target)
		type near struct {
			name string
			dist int
		}
		var nearby []near
		for _, c := range candidates {
			if d := fuzzy.LevenshteinDistance(lower, strings.ToLower(c)); d <= 2 {
				nearby = append(nearby, near{c, d})
			}
		}
		slices.SortStableFunc(nearby, func(a, b near) int { return a.dist - b.dist })
		for _, n := range nearby {
			out = append(out, n.name)
		}
	}

	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

func (r *Registry) mustLookup(name string) Method {
	m, ok := r.Lookup(name)
	if ok {
		return m
	}

	msg := fmt.Sprintf("unknown parser method %q", name)
	if suggestions := r.Suggest(name); len(suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(suggestions, ", "))
	} else if len(r.Names()) == 0 {
		msg += " (no methods registered; call sugar.Init)"
	}
	invariant.Fail("%s", msg)
	return nil
}

var (
	globalRegistry = NewRegistry()
	initOnce       sync.Once
)

// Global returns the process-wide registry.
func Global() *Registry {
	return globalRegistry
}

// Init registers the built-in methods in the global registry. Calls after
// the first do nothing.
func Init() {
	initOnce.Do(func() {
		globalRegistry.Extend(builtins())
	})
}

// ExtendParser registers extra methods in the global registry.
func ExtendParser(methods map[string]Method) {
	globalRegistry.Extend(methods)
}
