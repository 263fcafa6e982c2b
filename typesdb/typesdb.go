// Package typesdb implements metricd's data-set registry: the in-memory
// catalogue of named schemas ("data sets") that every dispatched ValueList
// is validated against.
//
// It is grounded on the types.db parser collectd's Go bindings have carried
// since gollectd.go's TypesDB() function, generalised to the api.Value/Kind
// model instead of the byte-oriented wire-protocol Packet type.
package typesdb // import "metricd.example.org/typesdb"

import (
	"fmt"
	"math"
	"regexp"
	"sync"

	"metricd.example.org/api"
)

// DataSource is one numeric dimension within a DataSet: a name, a Kind, and
// bounds that are validation hints, not clamps.
type DataSource struct {
	Name     string
	Kind     api.Kind
	Min, Max float64 // math.NaN() means "unbounded"
}

// Unbounded reports whether the given bound is the "unbounded" sentinel.
func Unbounded(f float64) bool {
	return math.IsNaN(f)
}

// DataSet binds a type name to an ordered list of data sources.
type DataSet struct {
	Type    string
	Sources []DataSource
}

var nameRE = regexp.MustCompile(`^[A-Za-z0-9_]{1,63}$`)

// ValidName reports whether name is a legal data-set or data-source name:
// at most 63 bytes, restricted to [A-Za-z0-9_].
func ValidName(name string) bool {
	return nameRE.MatchString(name)
}

// Registry is a process-wide, concurrency-safe catalogue of DataSets,
// looked up by their Type name. The zero value is ready to use; most
// programs use the package-level default Registry via Register/Unregister/Get.
type Registry struct {
	mu   sync.RWMutex
	sets map[string]*DataSet
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[string]*DataSet)}
}

// Register inserts ds, or replaces an existing entry with the same Type
// name. It reports whether an existing entry was replaced.
func (r *Registry) Register(ds DataSet) (replaced bool, err error) {
	if !ValidName(ds.Type) {
		return false, fmt.Errorf("typesdb: invalid data set name %q", ds.Type)
	}
	if len(ds.Sources) == 0 {
		return false, fmt.Errorf("typesdb: data set %q has no data sources", ds.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sets == nil {
		r.sets = make(map[string]*DataSet)
	}

	cpy := ds
	cpy.Sources = append([]DataSource(nil), ds.Sources...)

	_, replaced = r.sets[ds.Type]
	r.sets[ds.Type] = &cpy
	return replaced, nil
}

// Unregister removes the data set named name. It returns an error if no
// such data set is registered.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sets[name]; !ok {
		return fmt.Errorf("typesdb: no such data set: %q", name)
	}
	delete(r.sets, name)
	return nil
}

// Get returns the data set named name, or nil and false if none is
// registered. The returned pointer is borrowed: callers must not mutate it.
func (r *Registry) Get(name string) (*DataSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ds, ok := r.sets[name]
	return ds, ok
}

// FreeAll removes every registered data set. It is called during shutdown.
func (r *Registry) FreeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sets = make(map[string]*DataSet)
}

// Len returns the number of registered data sets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sets)
}

// Default is the process-wide data-set registry consulted by dispatch.
var Default = NewRegistry()

// Register inserts ds into the Default registry.
func Register(ds DataSet) (replaced bool, err error) { return Default.Register(ds) }

// Unregister removes name from the Default registry.
func Unregister(name string) error { return Default.Unregister(name) }

// Get looks up name in the Default registry.
func Get(name string) (*DataSet, bool) { return Default.Get(name) }

// FreeAll clears the Default registry.
func FreeAll() { Default.FreeAll() }

// Validate checks that vl's kinds and arity match ds, per §8's invariant:
// len(vl.Values) == len(ds.Sources) and each value's Kind matches the
// corresponding source.
func Validate(ds *DataSet, vl *api.ValueList) error {
	if len(vl.Values) != len(ds.Sources) {
		return fmt.Errorf("typesdb: %s: got %d values, want %d", ds.Type, len(vl.Values), len(ds.Sources))
	}
	for i, v := range vl.Values {
		kind, ok := api.KindOf(v)
		if !ok {
			return fmt.Errorf("typesdb: %s: value %d has unsupported type %T", ds.Type, i, v)
		}
		if kind != ds.Sources[i].Kind {
			return fmt.Errorf("typesdb: %s: value %d is %v, want %v", ds.Type, i, kind, ds.Sources[i].Kind)
		}
	}
	return nil
}
