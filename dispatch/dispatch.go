// Package dispatch implements metricd's dispatch fan-out (§4.4): the single
// chokepoint every collected ValueList and Notification passes through on
// its way from a read callback to the value cache and the registered write
// and notification callbacks.
//
// The dispatch loop itself is grounded on the teacher's network.dispatch
// (network/server.go), which already fans a batch of parsed ValueLists out
// to a single api.Dispatcher one at a time, logging and continuing past
// per-item errors. This package generalizes that into the full pipeline a
// core daemon runs: defaulting, data-set validation, a filter chain,
// cache update, and fan-out to every registered Writer with aggregated
// errors (go.uber.org/multierr, already in the teacher's go.mod but never
// exercised by the retrieved snapshot).
package dispatch // import "metricd.example.org/dispatch"

import (
	"fmt"
	"log"
	"time"

	"go.uber.org/multierr"

	"metricd.example.org/api"
	"metricd.example.org/cache"
	"metricd.example.org/registry"
	"metricd.example.org/typesdb"
)

// FilterVerdict is the result of passing a ValueList through one Filter.
type FilterVerdict int

const (
	// FilterContinue passes the ValueList on to the next filter unchanged.
	FilterContinue FilterVerdict = iota
	// FilterDropAndStop drops the ValueList and stops dispatch entirely:
	// no cache update, no write fan-out.
	FilterDropAndStop
	// FilterDoNotWrite suppresses the write fan-out, but the cache is
	// still updated.
	FilterDoNotWrite
	// FilterIgnore is a synonym for FilterDropAndStop kept for symmetry
	// with collectd's FC_IGNORE; the two are equivalent in metricd since
	// there is no separate threshold-checking stage.
	FilterIgnore = FilterDropAndStop
)

// Filter inspects or rewrites a ValueList before it reaches the cache and
// write sinks.
type Filter interface {
	Filter(vl *api.ValueList) FilterVerdict
}

// FilterFunc adapts a plain function to the Filter interface.
type FilterFunc func(vl *api.ValueList) FilterVerdict

// Filter implements Filter.
func (f FilterFunc) Filter(vl *api.ValueList) FilterVerdict { return f(vl) }

// Dispatcher is metricd's central dispatch point. The zero value is not
// usable; construct one with New.
type Dispatcher struct {
	Hostname string

	DataSets *typesdb.Registry
	Cache    *cache.Cache
	Registry *registry.Registry

	Filters []Filter
}

// New returns a Dispatcher wired to the given data-set registry, value
// cache and callback registry.
func New(hostname string, dataSets *typesdb.Registry, c *cache.Cache, r *registry.Registry) *Dispatcher {
	return &Dispatcher{
		Hostname: hostname,
		DataSets: dataSets,
		Cache:    c,
		Registry: r,
	}
}

// Dispatch validates vl against its registered data set, runs it through
// the filter chain, updates the value cache and fans it out to every
// registered write callback. It returns the aggregated error from every
// write callback that failed; dispatch always calls every write callback
// regardless of earlier failures.
func (d *Dispatcher) Dispatch(vl api.ValueList) error {
	d.applyDefaults(&vl)

	ds, ok := d.DataSets.Get(vl.Type)
	if !ok {
		return fmt.Errorf("dispatch: unknown type %q", vl.Type)
	}
	if err := typesdb.Validate(ds, &vl); err != nil {
		return err
	}
	if len(vl.DSNames) == 0 {
		vl.DSNames = dsNames(ds)
	}

	doNotWrite := false
	for _, f := range d.Filters {
		switch f.Filter(&vl) {
		case FilterDropAndStop:
			return nil
		case FilterDoNotWrite:
			doNotWrite = true
		}
	}

	if d.Cache != nil {
		d.Cache.Update(&vl)
	}

	if doNotWrite {
		return nil
	}

	return d.writeAll(&vl)
}

func dsNames(ds *typesdb.DataSet) []string {
	names := make([]string, len(ds.Sources))
	for i, s := range ds.Sources {
		names[i] = s.Name
	}
	return names
}

func (d *Dispatcher) applyDefaults(vl *api.ValueList) {
	if vl.Host == "" {
		vl.Host = d.Hostname
	}
	if vl.Time.IsZero() {
		vl.Time = time.Now()
	}
	if vl.Interval == 0 {
		vl.Interval = 10 * time.Second
	}
}

func (d *Dispatcher) writeAll(vl *api.ValueList) error {
	if d.Registry == nil {
		return nil
	}

	var err error
	for _, w := range d.Registry.Writers() {
		if werr := w.Write(vl); werr != nil {
			err = multierr.Append(err, werr)
		}
	}
	return err
}

// DispatchNotification fans n out to every registered notification
// callback. Unlike Dispatch, it does not consult the data-set registry or
// update the value cache: notifications carry no numeric payload.
func (d *Dispatcher) DispatchNotification(n *api.Notification) error {
	if n.Time.IsZero() {
		n.Time = time.Now()
	}
	if n.Host == "" {
		n.Host = d.Hostname
	}

	if d.Registry == nil {
		return nil
	}

	var err error
	for _, w := range d.Registry.Notifiers() {
		if werr := w.Notify(n); werr != nil {
			err = multierr.Append(err, werr)
		}
	}
	return err
}

// LogFailedWrites is a convenience Filter-chain-free helper that logs a
// Dispatch error without stopping the caller; read callbacks typically use
// this so a single bad write sink never aborts the collection loop.
func LogFailedWrites(identifier string, err error) {
	if err == nil {
		return
	}
	for _, e := range multierr.Errors(err) {
		log.Printf("dispatch: %s: write failed: %v", identifier, e)
	}
}
