// Package export publishes Go runtime and application counters as collectd
// value lists, the way expvar publishes them as JSON. A Derive or Gauge
// registered here is simultaneously visible under expvar's "/debug/vars"
// handler and collectible by Run.
package export // import "metricd.example.org/export"

import (
	"context"
	"expvar"
	"sync"
	"time"

	"metricd.example.org/api"
)

// named is implemented by Derive and Gauge: anything export can snapshot
// into a ValueList for dispatch.
type named interface {
	ValueList() *api.ValueList
}

var (
	varsMu sync.Mutex
	vars   []named
)

func register(n named) {
	varsMu.Lock()
	defer varsMu.Unlock()
	vars = append(vars, n)
}

// Derive is a monotonically increasing counter exported both via expvar and
// collectd's Derive value type.
type Derive struct {
	id api.Identifier
	iv expvar.Int
}

// NewDeriveString creates and registers a new Derive under name, which must
// have the "host/plugin-instance/type-instance" form understood by
// api.ParseIdentifier. It panics if name cannot be parsed, mirroring
// expvar.NewInt's behavior of panicking on a duplicate name.
func NewDeriveString(name string) *Derive {
	id, err := api.ParseIdentifier(name)
	if err != nil {
		panic(err)
	}

	d := &Derive{id: id}
	expvar.Publish(name, &d.iv)
	register(d)
	return d
}

// Add adds delta to the counter.
func (d *Derive) Add(delta int) {
	d.iv.Add(int64(delta))
}

// ValueList returns a ValueList holding the counter's current value.
func (d *Derive) ValueList() *api.ValueList {
	return &api.ValueList{
		Identifier: d.id,
		Values:     []api.Value{api.Derive(d.iv.Value())},
	}
}

// Gauge is an arbitrary floating point value exported both via expvar and
// collectd's Gauge value type.
type Gauge struct {
	id api.Identifier
	fv expvar.Float
}

// NewGaugeString creates and registers a new Gauge under name, which must
// have the "host/plugin-instance/type-instance" form understood by
// api.ParseIdentifier. It panics if name cannot be parsed.
func NewGaugeString(name string) *Gauge {
	id, err := api.ParseIdentifier(name)
	if err != nil {
		panic(err)
	}

	g := &Gauge{id: id}
	expvar.Publish(name, &g.fv)
	register(g)
	return g
}

// Set sets the gauge's value.
func (g *Gauge) Set(v float64) {
	g.fv.Set(v)
}

// ValueList returns a ValueList holding the gauge's current value.
func (g *Gauge) ValueList() *api.ValueList {
	return &api.ValueList{
		Identifier: g.id,
		Values:     []api.Value{api.Gauge(g.fv.Value())},
	}
}

// Options configures Run.
type Options struct {
	// Interval between successive dispatches of the registered counters and
	// gauges. Defaults to ten seconds.
	Interval time.Duration
}

// Run dispatches every registered Derive and Gauge to w once per
// Options.Interval, until ctx is canceled. It returns ctx.Err().
func Run(ctx context.Context, w api.Writer, opts Options) error {
	interval := opts.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			varsMu.Lock()
			snapshot := make([]named, len(vars))
			copy(snapshot, vars)
			varsMu.Unlock()

			now := time.Now()
			for _, n := range snapshot {
				vl := n.ValueList()
				vl.Time = now
				vl.Interval = interval
				if err := w.Write(vl); err != nil {
					return err
				}
			}
		}
	}
}
