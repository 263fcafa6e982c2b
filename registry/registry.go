// Package registry implements metricd's callback registry: the tables of
// read, write, flush, notification, shutdown and configuration callbacks
// that plugins install and the core engine drives.
//
// It is a pure-Go reimplementation of the bookkeeping a cgo-based plugin
// ABI would otherwise perform on the C side of the daemon
// (plugin_register_read/write/shutdown and friends): ordered registration,
// "registering under an existing name replaces the old callback", and
// exactly-once release hooks. Since metricd has no separate C host to call
// into, the registry lives in-process and is driven directly by the
// scheduler and dispatch packages.
package registry // import "metricd.example.org/registry"

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"metricd.example.org/api"
	"metricd.example.org/config"
)

// UserData pairs opaque plugin state with a release hook. Release is called
// exactly once: when the callback that owns it is replaced by a later
// registration, when it is unregistered, or when the registry is torn down.
type UserData struct {
	Data    interface{}
	Release func(interface{})
}

func (u *UserData) release() {
	if u == nil || u.Release == nil {
		return
	}
	data := u.Data
	release := u.Release
	u.Release = nil
	release(data)
}

// Reader is a read callback: invoked periodically by the scheduler.
type Reader interface {
	Read() error
}

// ReaderFunc adapts a plain function to the Reader interface.
type ReaderFunc func() error

// Read implements Reader.
func (f ReaderFunc) Read() error { return f() }

// Flusher is a flush callback: invoked on demand to force buffered writers
// to drain, optionally scoped to metrics older than a given age.
type Flusher interface {
	Flush(timeout time.Duration, identifier string) error
}

// FlusherFunc adapts a plain function to the Flusher interface.
type FlusherFunc func(timeout time.Duration, identifier string) error

// Flush implements Flusher.
func (f FlusherFunc) Flush(timeout time.Duration, identifier string) error {
	return f(timeout, identifier)
}

// Shutdowner is a shutdown callback: invoked once, in reverse registration
// order, as the daemon exits.
type Shutdowner interface {
	Shutdown() error
}

// ShutdownerFunc adapts a plain function to the Shutdowner interface.
type ShutdownerFunc func() error

// Shutdown implements Shutdowner.
func (f ShutdownerFunc) Shutdown() error { return f() }

// ConfigCallback handles one "simple config" (key, value) pair from a
// <Plugin name> block, for a plugin that registered with RegisterConfig.
// It is invoked once per child of the block, in document order.
type ConfigCallback func(key, value string) error

// ComplexConfigCallback parses a whole <Plugin name> config.Block, for a
// plugin that registered with RegisterComplexConfig. Plugins needing
// nested blocks or more than one value per option use this instead of the
// simple (key, value) protocol.
type ComplexConfigCallback func(*config.Block) error

type readEntry struct {
	name     string
	callback Reader
	interval time.Duration
	ud       *UserData
}

type writeEntry struct {
	name     string
	callback api.Writer
	ud       *UserData
}

type notifEntry struct {
	name     string
	callback api.NotificationWriter
	ud       *UserData
}

type flushEntry struct {
	name     string
	callback Flusher
	ud       *UserData
}

type shutdownEntry struct {
	name     string
	callback Shutdowner
}

// Registry holds every callback table a metricd daemon uses. The zero value
// is ready to use. Most programs use the package-level Default registry.
type Registry struct {
	mu sync.Mutex

	reads          []readEntry
	writes         []writeEntry
	notifs         []notifEntry
	flushes        []flushEntry
	shuts          []shutdownEntry
	configs        map[string]ConfigCallback
	complexConfigs map[string]ComplexConfigCallback
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		configs:        make(map[string]ConfigCallback),
		complexConfigs: make(map[string]ComplexConfigCallback),
	}
}

// RegisterRead installs r as a read callback named name, called every
// interval by the scheduler. Registering under a name that is already
// taken replaces the old entry and runs its release hook first.
func (r *Registry) RegisterRead(name string, interval time.Duration, reader Reader, ud *UserData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.reads {
		if r.reads[i].name == name {
			r.reads[i].ud.release()
			r.reads[i] = readEntry{name: name, callback: reader, interval: interval, ud: ud}
			return
		}
	}
	r.reads = append(r.reads, readEntry{name: name, callback: reader, interval: interval, ud: ud})
}

// UnregisterRead removes the read callback named name, if any, running its
// release hook exactly once. It reports whether a callback was removed.
func (r *Registry) UnregisterRead(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.reads {
		if r.reads[i].name == name {
			r.reads[i].ud.release()
			r.reads = append(r.reads[:i], r.reads[i+1:]...)
			return true
		}
	}
	return false
}

// ReadHandle is a snapshot of one registered read callback: name,
// interval and the Reader to invoke.
type ReadHandle struct {
	Name     string
	Interval time.Duration
	Reader   Reader
}

// Reads returns a snapshot of every registered read callback, in
// registration order.
func (r *Registry) Reads() []ReadHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ReadHandle, len(r.reads))
	for i, e := range r.reads {
		out[i] = ReadHandle{Name: e.name, Interval: e.interval, Reader: e.callback}
	}
	return out
}

// RegisterWrite installs w as a write callback named name, called once per
// dispatched ValueList.
func (r *Registry) RegisterWrite(name string, w api.Writer, ud *UserData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.writes {
		if r.writes[i].name == name {
			r.writes[i].ud.release()
			r.writes[i] = writeEntry{name: name, callback: w, ud: ud}
			return
		}
	}
	r.writes = append(r.writes, writeEntry{name: name, callback: w, ud: ud})
}

// UnregisterWrite removes the write callback named name, if any, running
// its release hook exactly once. It reports whether a callback was removed.
func (r *Registry) UnregisterWrite(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.writes {
		if r.writes[i].name == name {
			r.writes[i].ud.release()
			r.writes = append(r.writes[:i], r.writes[i+1:]...)
			return true
		}
	}
	return false
}

// Writers returns every registered write callback, in registration order.
func (r *Registry) Writers() []api.Writer {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]api.Writer, len(r.writes))
	for i, e := range r.writes {
		out[i] = e.callback
	}
	return out
}

// RegisterNotification installs w as a notification callback named name.
func (r *Registry) RegisterNotification(name string, w api.NotificationWriter, ud *UserData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notifs {
		if r.notifs[i].name == name {
			r.notifs[i].ud.release()
			r.notifs[i] = notifEntry{name: name, callback: w, ud: ud}
			return
		}
	}
	r.notifs = append(r.notifs, notifEntry{name: name, callback: w, ud: ud})
}

// UnregisterNotification removes the notification callback named name, if
// any, running its release hook exactly once. It reports whether a
// callback was removed.
func (r *Registry) UnregisterNotification(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notifs {
		if r.notifs[i].name == name {
			r.notifs[i].ud.release()
			r.notifs = append(r.notifs[:i], r.notifs[i+1:]...)
			return true
		}
	}
	return false
}

// Notifiers returns every registered notification callback, in
// registration order.
func (r *Registry) Notifiers() []api.NotificationWriter {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]api.NotificationWriter, len(r.notifs))
	for i, e := range r.notifs {
		out[i] = e.callback
	}
	return out
}

// RegisterFlush installs f as a flush callback named name.
func (r *Registry) RegisterFlush(name string, f Flusher, ud *UserData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.flushes {
		if r.flushes[i].name == name {
			r.flushes[i].ud.release()
			r.flushes[i] = flushEntry{name: name, callback: f, ud: ud}
			return
		}
	}
	r.flushes = append(r.flushes, flushEntry{name: name, callback: f, ud: ud})
}

// UnregisterFlush removes the flush callback named name, if any, running
// its release hook exactly once. It reports whether a callback was removed.
func (r *Registry) UnregisterFlush(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.flushes {
		if r.flushes[i].name == name {
			r.flushes[i].ud.release()
			r.flushes = append(r.flushes[:i], r.flushes[i+1:]...)
			return true
		}
	}
	return false
}

// Flushes returns every registered flush callback, in registration order.
func (r *Registry) Flushes() []Flusher {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Flusher, len(r.flushes))
	for i, e := range r.flushes {
		out[i] = e.callback
	}
	return out
}

// RegisterShutdown installs s as a shutdown callback named name.
func (r *Registry) RegisterShutdown(name string, s Shutdowner) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.shuts {
		if r.shuts[i].name == name {
			r.shuts[i] = shutdownEntry{name: name, callback: s}
			return
		}
	}
	r.shuts = append(r.shuts, shutdownEntry{name: name, callback: s})
}

// RegisterConfig installs cb as the simple config callback for plugin
// name. cb is invoked once per (key, value) child of that plugin's
// <Plugin name> block. Config blocks for unknown plugin names are
// reported by the config loader, not here.
func (r *Registry) RegisterConfig(name string, cb ConfigCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.configs == nil {
		r.configs = make(map[string]ConfigCallback)
	}
	r.configs[name] = cb
}

// Config returns the simple config callback registered for name, if any.
func (r *Registry) Config(name string) (ConfigCallback, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cb, ok := r.configs[name]
	return cb, ok
}

// RegisterComplexConfig installs cb as the complex config callback for
// plugin name, taking precedence over any simple ConfigCallback registered
// under the same name. cb receives the whole <Plugin name> block.
func (r *Registry) RegisterComplexConfig(name string, cb ComplexConfigCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.complexConfigs == nil {
		r.complexConfigs = make(map[string]ComplexConfigCallback)
	}
	r.complexConfigs[name] = cb
}

// ComplexConfig returns the complex config callback registered for name,
// if any.
func (r *Registry) ComplexConfig(name string) (ComplexConfigCallback, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cb, ok := r.complexConfigs[name]
	return cb, ok
}

// ShutdownAll runs every registered shutdown callback in reverse
// registration order, then releases every UserData release hook from every
// table. Errors from individual shutdown callbacks are collected and
// returned together; ShutdownAll always runs every callback and release
// hook regardless of earlier failures.
func (r *Registry) ShutdownAll() error {
	r.mu.Lock()
	shuts := append([]shutdownEntry(nil), r.shuts...)
	reads := r.reads
	writes := r.writes
	notifs := r.notifs
	flushes := r.flushes
	r.mu.Unlock()

	var err error
	for i := len(shuts) - 1; i >= 0; i-- {
		if serr := shuts[i].callback.Shutdown(); serr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: shutdown: %w", shuts[i].name, serr))
		}
	}

	for i := range reads {
		reads[i].ud.release()
	}
	for i := range writes {
		writes[i].ud.release()
	}
	for i := range notifs {
		notifs[i].ud.release()
	}
	for i := range flushes {
		flushes[i].ud.release()
	}

	return err
}

// Default is the process-wide registry used by a metricd daemon.
var Default = NewRegistry()

// RegisterRead installs reader into the Default registry.
func RegisterRead(name string, interval time.Duration, reader Reader, ud *UserData) {
	Default.RegisterRead(name, interval, reader, ud)
}

// RegisterWrite installs w into the Default registry.
func RegisterWrite(name string, w api.Writer, ud *UserData) { Default.RegisterWrite(name, w, ud) }

// RegisterNotification installs w into the Default registry.
func RegisterNotification(name string, w api.NotificationWriter, ud *UserData) {
	Default.RegisterNotification(name, w, ud)
}

// RegisterFlush installs f into the Default registry.
func RegisterFlush(name string, f Flusher, ud *UserData) { Default.RegisterFlush(name, f, ud) }

// RegisterShutdown installs s into the Default registry.
func RegisterShutdown(name string, s Shutdowner) { Default.RegisterShutdown(name, s) }

// RegisterConfig installs cb into the Default registry.
func RegisterConfig(name string, cb ConfigCallback) { Default.RegisterConfig(name, cb) }

// RegisterComplexConfig installs cb into the Default registry.
func RegisterComplexConfig(name string, cb ComplexConfigCallback) {
	Default.RegisterComplexConfig(name, cb)
}

// UnregisterRead removes reader from the Default registry.
func UnregisterRead(name string) bool { return Default.UnregisterRead(name) }

// UnregisterWrite removes w from the Default registry.
func UnregisterWrite(name string) bool { return Default.UnregisterWrite(name) }

// UnregisterNotification removes w from the Default registry.
func UnregisterNotification(name string) bool { return Default.UnregisterNotification(name) }

// UnregisterFlush removes f from the Default registry.
func UnregisterFlush(name string) bool { return Default.UnregisterFlush(name) }
