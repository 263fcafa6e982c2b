// Package api defines data types representing core metricd data types: the
// value model every collector, writer, and notification sink shares.
package api // import "metricd.example.org/api"

import (
	"fmt"
	"time"

	"metricd.example.org/meta"
)

// Value is a tagged numeric measurement. It is the Go equivalent of the C
// union value_t. A function accepting a Value may be passed a Gauge, Derive,
// Counter, or Absolute; passing any other type may panic.
type Value interface {
	isValue()
}

// Gauge represents an instantaneous reading, such as a temperature or a
// queue depth. Unlike the other kinds it is not rate-converted by the value
// cache: it is dispatched and stored as-is.
type Gauge float64

func (Gauge) isValue() {}

// Derive represents a signed, monotonically increasing (or wrapping)
// counter, such as the number of requests served. The value cache converts
// successive Derive samples into a per-second rate.
type Derive int64

func (Derive) isValue() {}

// Counter represents an unsigned, monotonically increasing counter that
// wraps at 2^32 or 2^64, such as a network interface's byte counter. Like
// Derive it is rate-converted by the value cache; wraparound is detected
// when a new raw value is smaller than the previous one.
type Counter uint64

func (Counter) isValue() {}

// Absolute represents an unsigned counter that is reset to zero every time
// it is read, such as the number of sessions opened since the last
// collection interval. It is rate-converted relative to the collection
// interval rather than relative to a previous raw value.
type Absolute uint64

func (Absolute) isValue() {}

// Kind identifies which of the four Value implementations a DataSource
// expects. It exists separately from a type switch so the type-registry and
// the wire-format/config code can name a kind before a concrete Value
// exists, e.g. while parsing a types.db line.
type Kind int

const (
	// KindGauge is the Kind for Gauge values.
	KindGauge Kind = iota
	// KindDerive is the Kind for Derive values.
	KindDerive
	// KindCounter is the Kind for Counter values.
	KindCounter
	// KindAbsolute is the Kind for Absolute values.
	KindAbsolute
)

func (k Kind) String() string {
	switch k {
	case KindGauge:
		return "GAUGE"
	case KindDerive:
		return "DERIVE"
	case KindCounter:
		return "COUNTER"
	case KindAbsolute:
		return "ABSOLUTE"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// KindOf returns the Kind of v, or false if v is not a supported Value
// implementation.
func KindOf(v Value) (Kind, bool) {
	switch v.(type) {
	case Gauge:
		return KindGauge, true
	case Derive:
		return KindDerive, true
	case Counter:
		return KindCounter, true
	case Absolute:
		return KindAbsolute, true
	default:
		return 0, false
	}
}

// Identifier identifies one metric: the five-tuple of host, plugin,
// plugin instance, type, and type instance that together name a distinct
// time series.
type Identifier struct {
	Host                   string
	Plugin, PluginInstance string
	Type, TypeInstance     string
}

// String returns the "host/plugin-instance/type-instance" representation of
// id, matching the format collectd has used since its binary network
// protocol was introduced.
func (id Identifier) String() string {
	str := id.Host + "/" + id.Plugin
	if id.PluginInstance != "" {
		str += "-" + id.PluginInstance
	}
	str += "/" + id.Type
	if id.TypeInstance != "" {
		str += "-" + id.TypeInstance
	}
	return str
}

// ValueList represents one dispatch unit: a set of values sharing a single
// identity, timestamp and interval. It is the Go equivalent of the C type
// value_list_t.
type ValueList struct {
	Identifier

	Time     time.Time
	Interval time.Duration
	Values   []Value

	// DSNames holds the data source names from the looked-up DataSet, in
	// the same order as Values, so a write sink does not have to
	// re-resolve the data set to label its values.
	DSNames []string

	// Meta travels with the value list and is observable by filters and
	// write sinks. It is not part of the metric identity.
	Meta meta.Data
}

// Writer is implemented by write sinks: callbacks invoked once per
// dispatched ValueList.
type Writer interface {
	Write(vl *ValueList) error
}

// WriterFunc adapts a plain function to the Writer interface.
type WriterFunc func(vl *ValueList) error

// Write implements Writer.
func (f WriterFunc) Write(vl *ValueList) error { return f(vl) }

// Dispatcher is implemented by anything that can accept a ValueList for
// dispatch, such as a network connection to a remote metricd instance.
type Dispatcher interface {
	Dispatch(vl ValueList) error
}
