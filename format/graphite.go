package format

import (
	"fmt"
	"io"
	"math"
	"strings"

	"metricd.example.org/api"
)

// Graphite writes ValueLists to W in Graphite's plain-text line protocol:
//
//	<prefix><host><suffix>.<plugin>[-<plugin_instance>].<type>[-<type_instance>][.<ds_name>] <value> <unix_time>\r\n
//
// one line per value in the ValueList.
type Graphite struct {
	W io.Writer

	Prefix, Suffix string

	// EscapeChar replaces "." in every path component (host, plugin,
	// type, instance and data-source names) so it isn't mistaken for a
	// path separator.
	EscapeChar string

	// SeparateInstances, if true, emits plugin_instance and
	// type_instance as their own path components instead of appended to
	// plugin/type with a "-".
	SeparateInstances bool

	// AlwaysAppendDS appends the data-source name even when the
	// ValueList carries only a single value.
	AlwaysAppendDS bool
}

// Write formats vl and writes one line per value to g.W.
func (g *Graphite) Write(vl api.ValueList) error {
	id := vl.Identifier

	path := g.Prefix + g.escape(id.Host) + g.Suffix + "." + g.escape(id.Plugin)
	if id.PluginInstance != "" {
		if g.SeparateInstances {
			path += "." + g.escape(id.PluginInstance)
		} else {
			path += "-" + g.escape(id.PluginInstance)
		}
	}

	path += "." + g.escape(id.Type)
	if id.TypeInstance != "" {
		if g.SeparateInstances {
			path += "." + g.escape(id.TypeInstance)
		} else {
			path += "-" + g.escape(id.TypeInstance)
		}
	}

	ts := vl.Time.Unix()

	for i, v := range vl.Values {
		linePath := path
		if g.AlwaysAppendDS || len(vl.Values) > 1 {
			linePath += "." + g.escape(g.dsName(vl, i))
		}

		f, err := valueToFloat(v)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(g.W, "%s %g %d\r\n", linePath, f, ts); err != nil {
			return err
		}
	}

	return nil
}

func (g *Graphite) escape(s string) string {
	if g.EscapeChar == "" {
		return s
	}
	return strings.ReplaceAll(s, ".", g.EscapeChar)
}

func (g *Graphite) dsName(vl api.ValueList, i int) string {
	if i < len(vl.DSNames) {
		return vl.DSNames[i]
	}
	return "value"
}

func valueToFloat(v api.Value) (float64, error) {
	switch v := v.(type) {
	case api.Gauge:
		return float64(v), nil
	case api.Derive:
		return float64(v), nil
	case api.Counter:
		return float64(v), nil
	case api.Absolute:
		return float64(v), nil
	default:
		return math.NaN(), fmt.Errorf("value has unexpected type: %#v", v)
	}
}
