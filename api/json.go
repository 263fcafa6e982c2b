package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// jsonValueList is the wire representation collectd's write_http/unixsock
// JSON dialect uses: a flat object per ValueList rather than the nested
// Identifier struct used internally.
type jsonValueList struct {
	Values         []float64 `json:"values"`
	DSTypes        []string  `json:"dstypes"`
	DSNames        []string  `json:"dsnames"`
	Time           jsonTime  `json:"time"`
	Interval       jsonTime  `json:"interval"`
	Host           string    `json:"host"`
	Plugin         string    `json:"plugin"`
	PluginInstance string    `json:"plugin_instance,omitempty"`
	Type           string    `json:"type"`
	TypeInstance   string    `json:"type_instance,omitempty"`
}

// jsonTime formats a duration-of-seconds value with millisecond precision,
// matching collectd's "%.3f" formatting of times and intervals.
type jsonTime float64

func (t jsonTime) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%.3f", float64(t))), nil
}

// MarshalJSON implements json.Marshaler, producing the flat object shape
// collectd's HTTP write plugin emits.
func (vl ValueList) MarshalJSON() ([]byte, error) {
	jvl := jsonValueList{
		Time:           jsonTime(float64(vl.Time.UnixNano()) / 1e9),
		Interval:       jsonTime(vl.Interval.Seconds()),
		Host:           vl.Host,
		Plugin:         vl.Plugin,
		PluginInstance: vl.PluginInstance,
		Type:           vl.Type,
		TypeInstance:   vl.TypeInstance,
	}

	for i, v := range vl.Values {
		kind, ok := KindOf(v)
		if !ok {
			return nil, fmt.Errorf("api: value %d (%T) is not a supported Value", i, v)
		}
		jvl.DSTypes = append(jvl.DSTypes, strings.ToLower(kind.String()))
		jvl.Values = append(jvl.Values, numericValue(v))

		name := "value"
		if i < len(vl.DSNames) {
			name = vl.DSNames[i]
		}
		jvl.DSNames = append(jvl.DSNames, name)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(jvl); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON implements json.Unmarshaler for the inverse of MarshalJSON.
func (vl *ValueList) UnmarshalJSON(data []byte) error {
	var jvl jsonValueList
	if err := json.Unmarshal(data, &jvl); err != nil {
		return err
	}

	if len(jvl.Values) != len(jvl.DSTypes) {
		return fmt.Errorf("api: %d values but %d dstypes", len(jvl.Values), len(jvl.DSTypes))
	}

	*vl = ValueList{
		Identifier: Identifier{
			Host:           jvl.Host,
			Plugin:         jvl.Plugin,
			PluginInstance: jvl.PluginInstance,
			Type:           jvl.Type,
			TypeInstance:   jvl.TypeInstance,
		},
		Time:     time.Unix(0, int64(float64(jvl.Time)*1e9)),
		Interval: time.Duration(float64(jvl.Interval) * float64(time.Second)),
		DSNames:  jvl.DSNames,
	}

	for i, raw := range jvl.Values {
		v, err := valueFromKindName(jvl.DSTypes[i], raw)
		if err != nil {
			return err
		}
		vl.Values = append(vl.Values, v)
	}

	return nil
}

func numericValue(v Value) float64 {
	switch v := v.(type) {
	case Gauge:
		return float64(v)
	case Derive:
		return float64(v)
	case Counter:
		return float64(v)
	case Absolute:
		return float64(v)
	default:
		return 0
	}
}

func valueFromKindName(name string, raw float64) (Value, error) {
	switch strings.ToUpper(name) {
	case "GAUGE":
		return Gauge(raw), nil
	case "DERIVE":
		return Derive(raw), nil
	case "COUNTER":
		return Counter(raw), nil
	case "ABSOLUTE":
		return Absolute(raw), nil
	default:
		return nil, fmt.Errorf("api: unknown dstype %q", name)
	}
}
