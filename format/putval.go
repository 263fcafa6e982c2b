// Package format provides utilities to format metrics and notifications in
// various formats.
package format // import "metricd.example.org/format"

import (
	"fmt"
	"io"
	"strings"

	"metricd.example.org/api"
)

func formatValues(vl api.ValueList) (string, error) {
	fields := make([]string, 1+len(vl.Values))

	fields[0] = "N"
	if !vl.Time.IsZero() {
		fields[0] = fmt.Sprintf("%.3f", float64(vl.Time.UnixNano())/1000000000.0)
	}

	for i, v := range vl.Values {
		switch v := v.(type) {
		case api.Gauge:
			fields[i+1] = fmt.Sprintf("%.15g", float64(v))
		case api.Derive:
			fields[i+1] = fmt.Sprintf("%d", int64(v))
		case api.Counter:
			fields[i+1] = fmt.Sprintf("%d", uint64(v))
		case api.Absolute:
			fields[i+1] = fmt.Sprintf("%d", uint64(v))
		default:
			return "", fmt.Errorf("value has unexpected type: %#v", v)
		}
	}

	return strings.Join(fields, ":"), nil
}

// Putval implements api.Writer, formatting each ValueList in the "PUTVAL"
// format understood by collectd's unixsock and exec plugins.
type Putval struct {
	w io.Writer
}

// NewPutval returns a Putval writing to w.
func NewPutval(w io.Writer) *Putval {
	return &Putval{w: w}
}

// Write formats vl in the PUTVAL format and writes it to p's io.Writer.
func (p *Putval) Write(vl *api.ValueList) error {
	s, err := formatValues(*vl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.w, "PUTVAL %q interval=%.3f %s\n", vl.Identifier.String(), vl.Interval.Seconds(), s)
	return err
}
