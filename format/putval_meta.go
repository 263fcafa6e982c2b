package format

// Author: Remi Ferrand <remi.ferrand_at_cc.in2p3.fr>

import (
	"fmt"
	"io"
	"strings"

	"metricd.example.org/api"
	"metricd.example.org/meta"
)

// PutvalWithMeta implements the api.Writer interface for PutvalWithMeta
// formatted output. This format is not a standard format like PUTVAL is.
// This formatter is currently only intended to help while developing
// plugins that support metadata (LISTVAL or GETVAL does not currently
// display them).
type PutvalWithMeta struct {
	w io.Writer
}

// NewPutvalWithMeta returns a new PutvalWithMeta object writing to the provided io.Writer.
func NewPutvalWithMeta(w io.Writer) *PutvalWithMeta {
	return &PutvalWithMeta{
		w: w,
	}
}

// Write formats vl in the PutvalWithMeta format and writes it to the
// associated io.Writer.
func (p *PutvalWithMeta) Write(vl *api.ValueList) error {
	s, err := formatValues(*vl)
	if err != nil {
		return err
	}

	var metaStr string
	if len(vl.Meta) > 0 {
		keys := vl.Meta.Keys()
		metaPairs := make([]string, len(keys))
		for i, key := range keys {
			metaPairs[i] = fmt.Sprintf("%s=%q", key, meta.AsString(vl.Meta[key]))
		}

		metaStr = " {" + strings.Join(metaPairs, ",") + "}"
	}

	_, err = fmt.Fprintf(p.w, "PUTVAL %q interval=%.3f %s%s\n",
		vl.Identifier.String(), vl.Interval.Seconds(), s, metaStr)
	return err
}
