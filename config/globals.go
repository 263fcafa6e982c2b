package config

import (
	"fmt"
	"time"
)

// Globals holds the top-level options every metricd configuration file may
// set, outside of any <Plugin ...> block.
type Globals struct {
	Hostname            string
	TypesDB             []string
	Interval            time.Duration
	ReadThreads         int
	WriteThreads        int
	Timeout             int
	FQDNLookup          bool
	BaseDir             string
	PIDFile             string
	PluginDir           string
	WriteQueueLimitHigh int
	WriteQueueLimitLow  int
}

// DefaultGlobals returns the Globals metricd uses when a configuration file
// omits them.
func DefaultGlobals() Globals {
	return Globals{
		Interval:     10 * time.Second,
		ReadThreads:  5,
		WriteThreads: 5,
		Timeout:      2,
		FQDNLookup:   true,
		BaseDir:      "/var/lib/collectd",
		PIDFile:      "/var/run/collectd-core.pid",
	}
}

// ParseGlobals extracts the global options from root's top-level Children,
// starting from defaults. Unrecognized top-level keys are left in
// remaining so the caller (typically the plugin loader) can process
// <Plugin ...> blocks and any LoadPlugin directives.
func ParseGlobals(root *Block, defaults Globals) (g Globals, remaining []Block, err error) {
	g = defaults

	for _, child := range root.Children {
		switch child.Key {
		case "Hostname":
			if err := scalarString(child, &g.Hostname); err != nil {
				return Globals{}, nil, err
			}
		case "Interval":
			var secs float64
			if err := scalarFloat(child, &secs); err != nil {
				return Globals{}, nil, err
			}
			g.Interval = time.Duration(secs * float64(time.Second))
		case "ReadThreads":
			if err := scalarInt(child, &g.ReadThreads); err != nil {
				return Globals{}, nil, err
			}
		case "WriteThreads":
			if err := scalarInt(child, &g.WriteThreads); err != nil {
				return Globals{}, nil, err
			}
		case "Timeout":
			if err := scalarInt(child, &g.Timeout); err != nil {
				return Globals{}, nil, err
			}
		case "TypesDB":
			for _, v := range child.Values {
				if !v.IsString() {
					return Globals{}, nil, fmt.Errorf("TypesDB: expected string argument")
				}
				g.TypesDB = append(g.TypesDB, v.String())
			}
		case "FQDNLookup":
			if err := scalarBool(child, &g.FQDNLookup); err != nil {
				return Globals{}, nil, err
			}
		case "BaseDir":
			if err := scalarString(child, &g.BaseDir); err != nil {
				return Globals{}, nil, err
			}
		case "PIDFile":
			if err := scalarString(child, &g.PIDFile); err != nil {
				return Globals{}, nil, err
			}
		case "PluginDir":
			if err := scalarString(child, &g.PluginDir); err != nil {
				return Globals{}, nil, err
			}
		case "WriteQueueLimitHigh":
			if err := scalarInt(child, &g.WriteQueueLimitHigh); err != nil {
				return Globals{}, nil, err
			}
		case "WriteQueueLimitLow":
			if err := scalarInt(child, &g.WriteQueueLimitLow); err != nil {
				return Globals{}, nil, err
			}
		default:
			remaining = append(remaining, child)
		}
	}

	return g, remaining, nil
}

func scalarString(b Block, out *string) error {
	if len(b.Values) != 1 || !b.Values[0].IsString() {
		return fmt.Errorf("%s: expected a single string argument", b.Key)
	}
	*out = b.Values[0].String()
	return nil
}

func scalarFloat(b Block, out *float64) error {
	if len(b.Values) != 1 {
		return fmt.Errorf("%s: expected a single numeric argument", b.Key)
	}
	f, ok := b.Values[0].Float64()
	if !ok {
		return fmt.Errorf("%s: expected a numeric argument", b.Key)
	}
	*out = f
	return nil
}

func scalarInt(b Block, out *int) error {
	var f float64
	if err := scalarFloat(b, &f); err != nil {
		return err
	}
	*out = int(f)
	return nil
}

func scalarBool(b Block, out *bool) error {
	if len(b.Values) != 1 {
		return fmt.Errorf("%s: expected a single boolean argument", b.Key)
	}
	v, ok := b.Values[0].Bool()
	if !ok {
		return fmt.Errorf("%s: expected a boolean argument", b.Key)
	}
	*out = v
	return nil
}
