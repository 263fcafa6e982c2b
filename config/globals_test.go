package config

import (
	"strings"
	"testing"
	"time"
)

func TestParseGlobalsDefaults(t *testing.T) {
	root, err := Parse(strings.NewReader(`<Plugin "cpu"></Plugin>`), "test.conf")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	g, remaining, err := ParseGlobals(root, DefaultGlobals())
	if err != nil {
		t.Fatalf("ParseGlobals: %v", err)
	}
	if g.Interval != 10*time.Second {
		t.Errorf("Interval = %v, want 10s", g.Interval)
	}
	if len(remaining) != 1 || remaining[0].Key != "Plugin" {
		t.Errorf("remaining = %+v", remaining)
	}
}

func TestParseGlobalsOverrides(t *testing.T) {
	const src = `
Hostname "example.com"
Interval 2.5
ReadThreads 3
WriteThreads 7
TypesDB "/usr/share/metricd/types.db"
TypesDB "/etc/metricd/custom.db"
FQDNLookup false
BaseDir "/var/lib/metricd"
PIDFile "/var/run/metricd.pid"
PluginDir "/usr/lib/metricd"
WriteQueueLimitHigh 100
WriteQueueLimitLow 10
`
	root, err := Parse(strings.NewReader(src), "test.conf")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	g, remaining, err := ParseGlobals(root, DefaultGlobals())
	if err != nil {
		t.Fatalf("ParseGlobals: %v", err)
	}
	if g.Hostname != "example.com" {
		t.Errorf("Hostname = %q", g.Hostname)
	}
	if g.Interval != 2500*time.Millisecond {
		t.Errorf("Interval = %v, want 2.5s", g.Interval)
	}
	if g.ReadThreads != 3 || g.WriteThreads != 7 {
		t.Errorf("ReadThreads/WriteThreads = %d/%d", g.ReadThreads, g.WriteThreads)
	}
	if len(g.TypesDB) != 2 {
		t.Errorf("TypesDB = %v", g.TypesDB)
	}
	if g.FQDNLookup {
		t.Errorf("FQDNLookup = true, want false")
	}
	if g.BaseDir != "/var/lib/metricd" {
		t.Errorf("BaseDir = %q", g.BaseDir)
	}
	if g.PIDFile != "/var/run/metricd.pid" {
		t.Errorf("PIDFile = %q", g.PIDFile)
	}
	if g.PluginDir != "/usr/lib/metricd" {
		t.Errorf("PluginDir = %q", g.PluginDir)
	}
	if g.WriteQueueLimitHigh != 100 || g.WriteQueueLimitLow != 10 {
		t.Errorf("WriteQueueLimitHigh/Low = %d/%d", g.WriteQueueLimitHigh, g.WriteQueueLimitLow)
	}
	if len(remaining) != 0 {
		t.Errorf("remaining = %+v, want none", remaining)
	}
}
