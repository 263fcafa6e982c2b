package api

import (
	"fmt"
	"strings"
)

// ParseIdentifier parses the "host/plugin-instance/type-instance" form
// produced by Identifier.String back into an Identifier.
func ParseIdentifier(s string) (Identifier, error) {
	fields := strings.Split(s, "/")
	if len(fields) != 3 {
		return Identifier{}, fmt.Errorf("api: %q does not have the form \"host/plugin-instance/type-instance\"", s)
	}

	id := Identifier{
		Host:   fields[0],
		Plugin: fields[1],
		Type:   fields[2],
	}

	if i := strings.Index(id.Plugin, "-"); i >= 0 {
		id.Plugin, id.PluginInstance = id.Plugin[:i], id.Plugin[i+1:]
	}
	if i := strings.Index(id.Type, "-"); i >= 0 {
		id.Type, id.TypeInstance = id.Type[:i], id.Type[i+1:]
	}

	if id.Host == "" || id.Plugin == "" || id.Type == "" {
		return Identifier{}, fmt.Errorf("api: %q has an empty host, plugin or type field", s)
	}

	return id, nil
}
