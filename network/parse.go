package network

import (
	"bytes"
	"encoding/binary"
	"errors"
	"time"

	"metricd.example.org/api"
	"metricd.example.org/cdtime"
)

const (
	// Values taken from commit 633c3966f7 of
	// https://github.com/collectd/collectd/commits/master/src/network.h

	// Notifications
	ParseMessage  = 0x0100
	ParseSeverity = 0x0101
)

var ErrorInvalid = errors.New("Invalid packet")
var ErrorUnsupported = errors.New("Unsupported packet")
var ErrorUnknownType = errors.New("Unknown value type")
var ErrorUnknownDataType = errors.New("Unknown data source type")

func Parse(b []byte) ([]api.ValueList, []error) {
	var valueLists []api.ValueList
	var errors []error

	var state api.ValueList
	buf := bytes.NewBuffer(b)

	for buf.Len() > 0 {
		partType := binary.BigEndian.Uint16(buf.Next(2))
		partLength := int(binary.BigEndian.Uint16(buf.Next(2)))

		if partLength < 5 || partLength-4 > buf.Len() {
			errors = append(errors, ErrorInvalid)
			return valueLists, errors
		}

		// First 4 bytes were already read
		partLength -= 4

		payload := buf.Next(partLength)
		if len(payload) != partLength {
			errors = append(errors, ErrorInvalid)
			return valueLists, errors
		}

		switch partType {
		case typeHost, typePlugin, typePluginInstance, typeType, typeTypeInstance:
			str, err := parseString(payload)
			if err != nil {
				errors = append(errors, err)
				continue
			}
			switch partType {
			case typeHost:
				state.Identifier.Host = str
			case typePlugin:
				state.Identifier.Plugin = str
			case typePluginInstance:
				state.Identifier.PluginInstance = str
			case typeType:
				state.Identifier.Type = str
			case typeTypeInstance:
				state.Identifier.TypeInstance = str
			}
		case typeInterval:
			i, err := parseInt(payload)
			if err != nil {
				errors = append(errors, err)
				continue
			}
			state.Interval = time.Duration(i) * time.Second
		case typeIntervalHR:
			d, err := parseDuration(payload)
			if err != nil {
				errors = append(errors, err)
				continue
			}
			state.Interval = d
		case typeTime:
			i, err := parseInt(payload)
			if err != nil {
				errors = append(errors, err)
				continue
			}
			state.Time = time.Unix(int64(i), 0)
		case typeTimeHR:
			t, err := parseTime(payload)
			if err != nil {
				errors = append(errors, err)
				continue
			}
			state.Time = t
		case typeValues:
			vl := state
			var err error
			if vl.Values, err = parseValues(payload); err != nil {
				errors = append(errors, err)
				continue
			}

			valueLists = append(valueLists, vl)

		default:
			// Ignore unknown fields
		}
	}

	return valueLists, errors
}

func parseValues(b []byte) ([]api.Value, error) {
	if len(b)%9 != 0 {
		return nil, ErrorInvalid
	}

	n := len(b) / 9
	types := b[:n]
	buffer := bytes.NewBuffer(b[n:])
	values := make([]api.Value, n)

	for i, typ := range types {
		switch typ {
		case dsTypeGauge:
			var f float64
			if err := binary.Read(buffer, binary.LittleEndian, &f); err != nil {
				return nil, err
			}
			values[i] = api.Gauge(f)

		case dsTypeDerive:
			var n int64
			if err := binary.Read(buffer, binary.BigEndian, &n); err != nil {
				return nil, err
			}
			values[i] = api.Derive(n)

		case dsTypeCounter:
			var n uint64
			if err := binary.Read(buffer, binary.BigEndian, &n); err != nil {
				return nil, err
			}
			values[i] = api.Counter(n)

		case dsTypeAbsolute:
			var n uint64
			if err := binary.Read(buffer, binary.BigEndian, &n); err != nil {
				return nil, err
			}
			values[i] = api.Absolute(n)

		default:
			return nil, ErrorInvalid
		}
	}

	return values, nil
}

func parseTime(b []byte) (time.Time, error) {
	s, err := parseInt(b)
	if err != nil {
		return time.Time{}, err
	}

	return cdtime.Time(s).Time(), nil
}

func parseDuration(b []byte) (time.Duration, error) {
	s, err := parseInt(b)
	if err != nil {
		return time.Duration(0), err
	}

	return cdtime.Time(s).Duration(), nil
}

func parseInt(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, ErrorInvalid
	}

	var i uint64
	buf := bytes.NewBuffer(b)
	if err := binary.Read(buf, binary.BigEndian, &i); err != nil {
		return 0, err
	}

	return i, nil
}

func parseString(b []byte) (string, error) {
	if b[len(b)-1] != 0 {
		return "", ErrorInvalid
	}

	buf := bytes.NewBuffer(b[:len(b)-1])
	return buf.String(), nil
}
