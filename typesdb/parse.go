package typesdb

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"metricd.example.org/api"
)

// ParsedValues is the result of ParseValues: a timestamp (or a request to
// use the current time) plus the values parsed against a DataSet.
type ParsedValues struct {
	UseNow bool
	Time   time.Time
	Values []api.Value
}

// maxLineLength is the longest types.db line load will parse. Longer lines
// are skipped with a warning, matching collectd's own types.db parser.
const maxLineLength = 4095

var kindNames = map[string]api.Kind{
	"gauge":    api.KindGauge,
	"counter":  api.KindCounter,
	"derive":   api.KindDerive,
	"absolute": api.KindAbsolute,
}

// Load reads a types.db file from path and registers every data set it
// defines into r. It returns the number of data sets registered.
//
// Grammar (one data set per line):
//
//	type_name ds1:kind:min:max[,ds2:kind:min:max...]
//
// Blank lines and lines beginning with "#" are ignored. kind is one of
// GAUGE, COUNTER, DERIVE, ABSOLUTE (case-insensitive). min and max are
// decimal numbers or "U" for unbounded.
func (r *Registry) Load(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return r.loadFrom(f, path)
}

// Load reads path into the Default registry.
func Load(path string) (int, error) {
	return Default.Load(path)
}

func (r *Registry) loadFrom(rd io.Reader, name string) (int, error) {
	br := bufio.NewReader(rd)

	n := 0
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return n, err
		}
		if line == "" && err == io.EOF {
			break
		}
		lineNo++
		line = strings.TrimRight(line, "\r\n")

		if len(line) > maxLineLength {
			fmt.Fprintf(os.Stderr, "typesdb: %s:%d: line too long, skipped\n", name, lineNo)
			continue
		}

		line = strings.TrimSpace(strings.Replace(line, "\t", " ", -1))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		ds, err := parseTypesDBLine(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "typesdb: %s:%d: %v, skipped\n", name, lineNo, err)
			continue
		}

		if _, err := r.Register(ds); err != nil {
			fmt.Fprintf(os.Stderr, "typesdb: %s:%d: %v, skipped\n", name, lineNo, err)
			continue
		}
		n++
	}
	return n, nil
}

func parseTypesDBLine(line string) (DataSet, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return DataSet{}, fmt.Errorf("expected at least 2 fields, got %d", len(fields))
	}

	ds := DataSet{Type: fields[0]}

	rest := strings.Join(fields[1:], " ")
	for _, spec := range strings.Split(rest, ",") {
		src, err := parseDataSource(strings.TrimSpace(spec))
		if err != nil {
			return DataSet{}, fmt.Errorf("%s: %w", ds.Type, err)
		}
		ds.Sources = append(ds.Sources, src)
	}
	return ds, nil
}

func parseDataSource(spec string) (DataSource, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 4 {
		return DataSource{}, fmt.Errorf("malformed data source %q", spec)
	}

	kind, ok := kindNames[strings.ToLower(parts[1])]
	if !ok {
		return DataSource{}, fmt.Errorf("unknown data source type %q", parts[1])
	}

	min, err := parseBound(parts[2])
	if err != nil {
		return DataSource{}, fmt.Errorf("min: %w", err)
	}
	max, err := parseBound(parts[3])
	if err != nil {
		return DataSource{}, fmt.Errorf("max: %w", err)
	}

	return DataSource{
		Name: parts[0],
		Kind: kind,
		Min:  min,
		Max:  max,
	}, nil
}

func parseBound(s string) (float64, error) {
	if strings.EqualFold(s, "U") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// ParseValue parses text as a single numeric value of the given kind. Gauge
// values additionally accept "U", "nan", "inf" and "-inf".
func ParseValue(text string, kind api.Kind) (api.Value, error) {
	if kind == api.KindGauge && strings.EqualFold(text, "U") {
		return api.Gauge(math.NaN()), nil
	}

	switch kind {
	case api.KindGauge:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, err
		}
		return api.Gauge(f), nil
	case api.KindDerive:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, err
		}
		return api.Derive(i), nil
	case api.KindCounter:
		u, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, err
		}
		return api.Counter(u), nil
	case api.KindAbsolute:
		u, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, err
		}
		return api.Absolute(u), nil
	default:
		return nil, fmt.Errorf("typesdb: unknown kind %v", kind)
	}
}

// ParseValues parses a PUTVAL-style "N:v1:v2:..." line against ds, returning
// the timestamp and the parsed values. A first field of "N" (or "N:") means
// "use the current time", matching collectd's PUTVAL/exec protocol.
func ParseValues(text string, ds *DataSet) (ParsedValues, error) {
	fields := strings.Split(strings.TrimSpace(text), ":")
	if len(fields) != len(ds.Sources)+1 {
		return ParsedValues{}, fmt.Errorf("typesdb: %s: got %d fields, want %d", ds.Type, len(fields), len(ds.Sources)+1)
	}

	var tv ParsedValues
	if fields[0] == "N" {
		tv.UseNow = true
	} else {
		sec, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return ParsedValues{}, fmt.Errorf("typesdb: bad timestamp %q: %w", fields[0], err)
		}
		whole := int64(sec)
		frac := sec - float64(whole)
		tv.Time = time.Unix(whole, int64(frac*1e9))
	}

	for i, src := range ds.Sources {
		v, err := ParseValue(fields[i+1], src.Kind)
		if err != nil {
			return ParsedValues{}, fmt.Errorf("typesdb: %s: field %d: %w", ds.Type, i, err)
		}
		tv.Values = append(tv.Values, v)
	}
	return tv, nil
}
