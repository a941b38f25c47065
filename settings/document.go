package settings

import (
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/oomph-ac/knockback/oerror"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a configuration file.
type Format uint8

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatOf guesses the format of a configuration file by its extension. Anything that isn't
// YAML is treated as TOML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// table is a single section of a configuration file. Lookups are case-insensitive.
type table struct {
	keys   []string
	values map[string]any
}

func (t *table) set(key string, value any) {
	lower := strings.ToLower(key)
	if _, ok := t.values[lower]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[lower] = value
}

// document is a decoded configuration file, keyed by lowercase section name.
type document map[string]*table

func (d document) section(name string) (*table, bool) {
	t, ok := d[strings.ToLower(name)]
	return t, ok
}

func (d document) ensure(name string) *table {
	lower := strings.ToLower(name)
	if t, ok := d[lower]; ok {
		return t
	}
	t := &table{values: map[string]any{}}
	d[lower] = t
	return t
}

func (d document) value(section, key string) (any, bool) {
	t, ok := d.section(section)
	if !ok {
		return nil, false
	}
	v, ok := t.values[strings.ToLower(key)]
	return v, ok
}

func decode(data []byte, format Format) (document, error) {
	switch format {
	case FormatYAML:
		return decodeYAML(data)
	default:
		return decodeTOML(data)
	}
}

func decodeTOML(data []byte) (document, error) {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return nil, oerror.New("invalid toml: %v", err)
	}

	doc := document{}
	names := tree.Keys()
	slices.Sort(names)
	for _, name := range names {
		sub, ok := tree.GetPath([]string{name}).(*toml.Tree)
		if !ok {
			continue
		}
		t := doc.ensure(name)
		keys := sub.Keys()
		slices.Sort(keys)
		for _, key := range keys {
			v := sub.GetPath([]string{key})
			if _, nested := v.(*toml.Tree); nested {
				continue
			}
			t.set(key, v)
		}
	}
	return doc, nil
}

func decodeYAML(data []byte) (document, error) {
	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, oerror.New("invalid yaml: %v", err)
	}

	doc := document{}
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		t := doc.ensure(name)
		keys := make([]string, 0, len(raw[name]))
		for key := range raw[name] {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			t.set(key, raw[name][key])
		}
	}
	return doc, nil
}

func asFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(stripComment(v), 64)
		return f, err == nil
	}
	return 0, false
}

func asInt(v any) (int64, bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		i, err := strconv.ParseInt(stripComment(v), 10, 64)
		return i, err == nil
	}
	return 0, false
}

func asBool(v any) (bool, bool) {
	switch v := v.(type) {
	case bool:
		return v, true
	case int64:
		return v != 0, true
	case int:
		return v != 0, true
	case string:
		switch strings.ToLower(stripComment(v)) {
		case "true", "yes", "on", "1":
			return true, true
		case "false", "no", "off", "0":
			return false, true
		}
	}
	return false, false
}

// asList accepts either a comma separated string or an array of strings.
func asList(v any) ([]string, bool) {
	switch v := v.(type) {
	case string:
		return splitList(v), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			if s = stripComment(s); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	case []string:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if s = stripComment(s); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}
