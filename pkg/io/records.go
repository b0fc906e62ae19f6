package io

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/catalogtree/pkg/errors"
	"github.com/matzehuels/catalogtree/pkg/glossary"
	"github.com/matzehuels/catalogtree/pkg/tree"
)

// Input formats.
const (
	FormatAuto = "auto"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// ValidFormats is the set of supported input formats.
var ValidFormats = map[string]bool{
	FormatAuto: true,
	FormatJSON: true,
	FormatYAML: true,
	FormatTOML: true,
}

// wrapperKeys are the object keys that may hold the record array.
var wrapperKeys = []string{"records", "nodes"}

// DetectFormat maps a file extension to an input format.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot detect format of %s (use .json, .yaml or .toml)", path)
	}
}

// ReadRecordsFile reads records from path. With FormatAuto (or an empty
// format) the decoder is chosen from the file extension.
func ReadRecordsFile(path, format string) ([]tree.Record, error) {
	if format == "" || format == FormatAuto {
		f, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = f
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "records file %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	records, err := ReadRecords(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ReadRecords decodes records from r in the given format.
// FormatAuto is not accepted here because there is no file name to inspect.
func ReadRecords(r io.Reader, format string) ([]tree.Record, error) {
	switch format {
	case FormatJSON:
		return readJSON(r)
	case FormatYAML:
		return readYAML(r)
	case FormatTOML:
		return readTOML(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, yaml, toml)", format)
	}
}

// ReadGlossaryNodesFile reads typed glossary nodes from path.
// The same input shapes as ReadRecordsFile are accepted.
func ReadGlossaryNodesFile(path, format string) ([]glossary.Node, error) {
	records, err := ReadRecordsFile(path, format)
	if err != nil {
		return nil, err
	}
	return GlossaryNodes(records)
}

// GlossaryNodes converts generic records into glossary nodes by round-tripping
// them through their JSON form.
func GlossaryNodes(records []tree.Record) ([]glossary.Node, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	var nodes []glossary.Node
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "records are not glossary nodes")
	}
	return nodes, nil
}

// =============================================================================
// Decoders
// =============================================================================

func readJSON(r io.Reader) ([]tree.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return fromValue(raw)
}

func readYAML(r io.Reader) ([]tree.Record, error) {
	var raw any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return []tree.Record{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
	}
	return fromValue(normalize(raw))
}

func readTOML(r io.Reader) ([]tree.Record, error) {
	var doc map[string]any
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
	}
	return fromValue(normalize(doc))
}

// fromValue accepts a bare array of objects or an object wrapping one.
func fromValue(raw any) ([]tree.Record, error) {
	switch v := raw.(type) {
	case nil:
		return []tree.Record{}, nil
	case []any:
		return fromSlice(v)
	case []map[string]any:
		out := make([]tree.Record, len(v))
		for i, m := range v {
			out[i] = tree.Record(m)
		}
		return out, nil
	case map[string]any:
		for _, k := range wrapperKeys {
			if inner, ok := v[k]; ok {
				return fromValue(inner)
			}
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "object input must hold a \"records\" or \"nodes\" array")
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "records must be an array of objects, got %T", raw)
	}
}

func fromSlice(items []any) ([]tree.Record, error) {
	out := make([]tree.Record, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "record %d is not an object (got %T)", i, item)
		}
		out[i] = tree.Record(m)
	}
	return out, nil
}

// normalize rewrites YAML and TOML scalars into the types the JSON decoder
// yields: numbers become json.Number and timestamps become RFC 3339 strings.
// Records then look the same whether they come from a file or a cached forest.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case []map[string]any:
		out := make([]any, len(x))
		for i, m := range x {
			out[i] = normalize(m)
		}
		return out
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	case int:
		return json.Number(strconv.Itoa(x))
	case int64:
		return json.Number(strconv.FormatInt(x, 10))
	case uint64:
		return json.Number(strconv.FormatUint(x, 10))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return x
		}
		return json.Number(strconv.FormatFloat(x, 'f', -1, 64))
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case encoding.TextMarshaler:
		if b, err := x.MarshalText(); err == nil {
			return string(b)
		}
		return x
	default:
		return v
	}
}
