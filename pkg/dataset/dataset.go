// Package dataset loads the ordered (data point, auto-label flag) list a
// chart is built from.
//
// Supported files: JSON, TOML, YAML and CSV. The structured formats share
// one schema:
//
//	[[entry]]
//	label = "rent"
//	value = 1200
//
//	[[entry]]
//	label = "food"
//	value = 450
//	auto_description = true
//
// CSV files have a header row naming at least "label" and "value"; the
// optional "id" and "auto_description" columns map to the same fields.
package dataset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/piesweep/pkg/errors"
	"github.com/matzehuels/piesweep/pkg/pie"
)

// Record is the on-disk form of one data point.
type Record struct {
	ID              string  `toml:"id" yaml:"id" json:"id,omitempty"`
	Label           string  `toml:"label" yaml:"label" json:"label"`
	Value           float64 `toml:"value" yaml:"value" json:"value"`
	AutoDescription bool    `toml:"auto_description" yaml:"auto_description" json:"auto_description,omitempty"`
	Style           *int    `toml:"style" yaml:"style" json:"style,omitempty"`
}

// File is the structured document root.
type File struct {
	Entries []Record `toml:"entry" yaml:"entries" json:"entries"`
}

// Load reads a dataset file, picking the decoder from its extension.
func Load(path string) ([]pie.Entry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
	}
	if err != nil {
		return nil, err
	}
	return Decode(data, strings.TrimPrefix(filepath.Ext(path), "."))
}

// Decode parses data in the named format ("json", "toml", "yaml", "yml",
// "csv") and returns validated chart entries in input order.
func Decode(data []byte, format string) ([]pie.Entry, error) {
	var (
		recs []Record
		err  error
	)
	switch strings.ToLower(format) {
	case "json":
		recs, err = decodeJSON(data)
	case "toml":
		var f File
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&f)
		recs = f.Entries
	case "yaml", "yml":
		var f File
		err = yaml.Unmarshal(data, &f)
		recs = f.Entries
	case "csv":
		recs, err = decodeCSV(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset format %q (must be json, toml, yaml or csv)", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "decode %s dataset", format)
	}
	return ToEntries(recs)
}

// decodeJSON accepts either a bare array of records or a {"entries": [...]}
// document.
func decodeJSON(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var recs []Record
		err := json.Unmarshal(trimmed, &recs)
		return recs, err
	}
	var f File
	err := json.Unmarshal(trimmed, &f)
	return f.Entries, err
}

// ToEntries validates records and converts them into chart entries. Missing
// IDs default to the label, or to the position when the label is empty too;
// missing styles default to the position so palettes cycle in order.
func ToEntries(recs []Record) ([]pie.Entry, error) {
	entries := make([]pie.Entry, 0, len(recs))
	seen := make(map[string]bool, len(recs))
	for i, r := range recs {
		if err := errors.ValidateLabel(r.Label); err != nil {
			return nil, err
		}
		if err := errors.ValidateValue(r.Value); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "entry %d", i)
		}
		id := r.ID
		if id == "" {
			id = r.Label
		}
		if id == "" || seen[id] {
			id = fmt.Sprintf("%s#%d", id, i)
		}
		seen[id] = true

		style := pie.StyleHandle(i)
		if r.Style != nil {
			style = pie.StyleHandle(*r.Style)
		}
		entries = append(entries, pie.Entry{
			ID:              id,
			Label:           r.Label,
			Value:           r.Value,
			AutoDescription: r.AutoDescription,
			Style:           style,
		})
	}
	return entries, nil
}

// FromEntries converts chart entries back into records, e.g. to echo a
// session's dataset over HTTP.
func FromEntries(entries []pie.Entry) []Record {
	recs := make([]Record, len(entries))
	for i, e := range entries {
		style := int(e.Style)
		recs[i] = Record{ID: e.ID, Label: e.Label, Value: e.Value, AutoDescription: e.AutoDescription, Style: &style}
	}
	return recs
}
