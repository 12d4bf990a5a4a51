package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/piesweep/pkg/errors"
)

// Load reads a configuration file, decoding it on top of Default. The format
// is picked from the extension: .toml, .yaml/.yml or .json.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return Config{}, err
	}
	return Decode(data, strings.TrimPrefix(filepath.Ext(path), "."))
}

// Decode parses data in the named format ("toml", "yaml", "yml", "json") on
// top of Default and validates the result.
func Decode(data []byte, format string) (Config, error) {
	cfg := Default()
	var err error
	switch strings.ToLower(format) {
	case "toml":
		var md toml.MetaData
		md, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
		if err == nil {
			if keys := md.Undecoded(); len(keys) > 0 {
				err = fmt.Errorf("unknown key %q", keys[0].String())
			}
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&cfg); err == io.EOF {
			err = nil
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	default:
		return Config{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (must be toml, yaml or json)", format)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s config", format)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
