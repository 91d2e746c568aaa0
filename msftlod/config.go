package msftlod

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/solarlune/gltfext"
	"gopkg.in/yaml.v3"
)

// fileOptions is the on-disk form of Options.
type fileOptions struct {
	LoadingMode string `toml:"loading_mode" yaml:"loading_mode"`
	LogLevel    string `toml:"log_level" yaml:"log_level"`
}

// LoadOptionsFile reads Options from a .toml, .yaml or .yml file. Unset fields keep their DefaultOptions() values. If the
// file sets log_level, the level of the gltfext logger is changed accordingly.
func LoadOptionsFile(path string) (*Options, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read options file %q", path)
	}

	options, err := ParseOptions(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid options file %q", path)
	}

	return options, nil

}

// ParseOptions parses Options from data in the given format ("toml", "yaml" or "yml", with or without a leading dot).
func ParseOptions(data []byte, format string) (*Options, error) {

	var file fileOptions

	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, errors.Wrap(err, "failed to decode TOML")
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, errors.Wrap(err, "failed to decode YAML")
		}
	default:
		return nil, errors.Errorf("unsupported options format %q", format)
	}

	options := DefaultOptions()

	if file.LoadingMode != "" {
		mode, err := ParseLoadingMode(file.LoadingMode)
		if err != nil {
			return nil, err
		}
		options.LoadingMode = mode
	}

	if file.LogLevel != "" {
		if err := gltfext.SetLogLevel(file.LogLevel); err != nil {
			return nil, err
		}
	}

	return options, nil

}
