package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("unknown config format")

// Looked up in the xdg config dirs, in this order
var DefaultPaths = []string{
	"way2gay/config.toml",
	"way2gay/config.yaml",
	"way2gay/config.yml",
}

// Load reads a TOML or YAML config file, picked by extension.
// Missing fields keep their defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	c := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(c)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	logrus.WithField("path", path).Debugln("Loaded config")
	return c, nil
}

// LoadDefault loads the first config found in the xdg config dirs, or the defaults if there is none
func LoadDefault() (*Config, error) {
	for _, rel := range DefaultPaths {
		path, err := xdg.SearchConfigFile(rel)
		if err != nil {
			continue
		}
		return Load(path)
	}
	logrus.Infoln("No config file found, using defaults")
	return Default(), nil
}
