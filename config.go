// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package simpledb

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds what is needed to reach a database.
type Config struct {
	// Driver is one of "mysql", "postgres", "sqlite3" or "dqlite".
	Driver   string `yaml:"driver" toml:"driver" validate:"required,oneof=mysql postgres sqlite3 dqlite"`
	Host     string `yaml:"host" toml:"host" validate:"required_unless=Driver sqlite3"`
	Port     int    `yaml:"port" toml:"port" validate:"gte=0,lte=65535"`
	User     string `yaml:"user" toml:"user"`
	Password string `yaml:"password" toml:"password"`
	// DBName is the database name. For sqlite3 it is the file path or
	// ":memory:".
	DBName string `yaml:"dbname" toml:"dbname" validate:"required"`
	// Params are extra driver specific connection parameters.
	Params map[string]string `yaml:"params" toml:"params"`
	// DevMode logs every statement run.
	DevMode bool `yaml:"dev_mode" toml:"dev_mode"`
}

var validate = validator.New()

// Validate checks that the config is complete.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

// LoadConfig reads a config from a YAML (.yaml, .yml) or TOML (.toml) file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read config")
	}
	cfg := &Config{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, errors.Errorf("cannot read config: unknown format %q", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
