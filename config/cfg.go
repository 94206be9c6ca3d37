package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/LegacyCodeHQ/cssvars/stylegraph"
)

// DefaultFileName is looked up in the project root when no file is given.
const DefaultFileName = "cssvars.yaml"

type (
	// Aliases keeps the alias mapping in file order.
	Aliases stylegraph.AliasTable

	LoggingConfig struct {
		Level string `yaml:"level"`
	}

	Config struct {
		Root    string        `yaml:"root"`
		Include []string      `yaml:"include"`
		Alias   Aliases       `yaml:"alias"`
		Server  *bool         `yaml:"server"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Root:    ".",
		Logging: LoggingConfig{Level: LevelNormal},
	}
}

// UnmarshalYAML decodes a mapping of prefix to target preserving key order.
func (a *Aliases) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("alias must be a mapping of prefix to target (line %d)", node.Line)
	}
	table := make(Aliases, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var prefix, target string
		if err := node.Content[i].Decode(&prefix); err != nil {
			return fmt.Errorf("failed to decode alias prefix: %w", err)
		}
		if err := node.Content[i+1].Decode(&target); err != nil {
			return fmt.Errorf("failed to decode alias %q: %w", prefix, err)
		}
		table = append(table, stylegraph.Alias{Prefix: prefix, Target: target})
	}
	*a = table
	return nil
}

// Table returns the aliases with relative targets made absolute against base.
func (a Aliases) Table(base string) stylegraph.AliasTable {
	if len(a) == 0 {
		return nil
	}
	out := make(stylegraph.AliasTable, 0, len(a))
	for _, alias := range a {
		target := alias.Target
		if target != "" && !filepath.IsAbs(target) {
			target = filepath.Join(base, target)
		}
		if target != "" {
			target = stylegraph.NormalizePath(target)
		}
		out = append(out, stylegraph.Alias{Prefix: alias.Prefix, Target: target})
	}
	return out
}

// IsDevServer reports the configured mode and whether it was set at all.
func (c *Config) IsDevServer() (devServer, set bool) {
	if c.Server == nil {
		return false, false
	}
	return *c.Server, true
}

// Unmarshal decodes configuration data on top of the defaults. Unknown fields are
// rejected.
func Unmarshal(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if err := validateLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the configuration at path. An empty path looks for DefaultFileName
// in dir and falls back to Default when it does not exist. A relative root is
// taken relative to the configuration file.
func Load(path, dir string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, DefaultFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			cfg := Default()
			cfg.Root = dir
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}

	cfg, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}
	return cfg, nil
}
