// Package config reads generator settings from a YAML or TOML file.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/idlcpp/internal/codegen"
	"github.com/roach88/idlcpp/internal/flavor"
	"github.com/roach88/idlcpp/internal/naming"
	"github.com/roach88/idlcpp/internal/writer"
)

// DefaultOutput is the output directory used when none is configured.
const DefaultOutput = "generated"

// Config holds everything generate needs besides the command line.
type Config struct {
	// IDL is the input document. Relative paths are resolved against the
	// config file's directory.
	IDL    string `yaml:"idl" toml:"idl"`
	Output string `yaml:"output" toml:"output"`
	Plugin string `yaml:"plugin" toml:"plugin"`
	Flavor string `yaml:"flavor" toml:"flavor"`

	RenderParentInstructions bool `yaml:"render_parent_instructions" toml:"render_parent_instructions"`
	IncludeInternal          bool `yaml:"include_internal" toml:"include_internal"`
	KeepOutput               bool `yaml:"keep_output" toml:"keep_output"`

	// DependencyMap rewrites include paths in generated code.
	DependencyMap map[string]string `yaml:"dependency_map" toml:"dependency_map"`

	Formatter Formatter `yaml:"formatter" toml:"formatter"`
}

// Formatter configures the post-generation code formatter.
type Formatter struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Command string `yaml:"command" toml:"command"`
	Args    string `yaml:"args" toml:"args"`
}

// Default returns the configuration used without a config file.
func Default() *Config {
	return &Config{
		Output: DefaultOutput,
		Plugin: codegen.DefaultPlugin,
		Flavor: flavor.Unreal5,
		Formatter: Formatter{
			Command: writer.DefaultFormatter,
		},
	}
}

// Load reads path, picking the decoder from its extension. Unknown keys
// are rejected. Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrapf(err, "parsing %s", path)
		}
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			sort.Strings(keys)
			return nil, errors.Newf("parsing %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	default:
		return nil, errors.WithHint(
			errors.Newf("unsupported config extension %q", ext),
			"use .yaml, .yml or .toml")
	}

	base := filepath.Dir(path)
	cfg.IDL = resolve(base, cfg.IDL)
	cfg.Output = resolve(base, cfg.Output)
	return cfg, cfg.Validate()
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := flavor.Get(c.Flavor); err != nil {
		return err
	}
	if c.Plugin == "" || naming.Pascal(c.Plugin) == "" {
		return errors.Newf("plugin name %q has no usable characters", c.Plugin)
	}
	if c.Output == "" {
		return errors.New("output directory is empty")
	}
	for from, to := range c.DependencyMap {
		if from == "" || to == "" {
			return errors.Newf("dependency_map entry %q -> %q is empty", from, to)
		}
	}
	return nil
}

// RendererOptions maps the config onto codegen options.
func (c *Config) RendererOptions() codegen.Options {
	return codegen.Options{
		Plugin:                   c.Plugin,
		Flavor:                   c.Flavor,
		RenderParentInstructions: c.RenderParentInstructions,
		DependencyMap:            c.DependencyMap,
		IncludeInternal:          c.IncludeInternal,
	}
}
