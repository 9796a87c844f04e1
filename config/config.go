// Package config loads the application settings, including the render pipeline,
// from a TOML or YAML file.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Format uint8

const (
	Format_TOML Format = iota
	Format_YAML
)

type WindowConfig struct {
	Title     string `toml:"title" yaml:"title"`
	Width     int32  `toml:"width" yaml:"width"`
	Height    int32  `toml:"height" yaml:"height"`
	Resizable bool   `toml:"resizable" yaml:"resizable"`
}

type RenderConfig struct {
	// TaskName names the render worker in logs
	TaskName string `toml:"task_name" yaml:"task_name"`
	VSync    bool   `toml:"vsync" yaml:"vsync"`
	// MSAASamples of 0 disables multisampling
	MSAASamples     int  `toml:"msaa_samples" yaml:"msaa_samples"`
	SrgbFramebuffer bool `toml:"srgb_framebuffer" yaml:"srgb_framebuffer"`
}

type ModelConfig struct {
	Name string `toml:"name" yaml:"name"`
	Path string `toml:"path" yaml:"path"`
	// Pass is the id of the pipeline pass the model is drawn in
	Pass      string `toml:"pass" yaml:"pass"`
	Instances int32  `toml:"instances" yaml:"instances"`
}

type Config struct {
	Window   WindowConfig   `toml:"window" yaml:"window"`
	Render   RenderConfig   `toml:"render" yaml:"render"`
	Pipeline PipelineConfig `toml:"pipeline" yaml:"pipeline"`
	Models   []ModelConfig  `toml:"models" yaml:"models"`
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "nRend",
			Width:     1280,
			Height:    720,
			Resizable: true,
		},
		Render: RenderConfig{
			TaskName:        "render",
			VSync:           true,
			MSAASamples:     4,
			SrgbFramebuffer: true,
		},
	}
}

// Load reads a config file, picking the format from its extension (.toml, .yaml or .yml).
// Settings missing from the file keep their defaults.
func Load(path string) (*Config, error) {

	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		format = Format_TOML
	case ".yaml", ".yml":
		format = Format_YAML
	default:
		return nil, errors.Errorf("unsupported config file extension '%s'. Expected .toml, .yaml or .yml", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config '%s'", path)
	}

	return cfg, nil
}

// Parse decodes data over the defaults and validates the result. Unknown keys are errors.
func Parse(data []byte, format Format) (*Config, error) {

	cfg := Default()

	var err error
	switch format {
	case Format_TOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	case Format_YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)

		// An empty document is fine, it just means all defaults
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, errors.Errorf("unknown config format %d", format)
	}

	if err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

func (c *Config) Validate() error {

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}

	if c.Render.MSAASamples < 0 {
		return errors.Errorf("msaa_samples can't be negative, got %d", c.Render.MSAASamples)
	}

	for i := 0; i < len(c.Models); i++ {

		m := &c.Models[i]
		if m.Name == "" || m.Path == "" {
			return errors.Errorf("model at index %d needs both a name and a path", i)
		}

		if m.Instances < 0 {
			return errors.Errorf("model '%s' has a negative instance count", m.Name)
		}
	}

	// Catches bad enum names and colors at load time instead of when the pipeline is first used
	if _, err := c.Pipeline.Build(); err != nil {
		return err
	}

	return nil
}
