package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	// RuleConfig is a single entry of the ordered removal pattern set.
	RuleConfig struct {
		Contains string     `yaml:"contains" validate:"required"`
		Action   RuleAction `yaml:"action"`
	}

	CSSConfig struct {
		Rules          []RuleConfig `yaml:"rules" validate:"dive"`
		MatchScope     MatchScope   `yaml:"match_scope"`
		SectionMarkers []string     `yaml:"section_markers" validate:"dive,required"`
		OutputSuffix   string       `yaml:"output_suffix" validate:"required"`
		Inspect        bool         `yaml:"inspect"`
	}

	IconsConfig struct {
		Sizes         []int    `yaml:"sizes" validate:"min=1,dive,min=1,max=2048"`
		Glyph         string   `yaml:"glyph" validate:"required,len=1"`
		Background    string   `yaml:"background" validate:"required,hexcolor"`
		Foreground    string   `yaml:"foreground" validate:"required,hexcolor"`
		CornerDivisor int      `yaml:"corner_divisor" validate:"min=1"`
		FontScale     float64  `yaml:"font_scale" validate:"gt=0,lte=1"`
		VerticalNudge int      `yaml:"vertical_nudge"`
		Fonts         []string `yaml:"fonts" validate:"dive,required"`
		FontDirs      []string `yaml:"font_dirs" validate:"dive,required"`
		NameTemplate  string   `yaml:"name_template" validate:"required"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		CSS       CSSConfig      `yaml:"css"`
		Icons     IconsConfig    `yaml:"icons"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// NameTemplateFieldName must match yaml name of IconsConfig.NameTemplate, its
// value is expanded per icon and must survive configuration processing.
const NameTemplateFieldName = "name_template"

var requiredOptions = []func(*gencfg.ProcessingOptions){
	gencfg.WithDoNotExpandField(NameTemplateFieldName),
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are allowed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration expands embedded configuration template to get defaults
// and superimposes values from the file at the given path (if any) on top of
// them. Result is sanitized and validated.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, true)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare returns expanded default configuration.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

// Dump returns configuration serialized as YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
