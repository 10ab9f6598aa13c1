package config

import (
	_ "embed"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

//go:embed defaults.yml
var defaultsYAML []byte

// DefaultOptions returns the built-in completion options, the layer every
// user config merges over.
func DefaultOptions() Options {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		// The embedded defaults are part of the binary; failing to parse
		// them is a build defect, not a runtime condition.
		panic("config: embedded defaults are invalid: " + err.Error())
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		panic("config: embedded defaults do not match the model: " + err.Error())
	}
	return cfg.Completion
}
