package config

import (
	_ "embed"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// loadDefaults loads the embedded defaults as the lowest-precedence layer.
func loadDefaults(k *koanf.Koanf) error {
	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return fmt.Errorf("loading built-in defaults: %w", err)
	}
	return nil
}
