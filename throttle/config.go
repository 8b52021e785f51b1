package throttle

import (
	"fmt"
	"io"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"
)

// rawConfig mirrors Config with durations kept as strings so absent keys
// can be told apart from explicit zeros.
type rawConfig struct {
	MinDelay *string `yaml:"min_delay"`
	MaxDelay *string `yaml:"max_delay"`
}

// LoadConfig reads a YAML config from r. See [ParseConfig].
func LoadConfig(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes a YAML document of the form
//
//	min_delay: 1s
//	max_delay: 5s
//
// Durations use time.ParseDuration syntax. Absent keys keep the defaults.
// max_delay accepts "off" (or 0) to disable the idle keepalive.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	if raw.MinDelay != nil {
		d, err := parseDuration("min_delay", *raw.MinDelay)
		if err != nil {
			return Config{}, err
		}
		cfg.MinDelay = d
	}

	if raw.MaxDelay != nil {
		d, err := parseDuration("max_delay", *raw.MaxDelay)
		if err != nil {
			return Config{}, err
		}
		cfg.MaxDelay = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func parseDuration(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "0", "off", "disabled":
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: %w", path, ErrNegativeDelay)
	}

	return d, nil
}
