package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/chainer/pkg/chainer/internalerr"
)

// Settings represents the YAML session configuration
//
//	verbose: 1
//	db: kb.db
//	kb_files:
//	  - statements.txt
//	explain_format: text
type Settings struct {
	Verbose       int      `yaml:"verbose"`
	DBPath        string   `yaml:"db"`
	KBFiles       []string `yaml:"kb_files"`
	ExplainFormat string   `yaml:"explain_format"`
}

// LoadSettings loads settings from a YAML file
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks field ranges
func (s *Settings) Validate() error {
	if s.Verbose < 0 {
		return fmt.Errorf("verbose must be >= 0, got %d: %w", s.Verbose, internalerr.ErrInvalidConfig)
	}
	switch s.ExplainFormat {
	case "", "text", "html":
	default:
		return fmt.Errorf("explain_format must be text or html, got %q: %w", s.ExplainFormat, internalerr.ErrInvalidConfig)
	}
	return nil
}
