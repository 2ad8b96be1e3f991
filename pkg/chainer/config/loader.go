package config

import (
	"fmt"
	"os"
)

// Loader loads the settings file and every knowledge base file it names
type Loader struct {
	SettingsPath string
	KBPaths      []string
}

// Source is the raw text of one knowledge base file
type Source struct {
	Path string
	Text string
}

// Components holds all loaded configuration components
type Components struct {
	Settings Settings
	Sources  []Source
}

// Load reads all configuration files. KB files listed in the settings are
// read before the ones passed on the Loader.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	if l.SettingsPath != "" {
		settings, err := LoadSettings(l.SettingsPath)
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
		comp.Settings = *settings
	}

	paths := append(append([]string{}, comp.Settings.KBFiles...), l.KBPaths...)
	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load kb file: %w", err)
		}
		comp.Sources = append(comp.Sources, Source{Path: path, Text: string(data)})
	}

	return comp, nil
}
