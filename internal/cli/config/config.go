// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/segmentio/ksuid"
)

const (
	ConfigDirectory = ".config/fabrica"
	DataDirectory   = ".pel/fabrica"
)

var Config = cliconfig{}

type cliconfig struct{}

func (cliconfig) ConfigDirectory() string {
	homePath, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(homePath, ConfigDirectory)
}

func (cliconfig) DataDirectory() string {
	homePath, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(homePath, DataDirectory)
}

func (cliconfig) EnsureConfigDirectory() error {
	configPath := Config.ConfigDirectory()
	if configPath == "" {
		return fmt.Errorf("failed to ensure fabrica config directory")
	}

	return os.MkdirAll(configPath, 0700)
}

func (cliconfig) EnsureDataDirectory() error {
	dataPath := Config.DataDirectory()
	if dataPath == "" {
		return fmt.Errorf("failed to ensure fabrica data directory")
	}

	return os.MkdirAll(dataPath, 0700)
}

// EnsureClientID stamps a stable per-installation client id into the data
// directory on first use.
func (cliconfig) EnsureClientID() error {
	return Config.EnsureId("cli_client_id")
}

func (cliconfig) EnsureId(id string) error {
	configPath := Config.DataDirectory()
	if configPath == "" {
		return fmt.Errorf("failed to ensure fabrica directory")
	}

	idFile := filepath.Join(configPath, id)
	if _, err := os.Stat(idFile); os.IsNotExist(err) {
		err := os.WriteFile(idFile, []byte(ksuid.New().String()), 0600)
		if err != nil {
			return fmt.Errorf("failed to create ID file: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to check ID file: %w", err)
	}

	return nil
}
