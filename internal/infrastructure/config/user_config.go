package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// UserConfig holds CLI preferences kept in <home>/.voidfleet/config.json
type UserConfig struct {
	// DefaultGameID is used when a command runs without --game
	DefaultGameID string `json:"default_game_id,omitempty"`
}

// UserConfigHandler reads and writes one user's preference file. VF_HOME
// overrides the home directory so several players can share a machine.
type UserConfigHandler struct {
	configPath string
}

func NewUserConfigHandler() (*UserConfigHandler, error) {
	home := os.Getenv("VF_HOME")
	if home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		home = dir
	}

	dir := filepath.Join(home, ".voidfleet")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &UserConfigHandler{configPath: filepath.Join(dir, "config.json")}, nil
}

// Load returns an empty config when the file does not exist yet
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	data, err := os.ReadFile(h.configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config %s: %w", h.configPath, err)
	}
	return &cfg, nil
}

// Update applies change to the stored preferences and writes them back
func (h *UserConfigHandler) Update(change func(*UserConfig)) error {
	cfg, err := h.Load()
	if err != nil {
		return err
	}
	change(cfg)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}
	if err := os.WriteFile(h.configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	return nil
}

func (h *UserConfigHandler) SetDefaultGame(gameID string) error {
	return h.Update(func(c *UserConfig) { c.DefaultGameID = gameID })
}

func (h *UserConfigHandler) ClearDefaultGame() error {
	return h.Update(func(c *UserConfig) { c.DefaultGameID = "" })
}

func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
