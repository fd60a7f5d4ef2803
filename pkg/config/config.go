package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const ConfigFileName = ".fundwatch.json"

// TokenConfig holds display metadata for one fund asset.
type TokenConfig struct {
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Color   string `json:"color"`
}

// Config holds everything the client needs to talk to the fund.
type Config struct {
	RPCURLs               []string      `json:"rpc_urls"`
	FundTokenAddress      string        `json:"fund_token_address"`
	FundControllerAddress string        `json:"fund_controller_address"`
	StablecoinAddress     string        `json:"stablecoin_address"`
	PrivateKey            string        `json:"private_key,omitempty"`
	UserAddress           string        `json:"user_address,omitempty"`
	Tokens                []TokenConfig `json:"tokens"`
	PollIntervalMs        int           `json:"poll_interval_ms"`
	NotesAPIURL           string        `json:"notes_api_url,omitempty"`
	NotesDir              string        `json:"notes_dir,omitempty"`
}

// TokenByAddress finds the configured metadata for an asset address.
func (c Config) TokenByAddress(address string) (TokenConfig, bool) {
	for _, t := range c.Tokens {
		if strings.EqualFold(t.Address, address) {
			return t, true
		}
	}
	return TokenConfig{}, false
}

// TokenBySymbol finds a configured token by its short name.
func (c Config) TokenBySymbol(symbol string) (TokenConfig, bool) {
	for _, t := range c.Tokens {
		if strings.EqualFold(t.Symbol, symbol) {
			return t, true
		}
	}
	return TokenConfig{}, false
}

func GetConfigPath(customPath string) (string, error) {
	if customPath != "" {
		return customPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFileName), nil
}

func LoadConfigFromFile(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Config{PollIntervalMs: 1000}, nil
	}
	if err != nil {
		return Config{}, err
	}
	defer func() { _ = f.Close() }()
	return LoadConfig(f)
}

func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.PollIntervalMs <= 0 {
		cfg.PollIntervalMs = 1000
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	// Validation: the client cannot run without an endpoint and the
	// two fund contracts.
	if len(cfg.RPCURLs) == 0 {
		return fmt.Errorf("validation failed: configuration has no RPC URLs")
	}
	if strings.TrimSpace(cfg.FundTokenAddress) == "" {
		return fmt.Errorf("validation failed: no fund token address")
	}
	if strings.TrimSpace(cfg.FundControllerAddress) == "" {
		return fmt.Errorf("validation failed: no fund controller address")
	}
	for i, t := range cfg.Tokens {
		if strings.TrimSpace(t.Address) == "" {
			return fmt.Errorf("validation failed: token at index %d has no address", i)
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Create a backup of the existing file
	if _, err := os.Stat(path); err == nil {
		backupPath := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102-150405"))
		input, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read existing config for backup: %w", err)
		}
		if err := os.WriteFile(backupPath, input, 0644); err != nil {
			return fmt.Errorf("failed to write backup config: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func RestoreLastBackup(configPath string) error {
	matches, err := filepath.Glob(configPath + ".*.bak")
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no backup files found")
	}
	sort.Strings(matches)
	lastBackup := matches[len(matches)-1]

	data, err := os.ReadFile(lastBackup)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}
