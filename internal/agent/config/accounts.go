package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/blessfleet/internal/core/domain"
)

// LoadAccountsFile reads a legacy accounts file: a JSON array of
// {"token": "...", "proxy": "..."} objects, or the same list in YAML.
// JSON files may carry // and /* */ comments and trailing commas.
func LoadAccountsFile(path string) ([]domain.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read accounts file: %w", err)
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		data = jsonc.ToJSON(data)
	}

	var accounts []domain.Account
	if err := yaml.Unmarshal(data, &accounts); err != nil {
		return nil, domain.ErrInvalidConfig.WithDetails("accounts file " + path).WithCause(err)
	}
	return accounts, nil
}

// ResolveAccounts appends the accounts of cfg.AccountsFile, if set, to
// cfg.Accounts.
func ResolveAccounts(cfg *AgentConfig) error {
	if cfg.AccountsFile == "" {
		return nil
	}
	accounts, err := LoadAccountsFile(cfg.AccountsFile)
	if err != nil {
		return err
	}
	cfg.Accounts = append(cfg.Accounts, accounts...)
	return nil
}
