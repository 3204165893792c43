// Package config defines the blessfleet agent configuration.
//
//   - spec.go: AgentConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation
//   - sanitize.go: Masking of tokens and proxy credentials for output
//   - accounts.go: Legacy JSON accounts file
//
// Configuration is loaded via internal/infra/confloader and supports
// files, environment variables, a .env file and flags.
package config
