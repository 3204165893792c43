// Package confloader loads layered configuration with koanf.
//
// Sources, lowest priority first:
//
//  1. Defaults already set on the target struct
//  2. Configuration file (YAML, or JSON read through the YAML parser)
//  3. Optional .env file, exported into the process environment
//  4. Environment variables (BLESSFLEET_ prefix)
//  5. Explicit overrides from command-line flags (LoadMap)
//
// Nested keys are addressed in the environment with a double underscore:
// BLESSFLEET_HEARTBEAT__MAX_FAILURES sets heartbeat.max_failures.
package confloader
