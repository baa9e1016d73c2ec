// Package config loads and validates haltwatch configuration from YAML.
//
// Loading is a three-step pipeline: Load (read + ${VAR} env expansion +
// unmarshal), LoadWithDefaults (fill optional fields), LoadAndValidate
// (reject incomplete or out-of-range values).
package config
