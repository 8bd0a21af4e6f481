// Package config defines the application configuration for Meridian.
// Configuration is loaded from a YAML file, defaults are applied, then
// environment variables (MERIDIAN_SECTION_FIELD) override file values,
// and the result is validated before use.
package config
