// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Values from a .env file and the process environment are applied on top of
// the YAML so secrets such as the realtime API key never need to live in the
// committed file. The package supports multiple feeds and allows feed
// selection by name.
package config
