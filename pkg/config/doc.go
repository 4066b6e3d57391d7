// Package config loads typed configuration structs from environment
// variables (with optional .env file support) using `env:` struct tags.
package config
