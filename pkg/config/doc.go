// Package config loads typed configuration structs from the environment
// (and an optional .env file) with per-type caching.
package config
