// Package config provides configuration loading and validation for the
// readiness poller.
//
// It uses Viper to load configuration from a config.yml file, overlays
// environment variables (including variables from a .env file), and
// unmarshals the result into the Config struct.
//
// # Usage
//
//	cfg, err := config.LoadAndValidate("searchkit")
//
// Environment variables bind to nested keys by underscore-separated paths
// (e.g. SEARCH_ADDRESS, READINESS_INDEX, SERVER_PORT).
package config
