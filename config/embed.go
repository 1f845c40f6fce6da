// Package config holds the configuration compiled into the binary.
package config

import _ "embed"

// Default is the embedded default configuration.
//
//go:embed default.yaml
var Default []byte
