// Package config holds environment-sourced settings for the CLI layer.
//
// Resolution order everywhere is flag → environment → default; this package
// only covers the environment leg. The core pipeline never reads the
// environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Settings are the recognized environment variables.
type Settings struct {
	// Storage sink. Empty kind disables the sink.
	StorageKind  string `envconfig:"MESSYGEN_STORAGE_KIND"`
	StorageDSN   string `envconfig:"MESSYGEN_STORAGE_DSN"`
	StorageTable string `envconfig:"MESSYGEN_STORAGE_TABLE"`

	// Metrics backend selection and extra Datadog tags ("k:v,k:v").
	MetricsBackend string `envconfig:"METRICS_BACKEND"`
	MetricsTags    string `envconfig:"METRICS_TAGS"`
}

// FromEnv reads settings from the process environment.
func FromEnv() (Settings, error) {
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return Settings{}, fmt.Errorf("read environment: %w", err)
	}
	return s, nil
}
