package model

import "fmt"

// ConfigError reports a configuration value that invalidates every candidate
// in a run: non-positive capacity, bad prices, unknown schemes, discounts
// outside [0,100]. Fatal before any simulation executes.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// DataError reports a dataset that cannot be simulated: empty input or rows
// that should have been rejected upstream. Fatal for the whole run; the core
// does not drop bad rows.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("invalid dataset: %s", e.Reason)
}
