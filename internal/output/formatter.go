// Package output provides formatters for displaying crucible resources
// in various formats (table, YAML, JSON).
package output

import (
	"fmt"

	"github.com/jbweber/crucible/internal/machine"
	"github.com/jbweber/crucible/internal/storage"
)

// Format represents an output format type.
type Format string

const (
	// FormatTable is a human-readable table format.
	FormatTable Format = "table"
	// FormatYAML is a YAML format.
	FormatYAML Format = "yaml"
	// FormatJSON is a JSON format for machine consumption.
	FormatJSON Format = "json"
)

// MachineStatus is a machine record plus the live domain state, if known.
type MachineStatus struct {
	machine.Record `yaml:",inline"`

	// State is the libvirt domain state. Empty when it was not looked up.
	State string `json:"state,omitempty" yaml:"state,omitempty"`
}

// Formatter formats crucible resources for output.
type Formatter interface {
	// FormatMachines formats machine records.
	FormatMachines(machines []MachineStatus) (string, error)

	// FormatVolumes formats storage volumes.
	FormatVolumes(vols []storage.VolumeInfo) (string, error)

	// FormatPools formats storage pools.
	FormatPools(pools []storage.PoolInfo) (string, error)
}

// Options contains options for formatting output.
type Options struct {
	// Format specifies the output format.
	Format Format
	// NoHeaders omits headers in table format.
	NoHeaders bool
}

// NewFormatter creates a new Formatter based on the specified format.
func NewFormatter(opts Options) (Formatter, error) {
	switch opts.Format {
	case FormatTable:
		return &TableFormatter{NoHeaders: opts.NoHeaders}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, yaml, json)", opts.Format)
	}
}

// ValidateFormat checks if a format string is valid.
func ValidateFormat(format string) error {
	f := Format(format)
	switch f {
	case FormatTable, FormatYAML, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid formats: table, yaml, json)", format)
	}
}
