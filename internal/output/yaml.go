package output

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/crucible/internal/storage"
)

// YAMLFormatter formats resources as YAML.
// Lists are written as a YAML stream (multiple documents separated by ---).
type YAMLFormatter struct{}

// FormatMachines formats machines as YAML documents.
func (f *YAMLFormatter) FormatMachines(machines []MachineStatus) (string, error) {
	return marshalYAMLStream(machines, func(m MachineStatus) string { return m.Name })
}

// FormatVolumes formats volumes as YAML documents.
func (f *YAMLFormatter) FormatVolumes(vols []storage.VolumeInfo) (string, error) {
	return marshalYAMLStream(vols, func(v storage.VolumeInfo) string { return v.Name })
}

// FormatPools formats pools as YAML documents.
func (f *YAMLFormatter) FormatPools(pools []storage.PoolInfo) (string, error) {
	return marshalYAMLStream(pools, func(p storage.PoolInfo) string { return p.Name })
}

func marshalYAMLStream[T any](items []T, name func(T) string) (string, error) {
	var buf bytes.Buffer

	for i, item := range items {
		data, err := yaml.Marshal(item)
		if err != nil {
			return "", fmt.Errorf("failed to marshal %s to YAML: %w", name(item), err)
		}

		// Add document separator between items (but not before the first one)
		if i > 0 {
			buf.WriteString("---\n")
		}

		buf.Write(data)
	}

	return buf.String(), nil
}
