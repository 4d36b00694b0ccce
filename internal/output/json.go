package output

import (
	"encoding/json"
	"fmt"

	"github.com/jbweber/crucible/internal/storage"
)

// JSONFormatter formats resources as JSON arrays.
type JSONFormatter struct{}

// FormatMachines formats machines as a JSON array.
func (f *JSONFormatter) FormatMachines(machines []MachineStatus) (string, error) {
	return marshalJSONList(machines, "machines")
}

// FormatVolumes formats volumes as a JSON array.
func (f *JSONFormatter) FormatVolumes(vols []storage.VolumeInfo) (string, error) {
	return marshalJSONList(vols, "volumes")
}

// FormatPools formats pools as a JSON array.
func (f *JSONFormatter) FormatPools(pools []storage.PoolInfo) (string, error) {
	return marshalJSONList(pools, "pools")
}

func marshalJSONList[T any](items []T, kind string) (string, error) {
	if len(items) == 0 {
		return "[]\n", nil
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s to JSON: %w", kind, err)
	}

	return string(data) + "\n", nil
}
