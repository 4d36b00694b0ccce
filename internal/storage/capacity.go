package storage

import (
	"fmt"
	"strings"

	"github.com/c2h5oh/datasize"
)

// ParseCapacity converts a human capacity string ("5G", "512M", "10GB")
// into bytes.
//
// Units are binary (G = 1024^3), which is how libvirt reads unit="G" in
// volume XML.
func ParseCapacity(size string) (uint64, error) {
	s := strings.TrimSpace(size)
	if s == "" {
		return 0, fmt.Errorf("capacity is empty")
	}

	var ds datasize.ByteSize
	if err := ds.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid capacity %q: %w", size, err)
	}
	if ds.Bytes() == 0 {
		return 0, fmt.Errorf("capacity must be greater than 0, got %q", size)
	}

	return ds.Bytes(), nil
}
