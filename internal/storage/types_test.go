package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVolumeSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    VolumeSpec
		wantErr bool
	}{
		{
			name: "valid qcow2 spec",
			spec: VolumeSpec{
				Name:          "web1-vdb.qcow2",
				Format:        VolumeFormatQCOW2,
				Path:          "/var/lib/libvirt/images/web1-vdb.qcow2",
				CapacityBytes: 5 << 30,
			},
		},
		{
			name: "valid raw spec without path",
			spec: VolumeSpec{
				Name:          "web1-vdc.raw",
				Format:        VolumeFormatRaw,
				CapacityBytes: 1 << 30,
			},
		},
		{
			name: "missing name",
			spec: VolumeSpec{
				Format:        VolumeFormatQCOW2,
				CapacityBytes: 1 << 30,
			},
			wantErr: true,
		},
		{
			name: "missing format",
			spec: VolumeSpec{
				Name:          "web1-vdb.qcow2",
				CapacityBytes: 1 << 30,
			},
			wantErr: true,
		},
		{
			name: "unsupported format",
			spec: VolumeSpec{
				Name:          "web1-vdb.vmdk",
				Format:        VolumeFormat("vmdk"),
				CapacityBytes: 1 << 30,
			},
			wantErr: true,
		},
		{
			name: "zero capacity",
			spec: VolumeSpec{
				Name:   "web1-vdb.qcow2",
				Format: VolumeFormatQCOW2,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
