package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimaryVolumeName(t *testing.T) {
	tests := []struct {
		domain string
		want   string
	}{
		{"web1", "web1.img"},
		{"my-vm", "my-vm.img"},
		{"project_default", "project_default.img"},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, tt.want, PrimaryVolumeName(tt.domain))
		})
	}
}

func TestDiskVolumeName(t *testing.T) {
	tests := []struct {
		domain string
		device string
		format string
		want   string
	}{
		{"web1", "vdb", "qcow2", "web1-vdb.qcow2"},
		{"web1", "vdc", "raw", "web1-vdc.raw"},
		{"db-server", "sdb", "qcow2", "db-server-sdb.qcow2"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, DiskVolumeName(tt.domain, tt.device, tt.format))
		})
	}
}

func TestResolveVolumeName(t *testing.T) {
	tests := []struct {
		name     string
		device   string
		format   string
		explicit string
		path     string
		want     string
	}{
		{
			name:   "derived when nothing supplied",
			device: "vdb",
			format: "qcow2",
			want:   "web1-vdb.qcow2",
		},
		{
			name:   "path becomes name",
			device: "vdb",
			format: "qcow2",
			path:   "shared-data.qcow2",
			want:   "shared-data.qcow2",
		},
		{
			name:     "explicit name honored",
			device:   "vdb",
			format:   "qcow2",
			explicit: "custom.qcow2",
			want:     "custom.qcow2",
		},
		{
			name:     "path wins over explicit name",
			device:   "vdc",
			format:   "raw",
			explicit: "by-name.raw",
			path:     "by-path.raw",
			want:     "by-path.raw",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveVolumeName("web1", tt.device, tt.format, tt.explicit, tt.path)
			assert.Equal(t, tt.want, got)

			// Resolving the resolved name again must not change it.
			again := ResolveVolumeName("web1", tt.device, tt.format, got, tt.path)
			assert.Equal(t, got, again)
		})
	}
}

func TestStoragePrefix(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/var/lib/libvirt/images/web1.img", "/var/lib/libvirt/images/"},
		{"/srv/pools/fast/vm.img", "/srv/pools/fast/"},
		{"/web1.img", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, StoragePrefix(tt.path))
		})
	}
}

func TestAbsolutePath(t *testing.T) {
	prefix := StoragePrefix("/var/lib/libvirt/images/web1.img")
	assert.Equal(t, "/var/lib/libvirt/images/web1-vdb.qcow2", AbsolutePath(prefix, "web1-vdb.qcow2"))
}
