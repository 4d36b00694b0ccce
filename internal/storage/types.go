package storage

import "fmt"

// PoolType represents the type of storage pool backend.
type PoolType string

const (
	PoolTypeDir     PoolType = "dir"     // Directory-based storage
	PoolTypeLVM     PoolType = "logical" // LVM volume group
	PoolTypeZFS     PoolType = "zfs"     // ZFS pool
	PoolTypeNFS     PoolType = "netfs"   // NFS mount
	PoolTypeCeph    PoolType = "rbd"     // Ceph RBD
	PoolTypeISCSI   PoolType = "iscsi"   // iSCSI target
	PoolTypeGluster PoolType = "gluster" // GlusterFS
)

// VolumeFormat represents the disk format.
type VolumeFormat string

const (
	VolumeFormatQCOW2 VolumeFormat = "qcow2" // QCOW2 format
	VolumeFormatRaw   VolumeFormat = "raw"   // Raw format
)

// VolumeSpec specifies how to create a storage volume.
type VolumeSpec struct {
	Name          string       // Volume name; libvirt derives the file name from this
	Format        VolumeFormat // Disk format (qcow2, raw)
	Path          string       // Absolute target path, informational for dir pools
	CapacityBytes uint64       // Capacity in bytes
}

// Validate checks if the volume spec is valid.
func (v *VolumeSpec) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("volume name is required")
	}
	if v.Format == "" {
		return fmt.Errorf("volume format is required")
	}
	if v.Format != VolumeFormatQCOW2 && v.Format != VolumeFormatRaw {
		return fmt.Errorf("invalid volume format: %s (must be qcow2 or raw)", v.Format)
	}
	if v.CapacityBytes == 0 {
		return fmt.Errorf("volume capacity must be greater than 0")
	}
	return nil
}

// PoolInfo contains information about a storage pool.
type PoolInfo struct {
	Name       string   `json:"name" yaml:"name"`
	Type       PoolType `json:"type" yaml:"type"`
	Path       string   `json:"path,omitempty" yaml:"path,omitempty"`
	UUID       string   `json:"uuid" yaml:"uuid"`
	State      string   `json:"state" yaml:"state"`
	Capacity   uint64   `json:"capacity" yaml:"capacity"`     // bytes
	Allocation uint64   `json:"allocation" yaml:"allocation"` // bytes
	Available  uint64   `json:"available" yaml:"available"`   // bytes
}

// VolumeInfo contains information about a storage volume.
type VolumeInfo struct {
	Name       string `json:"name" yaml:"name"`
	Path       string `json:"path" yaml:"path"`
	Pool       string `json:"pool" yaml:"pool"`
	Capacity   uint64 `json:"capacity" yaml:"capacity"`     // bytes
	Allocation uint64 `json:"allocation" yaml:"allocation"` // bytes
}
