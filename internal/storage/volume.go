package storage

import (
	"context"
	"fmt"
	"strings"

	libvirtxml "libvirt.org/go/libvirtxml"
)

// CreateVolume creates a new volume in the specified pool and returns the
// volume as libvirt reports it after creation.
func (m *Manager) CreateVolume(ctx context.Context, poolName string, spec VolumeSpec) (VolumeInfo, error) {
	// Validate the volume spec
	if err := spec.Validate(); err != nil {
		return VolumeInfo{}, fmt.Errorf("invalid volume spec: %w", err)
	}

	// Look up the pool
	pool, err := m.client.StoragePoolLookupByName(poolName)
	if err != nil {
		return VolumeInfo{}, fmt.Errorf("pool not found: %w", err)
	}

	// Generate volume XML
	volumeXML, err := generateVolumeXML(spec)
	if err != nil {
		return VolumeInfo{}, fmt.Errorf("failed to generate volume XML: %w", err)
	}

	// Create the volume
	vol, err := m.client.StorageVolCreateXML(pool, volumeXML, 0)
	if err != nil {
		return VolumeInfo{}, fmt.Errorf("failed to create volume: %w", err)
	}

	info := VolumeInfo{
		Name:     vol.Name,
		Path:     spec.Path,
		Pool:     poolName,
		Capacity: spec.CapacityBytes,
	}

	// Prefer the path libvirt actually chose
	if path, err := m.client.StorageVolGetPath(vol); err == nil {
		info.Path = path
	}

	return info, nil
}

// DeleteVolume deletes a volume from the specified pool.
func (m *Manager) DeleteVolume(ctx context.Context, poolName, volumeName string) error {
	// Look up the pool
	pool, err := m.client.StoragePoolLookupByName(poolName)
	if err != nil {
		return fmt.Errorf("pool not found: %w", err)
	}

	// Look up the volume
	vol, err := m.client.StorageVolLookupByName(pool, volumeName)
	if err != nil {
		return fmt.Errorf("volume not found: %w", err)
	}

	// Delete the volume
	if err := m.client.StorageVolDelete(vol, 0); err != nil {
		return fmt.Errorf("failed to delete volume: %w", err)
	}

	return nil
}

// ListVolumes lists all volumes in the specified pool.
func (m *Manager) ListVolumes(ctx context.Context, poolName string) ([]VolumeInfo, error) {
	// Look up the pool
	pool, err := m.client.StoragePoolLookupByName(poolName)
	if err != nil {
		return nil, fmt.Errorf("pool not found: %w", err)
	}

	// List volumes
	volumes, _, err := m.client.StoragePoolListAllVolumes(pool, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list volumes: %w", err)
	}

	var volumeInfos []VolumeInfo
	for _, vol := range volumes {
		// Get volume path
		path, err := m.client.StorageVolGetPath(vol)
		if err != nil {
			// Skip volumes we can't get the path for
			continue
		}

		// Get volume info
		_, capacity, allocation, err := m.client.StorageVolGetInfo(vol)
		if err != nil {
			// Skip volumes we can't get info for
			continue
		}

		volumeInfos = append(volumeInfos, VolumeInfo{
			Name:       vol.Name,
			Path:       path,
			Pool:       poolName,
			Capacity:   capacity,
			Allocation: allocation,
		})
	}

	return volumeInfos, nil
}

// GetVolumePath returns the absolute path of a volume.
func (m *Manager) GetVolumePath(ctx context.Context, poolName, volumeName string) (string, error) {
	pool, err := m.client.StoragePoolLookupByName(poolName)
	if err != nil {
		return "", fmt.Errorf("pool not found: %w", err)
	}

	vol, err := m.client.StorageVolLookupByName(pool, volumeName)
	if err != nil {
		return "", fmt.Errorf("volume not found: %w", err)
	}

	path, err := m.client.StorageVolGetPath(vol)
	if err != nil {
		return "", fmt.Errorf("failed to get volume path: %w", err)
	}

	return path, nil
}

// VolumeExists checks if a volume exists in the specified pool.
func (m *Manager) VolumeExists(ctx context.Context, poolName, volumeName string) (bool, error) {
	// Look up the pool
	pool, err := m.client.StoragePoolLookupByName(poolName)
	if err != nil {
		return false, fmt.Errorf("pool not found: %w", err)
	}

	// Try to look up the volume
	_, err = m.client.StorageVolLookupByName(pool, volumeName)
	if err != nil {
		// Volume doesn't exist
		return false, nil
	}

	return true, nil
}

// generateVolumeXML generates XML for a storage volume.
//
// libvirt ignores <target><path> on creation and names the file after
// <name>; the path is still written so the XML documents where the volume
// is expected to land.
func generateVolumeXML(spec VolumeSpec) (string, error) {
	vol := &libvirtxml.StorageVolume{
		Name: spec.Name,
		Capacity: &libvirtxml.StorageVolumeSize{
			Value: spec.CapacityBytes,
			Unit:  "B",
		},
		Target: &libvirtxml.StorageVolumeTarget{
			Path: spec.Path,
			Format: &libvirtxml.StorageVolumeTargetFormat{
				Type: string(spec.Format),
			},
		},
	}

	xml, err := vol.Marshal()
	if err != nil {
		return "", err
	}

	// Clean up the XML: remove standalone attribute
	xml = strings.TrimPrefix(xml, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>")
	xml = strings.TrimSpace(xml)

	return xml, nil
}
