package storage

import (
	"context"
	"fmt"

	"github.com/digitalocean/go-libvirt"
	"github.com/google/uuid"
	libvirtxml "libvirt.org/go/libvirtxml"
)

// ListPools lists all storage pools.
func (m *Manager) ListPools(ctx context.Context) ([]PoolInfo, error) {
	pools, _, err := m.client.ConnectListAllStoragePools(1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}

	var poolInfos []PoolInfo
	for _, pool := range pools {
		info, err := m.GetPoolInfo(ctx, pool.Name)
		if err != nil {
			// Skip pools we can't get info for
			continue
		}
		poolInfos = append(poolInfos, *info)
	}

	return poolInfos, nil
}

// GetPoolInfo gets detailed information about a storage pool.
func (m *Manager) GetPoolInfo(ctx context.Context, name string) (*PoolInfo, error) {
	pool, err := m.client.StoragePoolLookupByName(name)
	if err != nil {
		return nil, fmt.Errorf("pool not found: %w", err)
	}

	poolState, capacity, allocation, available, err := m.client.StoragePoolGetInfo(pool)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool info: %w", err)
	}

	// Type and target path only live in the pool XML
	xmlDesc, err := m.client.StoragePoolGetXMLDesc(pool, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool XML: %w", err)
	}

	var poolDef libvirtxml.StoragePool
	if err := poolDef.Unmarshal(xmlDesc); err != nil {
		return nil, fmt.Errorf("failed to parse pool XML: %w", err)
	}

	poolPath := ""
	if poolDef.Target != nil {
		poolPath = poolDef.Target.Path
	}

	return &PoolInfo{
		Name:       pool.Name,
		Type:       PoolType(poolDef.Type),
		Path:       poolPath,
		UUID:       uuid.UUID(pool.UUID).String(),
		State:      poolStateString(libvirt.StoragePoolState(poolState)),
		Capacity:   capacity,
		Allocation: allocation,
		Available:  available,
	}, nil
}

// RefreshPool refreshes a storage pool so volumes created outside libvirt
// become visible.
func (m *Manager) RefreshPool(ctx context.Context, name string) error {
	pool, err := m.client.StoragePoolLookupByName(name)
	if err != nil {
		return fmt.Errorf("pool not found: %w", err)
	}

	if err := m.client.StoragePoolRefresh(pool, 0); err != nil {
		return fmt.Errorf("failed to refresh pool: %w", err)
	}

	return nil
}

func poolStateString(state libvirt.StoragePoolState) string {
	switch state {
	case libvirt.StoragePoolInactive:
		return "inactive"
	case libvirt.StoragePoolBuilding:
		return "building"
	case libvirt.StoragePoolRunning:
		return "running"
	case libvirt.StoragePoolDegraded:
		return "degraded"
	case libvirt.StoragePoolInaccessible:
		return "inaccessible"
	default:
		return "unknown"
	}
}
