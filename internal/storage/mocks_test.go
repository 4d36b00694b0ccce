package storage

import (
	"fmt"
	"path"

	"github.com/digitalocean/go-libvirt"
	libvirtxml "libvirt.org/go/libvirtxml"
)

// mockLibvirtClient is an in-memory implementation of LibvirtClient for testing.
type mockLibvirtClient struct {
	pools   map[string]*mockPool
	volumes map[string]map[string]*mockVolume // pool name -> volume name -> volume

	// createVolErr, when set, is returned by StorageVolCreateXML
	createVolErr error
	// createdXML records every volume XML passed to StorageVolCreateXML
	createdXML []string
	refreshed  []string
}

type mockPool struct {
	name      string
	uuid      libvirt.UUID
	state     libvirt.StoragePoolState
	poolType  string
	path      string
	capacity  uint64
	allocated uint64
	available uint64
}

type mockVolume struct {
	name      string
	path      string
	capacity  uint64
	allocated uint64
}

func newMockLibvirtClient() *mockLibvirtClient {
	return &mockLibvirtClient{
		pools:   make(map[string]*mockPool),
		volumes: make(map[string]map[string]*mockVolume),
	}
}

// addPool registers a running dir pool rooted at dir.
func (m *mockLibvirtClient) addPool(name, dir string) {
	var id libvirt.UUID
	copy(id[:], name)
	m.pools[name] = &mockPool{
		name:      name,
		uuid:      id,
		state:     libvirt.StoragePoolRunning,
		poolType:  "dir",
		path:      dir,
		capacity:  1 << 40, // 1 TiB
		available: 1 << 40,
	}
	m.volumes[name] = make(map[string]*mockVolume)
}

// addVolume registers an existing volume inside a pool.
func (m *mockLibvirtClient) addVolume(poolName, name string, capacity uint64) {
	p := m.pools[poolName]
	m.volumes[poolName][name] = &mockVolume{
		name:     name,
		path:     path.Join(p.path, name),
		capacity: capacity,
	}
}

func (m *mockLibvirtClient) StoragePoolLookupByName(name string) (libvirt.StoragePool, error) {
	pool, ok := m.pools[name]
	if !ok {
		return libvirt.StoragePool{}, fmt.Errorf("storage pool not found: %s", name)
	}
	return libvirt.StoragePool{
		Name: pool.name,
		UUID: pool.uuid,
	}, nil
}

func (m *mockLibvirtClient) StoragePoolGetInfo(pool libvirt.StoragePool) (rState uint8, rCapacity uint64, rAllocation uint64, rAvailable uint64, err error) {
	p, ok := m.pools[pool.Name]
	if !ok {
		return 0, 0, 0, 0, fmt.Errorf("storage pool not found: %s", pool.Name)
	}
	return uint8(p.state), p.capacity, p.allocated, p.available, nil
}

func (m *mockLibvirtClient) StoragePoolGetXMLDesc(pool libvirt.StoragePool, flags libvirt.StorageXMLFlags) (string, error) {
	p, ok := m.pools[pool.Name]
	if !ok {
		return "", fmt.Errorf("storage pool not found: %s", pool.Name)
	}
	def := &libvirtxml.StoragePool{
		Type:   p.poolType,
		Name:   p.name,
		Target: &libvirtxml.StoragePoolTarget{Path: p.path},
	}
	return def.Marshal()
}

func (m *mockLibvirtClient) StoragePoolListAllVolumes(pool libvirt.StoragePool, needResults int32, flags uint32) ([]libvirt.StorageVol, uint32, error) {
	vols, ok := m.volumes[pool.Name]
	if !ok {
		return nil, 0, fmt.Errorf("storage pool not found: %s", pool.Name)
	}

	var result []libvirt.StorageVol
	for name := range vols {
		result = append(result, libvirt.StorageVol{
			Pool: pool.Name,
			Name: name,
		})
	}

	return result, uint32(len(result)), nil
}

func (m *mockLibvirtClient) StoragePoolRefresh(pool libvirt.StoragePool, flags uint32) error {
	if _, ok := m.pools[pool.Name]; !ok {
		return fmt.Errorf("storage pool not found: %s", pool.Name)
	}
	m.refreshed = append(m.refreshed, pool.Name)
	return nil
}

func (m *mockLibvirtClient) StorageVolLookupByName(pool libvirt.StoragePool, name string) (libvirt.StorageVol, error) {
	vols, ok := m.volumes[pool.Name]
	if !ok {
		return libvirt.StorageVol{}, fmt.Errorf("storage pool not found: %s", pool.Name)
	}

	vol, ok := vols[name]
	if !ok {
		return libvirt.StorageVol{}, fmt.Errorf("storage volume not found: %s", name)
	}

	return libvirt.StorageVol{
		Pool: pool.Name,
		Name: vol.name,
	}, nil
}

func (m *mockLibvirtClient) StorageVolCreateXML(pool libvirt.StoragePool, xml string, flags libvirt.StorageVolCreateFlags) (libvirt.StorageVol, error) {
	m.createdXML = append(m.createdXML, xml)
	if m.createVolErr != nil {
		return libvirt.StorageVol{}, m.createVolErr
	}

	vols, ok := m.volumes[pool.Name]
	if !ok {
		return libvirt.StorageVol{}, fmt.Errorf("storage pool not found: %s", pool.Name)
	}

	var def libvirtxml.StorageVolume
	if err := def.Unmarshal(xml); err != nil {
		return libvirt.StorageVol{}, fmt.Errorf("invalid volume XML: %w", err)
	}
	if def.Name == "" {
		return libvirt.StorageVol{}, fmt.Errorf("invalid volume XML: missing name")
	}

	if _, ok := vols[def.Name]; ok {
		return libvirt.StorageVol{}, fmt.Errorf("storage volume already exists: %s", def.Name)
	}

	var capacity uint64
	if def.Capacity != nil {
		capacity = def.Capacity.Value
	}

	// libvirt places dir pool volumes under the pool target, named after <name>
	vols[def.Name] = &mockVolume{
		name:     def.Name,
		path:     path.Join(m.pools[pool.Name].path, def.Name),
		capacity: capacity,
	}

	return libvirt.StorageVol{
		Pool: pool.Name,
		Name: def.Name,
	}, nil
}

func (m *mockLibvirtClient) StorageVolDelete(vol libvirt.StorageVol, flags libvirt.StorageVolDeleteFlags) error {
	vols, ok := m.volumes[vol.Pool]
	if !ok {
		return fmt.Errorf("storage pool not found: %s", vol.Pool)
	}

	if _, ok := vols[vol.Name]; !ok {
		return fmt.Errorf("storage volume not found: %s", vol.Name)
	}

	delete(vols, vol.Name)
	return nil
}

func (m *mockLibvirtClient) StorageVolGetPath(vol libvirt.StorageVol) (string, error) {
	vols, ok := m.volumes[vol.Pool]
	if !ok {
		return "", fmt.Errorf("storage pool not found: %s", vol.Pool)
	}

	v, ok := vols[vol.Name]
	if !ok {
		return "", fmt.Errorf("storage volume not found: %s", vol.Name)
	}

	return v.path, nil
}

func (m *mockLibvirtClient) StorageVolGetInfo(vol libvirt.StorageVol) (rType int8, rCapacity uint64, rAllocation uint64, err error) {
	vols, ok := m.volumes[vol.Pool]
	if !ok {
		return 0, 0, 0, fmt.Errorf("storage pool not found: %s", vol.Pool)
	}

	v, ok := vols[vol.Name]
	if !ok {
		return 0, 0, 0, fmt.Errorf("storage volume not found: %s", vol.Name)
	}

	return 0, v.capacity, v.allocated, nil
}

func (m *mockLibvirtClient) ConnectListAllStoragePools(needResults int32, flags libvirt.ConnectListAllStoragePoolsFlags) ([]libvirt.StoragePool, uint32, error) {
	var result []libvirt.StoragePool
	for name, pool := range m.pools {
		result = append(result, libvirt.StoragePool{
			Name: name,
			UUID: pool.uuid,
		})
	}
	return result, uint32(len(result)), nil
}
