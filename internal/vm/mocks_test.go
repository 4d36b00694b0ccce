package vm

import (
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/digitalocean/go-libvirt"

	"github.com/jbweber/crucible/internal/storage"
)

const testPoolDir = "/var/lib/libvirt/images"

// mockLibvirtClient is a mock implementation of the libvirtClient interface for testing.
type mockLibvirtClient struct {
	mu sync.Mutex

	// Configurable behavior
	domainDefineXMLFunc    func(xml string) (libvirt.Domain, error)
	domainLookupByUUIDFunc func(uuid libvirt.UUID) (libvirt.Domain, error)
	domainGetStateFunc     func(dom libvirt.Domain, flags uint32) (int32, int32, error)
	domainGetInfoFunc      func(dom libvirt.Domain) (uint8, uint64, uint64, uint16, uint64, error)

	// Call tracking
	domainDefineXMLCalls    []string
	domainLookupByUUIDCalls []libvirt.UUID
}

// newMockLibvirtClient creates a new mock libvirt client with default behavior.
func newMockLibvirtClient() *mockLibvirtClient {
	m := &mockLibvirtClient{}

	// Default: define succeeds with a fixed UUID
	m.domainDefineXMLFunc = func(xml string) (libvirt.Domain, error) {
		return libvirt.Domain{Name: "web1", UUID: testUUID}, nil
	}

	m.domainLookupByUUIDFunc = func(uuid libvirt.UUID) (libvirt.Domain, error) {
		return libvirt.Domain{Name: "web1", UUID: uuid}, nil
	}

	// Default: domain is shut off
	m.domainGetStateFunc = func(dom libvirt.Domain, flags uint32) (int32, int32, error) {
		return int32(libvirt.DomainShutoff), 0, nil
	}

	m.domainGetInfoFunc = func(dom libvirt.Domain) (uint8, uint64, uint64, uint16, uint64, error) {
		return uint8(libvirt.DomainShutoff), 2097152, 2097152, 2, 0, nil
	}

	return m
}

func (m *mockLibvirtClient) DomainDefineXML(xml string) (libvirt.Domain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.domainDefineXMLCalls = append(m.domainDefineXMLCalls, xml)
	return m.domainDefineXMLFunc(xml)
}

func (m *mockLibvirtClient) DomainLookupByUUID(uuid libvirt.UUID) (libvirt.Domain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.domainLookupByUUIDCalls = append(m.domainLookupByUUIDCalls, uuid)
	return m.domainLookupByUUIDFunc(uuid)
}

func (m *mockLibvirtClient) DomainGetState(dom libvirt.Domain, flags uint32) (int32, int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.domainGetStateFunc(dom, flags)
}

func (m *mockLibvirtClient) DomainGetInfo(dom libvirt.Domain) (uint8, uint64, uint64, uint16, uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.domainGetInfoFunc(dom)
}

// testUUID is 12345678-9abc-def0-1234-56789abcdef0.
var testUUID = libvirt.UUID{
	0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0,
	0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0,
}

const testUUIDString = "12345678-9abc-def0-1234-56789abcdef0"

// createVolumeCall records one CreateVolume invocation.
type createVolumeCall struct {
	Pool string
	Spec storage.VolumeSpec
}

// mockBackend is an in-memory Backend that records every call.
//
// Volumes live in a map keyed by pool. Created volumes are added to the pool
// so later listings see them.
type mockBackend struct {
	mu sync.Mutex

	volumes map[string][]storage.VolumeInfo

	// Configurable behavior
	listVolumesFunc  func(ctx context.Context, poolName string) ([]storage.VolumeInfo, error)
	createVolumeFunc func(ctx context.Context, poolName string, spec storage.VolumeSpec) (storage.VolumeInfo, error)
	createDomainFunc func(ctx context.Context, xml string) (string, error)

	// Call tracking
	listVolumesCalls  []string
	createVolumeCalls []createVolumeCall
	createDomainCalls []string
}

// newMockBackend creates a backend whose pool "default" lives in testPoolDir.
func newMockBackend() *mockBackend {
	m := &mockBackend{volumes: map[string][]storage.VolumeInfo{}}

	m.listVolumesFunc = func(_ context.Context, poolName string) ([]storage.VolumeInfo, error) {
		return append([]storage.VolumeInfo(nil), m.volumes[poolName]...), nil
	}

	m.createVolumeFunc = func(_ context.Context, poolName string, spec storage.VolumeSpec) (storage.VolumeInfo, error) {
		info := storage.VolumeInfo{
			Name:     spec.Name,
			Path:     spec.Path,
			Pool:     poolName,
			Capacity: spec.CapacityBytes,
		}
		m.volumes[poolName] = append(m.volumes[poolName], info)
		return info, nil
	}

	m.createDomainFunc = func(_ context.Context, xml string) (string, error) {
		return testUUIDString, nil
	}

	return m
}

// addVolume places an existing volume in a pool.
func (m *mockBackend) addVolume(pool, name string, capacity uint64) {
	m.volumes[pool] = append(m.volumes[pool], storage.VolumeInfo{
		Name:     name,
		Path:     path.Join(testPoolDir, name),
		Pool:     pool,
		Capacity: capacity,
	})
}

func (m *mockBackend) ListVolumes(ctx context.Context, poolName string) ([]storage.VolumeInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listVolumesCalls = append(m.listVolumesCalls, poolName)
	return m.listVolumesFunc(ctx, poolName)
}

func (m *mockBackend) CreateVolume(ctx context.Context, poolName string, spec storage.VolumeSpec) (storage.VolumeInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createVolumeCalls = append(m.createVolumeCalls, createVolumeCall{Pool: poolName, Spec: spec})
	return m.createVolumeFunc(ctx, poolName, spec)
}

func (m *mockBackend) CreateDomain(ctx context.Context, xml string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createDomainCalls = append(m.createDomainCalls, xml)
	return m.createDomainFunc(ctx, xml)
}

// mockStorageManager is a mock implementation of the storageManager interface for testing.
type mockStorageManager struct {
	mu sync.Mutex

	listVolumesFunc  func(ctx context.Context, poolName string) ([]storage.VolumeInfo, error)
	createVolumeFunc func(ctx context.Context, poolName string, spec storage.VolumeSpec) (storage.VolumeInfo, error)

	listVolumesCalls  []string
	createVolumeCalls []createVolumeCall
}

func newMockStorageManager() *mockStorageManager {
	m := &mockStorageManager{}

	m.listVolumesFunc = func(context.Context, string) ([]storage.VolumeInfo, error) {
		return nil, nil
	}

	m.createVolumeFunc = func(_ context.Context, poolName string, spec storage.VolumeSpec) (storage.VolumeInfo, error) {
		return storage.VolumeInfo{Name: spec.Name, Path: spec.Path, Pool: poolName}, nil
	}

	return m
}

func (m *mockStorageManager) ListVolumes(ctx context.Context, poolName string) ([]storage.VolumeInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listVolumesCalls = append(m.listVolumesCalls, poolName)
	return m.listVolumesFunc(ctx, poolName)
}

func (m *mockStorageManager) CreateVolume(ctx context.Context, poolName string, spec storage.VolumeSpec) (storage.VolumeInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createVolumeCalls = append(m.createVolumeCalls, createVolumeCall{Pool: poolName, Spec: spec})
	return m.createVolumeFunc(ctx, poolName, spec)
}

// mockMachineState records ids and can be told to fail.
type mockMachineState struct {
	mu sync.Mutex

	setIDFunc  func(id string) error
	setIDCalls []string
}

func newMockMachineState() *mockMachineState {
	return &mockMachineState{
		setIDFunc: func(string) error { return nil },
	}
}

func (m *mockMachineState) SetID(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setIDCalls = append(m.setIDCalls, id)
	return m.setIDFunc(id)
}

// errBackend is returned by mocks configured to fail.
var errBackend = fmt.Errorf("libvirt: operation failed")
