package vm

import (
	"context"
	"testing"

	"github.com/digitalocean/go-libvirt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/crucible/internal/storage"
)

func TestLibvirtBackend_CreateDomain(t *testing.T) {
	lv := newMockLibvirtClient()
	b := NewBackend(lv, newMockStorageManager())

	id, err := b.CreateDomain(context.Background(), "<domain/>")
	require.NoError(t, err)

	assert.Equal(t, testUUIDString, id)
	assert.Equal(t, []string{"<domain/>"}, lv.domainDefineXMLCalls)
}

func TestLibvirtBackend_CreateDomainFailure(t *testing.T) {
	lv := newMockLibvirtClient()
	lv.domainDefineXMLFunc = func(string) (libvirt.Domain, error) {
		return libvirt.Domain{}, errBackend
	}
	b := NewBackend(lv, newMockStorageManager())

	_, err := b.CreateDomain(context.Background(), "<domain/>")
	require.ErrorIs(t, err, errBackend)
	assert.ErrorContains(t, err, "failed to define domain")
}

func TestLibvirtBackend_DelegatesStorage(t *testing.T) {
	sm := newMockStorageManager()
	b := NewBackend(newMockLibvirtClient(), sm)

	_, err := b.ListVolumes(context.Background(), "default")
	require.NoError(t, err)

	spec := storage.VolumeSpec{Name: "web1-vdb.qcow2", Format: storage.VolumeFormatQCOW2, CapacityBytes: 1}
	info, err := b.CreateVolume(context.Background(), "default", spec)
	require.NoError(t, err)

	assert.Equal(t, "web1-vdb.qcow2", info.Name)
	assert.Equal(t, []string{"default"}, sm.listVolumesCalls)
	assert.Equal(t, []createVolumeCall{{Pool: "default", Spec: spec}}, sm.createVolumeCalls)
}

func TestLibvirtBackend_DomainStatus(t *testing.T) {
	lv := newMockLibvirtClient()
	b := NewBackend(lv, newMockStorageManager())

	info, err := b.DomainStatus(context.Background(), testUUIDString)
	require.NoError(t, err)

	assert.Equal(t, &DomainInfo{
		Name:      "web1",
		ID:        testUUIDString,
		State:     "shutoff",
		CPUs:      2,
		MemoryMiB: 2048,
	}, info)
	assert.Equal(t, []libvirt.UUID{testUUID}, lv.domainLookupByUUIDCalls)
}

func TestLibvirtBackend_DomainStatusErrors(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		b := NewBackend(newMockLibvirtClient(), newMockStorageManager())

		_, err := b.DomainStatus(context.Background(), "not-a-uuid")
		assert.ErrorContains(t, err, "invalid domain id")
	})

	t.Run("lookup fails", func(t *testing.T) {
		lv := newMockLibvirtClient()
		lv.domainLookupByUUIDFunc = func(libvirt.UUID) (libvirt.Domain, error) {
			return libvirt.Domain{}, errBackend
		}
		b := NewBackend(lv, newMockStorageManager())

		_, err := b.DomainStatus(context.Background(), testUUIDString)
		assert.ErrorIs(t, err, errBackend)
	})

	t.Run("state fails", func(t *testing.T) {
		lv := newMockLibvirtClient()
		lv.domainGetStateFunc = func(libvirt.Domain, uint32) (int32, int32, error) {
			return 0, 0, errBackend
		}
		b := NewBackend(lv, newMockStorageManager())

		_, err := b.DomainStatus(context.Background(), testUUIDString)
		assert.ErrorContains(t, err, "failed to get domain state")
	})
}

func TestStateToString(t *testing.T) {
	tests := []struct {
		state int32
		want  string
	}{
		{0, "no state"},
		{1, "running"},
		{2, "blocked"},
		{3, "paused"},
		{4, "shutdown"},
		{5, "shutoff"},
		{6, "crashed"},
		{7, "pmsuspended"},
		{99, "unknown(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, stateToString(tt.state))
		})
	}
}
