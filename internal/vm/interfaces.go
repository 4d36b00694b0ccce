package vm

import (
	"context"

	"github.com/digitalocean/go-libvirt"

	"github.com/jbweber/crucible/internal/storage"
)

// Backend is the hypervisor capability a provisioning run consumes.
//
// In production, this is satisfied by *LibvirtBackend.
// In tests, this is satisfied by a recording fake.
type Backend interface {
	// ListVolumes lists all volumes in a pool
	ListVolumes(ctx context.Context, poolName string) ([]storage.VolumeInfo, error)

	// CreateVolume creates a new volume in a pool
	CreateVolume(ctx context.Context, poolName string, spec storage.VolumeSpec) (storage.VolumeInfo, error)

	// CreateDomain defines a domain from XML and returns its identifier
	CreateDomain(ctx context.Context, xml string) (string, error)
}

// MachineState is the caller's durable record of the machine being built.
// SetID must persist the id before returning.
type MachineState interface {
	SetID(id string) error
}

// libvirtClient defines the libvirt domain operations used by this package.
//
// In production, this is satisfied by *libvirt.Libvirt directly.
// In tests, this is satisfied by mock implementations.
type libvirtClient interface {
	// DomainDefineXML defines a domain from XML
	DomainDefineXML(xml string) (libvirt.Domain, error)

	// DomainLookupByUUID looks up a domain by its UUID
	DomainLookupByUUID(uuid libvirt.UUID) (libvirt.Domain, error)

	// DomainGetState gets the state of a domain
	DomainGetState(dom libvirt.Domain, flags uint32) (state int32, reason int32, err error)

	// DomainGetInfo gets CPU and memory information for a domain
	DomainGetInfo(dom libvirt.Domain) (rState uint8, rMaxMem uint64, rMemory uint64, rNrVirtCPU uint16, rCPUTime uint64, err error)
}

// storageManager defines the storage operations needed for provisioning.
//
// In production, this is satisfied by *storage.Manager.
// In tests, this is satisfied by mock implementations.
type storageManager interface {
	// ListVolumes lists all volumes in a pool
	ListVolumes(ctx context.Context, poolName string) ([]storage.VolumeInfo, error)

	// CreateVolume creates a new volume in a pool
	CreateVolume(ctx context.Context, poolName string, spec storage.VolumeSpec) (storage.VolumeInfo, error)
}
