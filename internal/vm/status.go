package vm

import (
	"context"
	"fmt"

	"github.com/digitalocean/go-libvirt"
	"github.com/google/uuid"
)

// DomainInfo is the live state of a defined domain.
type DomainInfo struct {
	Name      string `json:"name" yaml:"name"`
	ID        string `json:"id" yaml:"id"`
	State     string `json:"state" yaml:"state"`
	CPUs      uint16 `json:"cpus" yaml:"cpus"`
	MemoryMiB uint64 `json:"memory_mib" yaml:"memory_mib"`
}

// DomainStatus looks up a domain by the id Submit returned.
func (b *LibvirtBackend) DomainStatus(_ context.Context, id string) (*DomainInfo, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid domain id %q: %w", id, err)
	}

	dom, err := b.lv.DomainLookupByUUID(libvirt.UUID(parsed))
	if err != nil {
		return nil, fmt.Errorf("failed to look up domain %s: %w", id, err)
	}

	return getDomainInfo(b.lv, dom)
}

func getDomainInfo(lv libvirtClient, dom libvirt.Domain) (*DomainInfo, error) {
	state, _, err := lv.DomainGetState(dom, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get domain state: %w", err)
	}

	_, _, memory, nrVirtCPU, _, err := lv.DomainGetInfo(dom)
	if err != nil {
		return nil, fmt.Errorf("failed to get domain info: %w", err)
	}

	return &DomainInfo{
		Name:      dom.Name,
		ID:        uuid.UUID(dom.UUID).String(),
		State:     stateToString(state),
		CPUs:      nrVirtCPU,
		MemoryMiB: memory / 1024,
	}, nil
}

// stateToString converts libvirt domain state to human-readable string.
func stateToString(state int32) string {
	switch libvirt.DomainState(state) {
	case libvirt.DomainNostate:
		return "no state"
	case libvirt.DomainRunning:
		return "running"
	case libvirt.DomainBlocked:
		return "blocked"
	case libvirt.DomainPaused:
		return "paused"
	case libvirt.DomainShutdown:
		return "shutdown"
	case libvirt.DomainShutoff:
		return "shutoff"
	case libvirt.DomainCrashed:
		return "crashed"
	case libvirt.DomainPmsuspended:
		return "pmsuspended"
	default:
		return fmt.Sprintf("unknown(%d)", state)
	}
}
