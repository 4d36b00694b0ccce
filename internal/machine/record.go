// Package machine persists what crucible knows about each machine it has
// provisioned.
//
// Records are YAML files named "<name>.yaml" under a state directory. The
// domain id is the only field the provisioning run writes, and it is written
// the moment libvirt reports the domain as defined, so a crash between define
// and exit never loses track of a domain.
package machine

import (
	"time"
)

// Record is the persisted state of one machine.
type Record struct {
	Name        string    `json:"name" yaml:"name"`
	ID          string    `json:"id,omitempty" yaml:"id,omitempty"`
	Provider    string    `json:"provider" yaml:"provider"`
	StoragePool string    `json:"storage_pool,omitempty" yaml:"storage_pool,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// ProviderLibvirt is the only provider crucible records.
const ProviderLibvirt = "libvirt"

// Created reports whether a domain has been defined for this machine.
func (r *Record) Created() bool {
	return r.ID != ""
}
