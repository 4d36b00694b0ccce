// Package vm provisions libvirt domains.
//
// This package orchestrates the lower-level components (config, naming,
// plan, storage, libvirt) into a single provisioning run:
//   - Reconcile: locate the primary volume and create missing disk volumes
//   - plan.Assemble + libvirt.GenerateDomainXML: build the domain descriptor
//   - LogSettings: report the settings summary
//   - Submit: define the domain and record its id
//
// Provisioner.Create runs all of them in order. Provisioner.Render stops
// before Submit and never creates volumes.
//
// Error Handling:
//
// There is no rollback. A failed run returns an error wrapping one of
// ErrMissingPrimaryVolume, ErrVolumeCreationFailed or ErrDomainCreationFailed
// and leaves any volumes it created in the pool. Remove them with
// "crucible volume delete".
//
// Dependencies:
//
// Everything goes through the Backend interface. NewBackend builds the
// libvirt implementation from a go-libvirt connection and a storage.Manager;
// tests use an in-memory fake.
package vm
