// Package plan holds the data a domain definition is built from.
//
// Disks move through two phases. A DiskSpec is what configuration declared;
// a ResolvedDisk is what reconciliation found or created in the storage
// pool. Disk pairs the two so consumers never have to guess which fields
// are valid yet. Assemble folds configuration, the primary volume and the
// resolved disks into a Plan, which the libvirt package renders to domain
// XML. A Plan is not modified after assembly.
package plan
