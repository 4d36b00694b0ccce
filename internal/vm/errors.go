package vm

import "errors"

// Errors that abort a provisioning run. Returned errors wrap one of these
// together with the backend's diagnostic, so both errors.Is and the message
// are useful to callers. None of them trigger a retry or a rollback.
var (
	// ErrMissingPrimaryVolume means "<domain>.img" is not in the storage pool.
	// The image staging step that should have put it there was skipped or failed.
	ErrMissingPrimaryVolume = errors.New("primary volume not found in storage pool")

	// ErrVolumeCreationFailed means libvirt rejected a volume create call.
	// Volumes created earlier in the same run are left in place.
	ErrVolumeCreationFailed = errors.New("volume creation failed")

	// ErrDomainCreationFailed means libvirt rejected the domain definition.
	// Volumes created earlier in the same run are left in place.
	ErrDomainCreationFailed = errors.New("domain creation failed")

	// ErrAlreadyCreated means the machine record already holds a domain id.
	ErrAlreadyCreated = errors.New("machine already has a domain")
)
