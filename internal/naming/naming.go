// Package naming provides the volume naming and path conventions for
// libvirt storage used by crucible.
//
// Every function here is pure: the same inputs always give the same
// name or path, so resolving an already resolved value is a no-op.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PrimaryVolumeSuffix is appended to the domain name to form the name of
// the primary boot volume staged by the image import step.
const PrimaryVolumeSuffix = ".img"

// PrimaryVolumeName returns the name of a domain's primary boot volume.
// Format: {domainName}.img (e.g., "web1.img")
func PrimaryVolumeName(domainName string) string {
	return domainName + PrimaryVolumeSuffix
}

// DiskVolumeName returns the derived volume name for an additional disk.
// Format: {domainName}-{device}.{format} (e.g., "web1-vdb.qcow2")
func DiskVolumeName(domainName, device, format string) string {
	return fmt.Sprintf("%s-%s.%s", domainName, device, format)
}

// ResolveVolumeName returns the volume name to use for a declared disk.
//
// An explicit path always wins and becomes the name, because libvirt's
// volume creation takes the on-disk identity from <name> and ignores
// <target><path>. Otherwise an explicit name is used. With neither set the
// name is derived with DiskVolumeName.
func ResolveVolumeName(domainName, device, format, name, path string) string {
	if path != "" {
		return path
	}
	if name != "" {
		return name
	}
	return DiskVolumeName(domainName, device, format)
}

// StoragePrefix returns the pool directory prefix, with a trailing slash,
// for a volume at the given path.
//
// The volume path comes from the pool, never from configuration.
// Example: "/var/lib/libvirt/images/web1.img" → "/var/lib/libvirt/images/"
func StoragePrefix(volumePath string) string {
	dir := filepath.Dir(volumePath)
	if strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + "/"
}

// AbsolutePath joins a storage prefix and a volume name.
// The prefix is used verbatim, so it must come from StoragePrefix.
func AbsolutePath(storagePrefix, name string) string {
	return storagePrefix + name
}
