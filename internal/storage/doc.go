// Package storage provides libvirt storage pool and volume management.
//
// This package handles the storage operations a domain definition needs:
//   - Volume operations (create, delete, list, existence, path lookup)
//   - Pool inspection (list, info, refresh)
//   - Capacity strings ("5G", "512M") converted to bytes
//
// Volume Naming:
//
// Volume names are decided by the caller (see internal/naming). libvirt
// derives the on-disk file name from the volume name, so for a dir pool the
// volume "web1-vdb.qcow2" lands at <pool target>/web1-vdb.qcow2.
//
// Consumer-Side Interface:
//
// The LibvirtClient interface lists only the libvirt RPCs this package
// calls and is satisfied by *libvirt.Libvirt from go-libvirt. Consumers
// such as internal/vm declare their own narrower interfaces that Manager
// satisfies implicitly.
//
// Example usage:
//
//	client, err := libvirt.Connect(libvirt.DefaultSocket, libvirt.DefaultTimeout, log)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	mgr := storage.NewManager(client.Libvirt())
//
//	capacity, err := storage.ParseCapacity("5G")
//	if err != nil {
//	    return err
//	}
//
//	info, err := mgr.CreateVolume(ctx, "default", storage.VolumeSpec{
//	    Name:          "web1-vdb.qcow2",
//	    Format:        storage.VolumeFormatQCOW2,
//	    Path:          "/var/lib/libvirt/images/web1-vdb.qcow2",
//	    CapacityBytes: capacity,
//	})
package storage
