// Package libvirt provides a client wrapper for interacting with libvirt
// and renders domain plans into libvirt domain XML.
//
// This package wraps github.com/digitalocean/go-libvirt to provide:
//   - Connection management (connect, disconnect, ping, version)
//   - Domain XML generation from a plan.Plan
//
// Connection Management:
//
// The package connects to the local libvirt daemon via Unix socket:
//
//	client, err := libvirt.Connect(libvirt.DefaultSocket, libvirt.DefaultTimeout, log)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	if err := client.Ping(); err != nil {
//	    return err
//	}
//
// Domain XML Generation:
//
// GenerateDomainXML is a pure function of the plan:
//
//	xml, err := libvirt.GenerateDomainXML(p)
//	if err != nil {
//	    return err
//	}
//
//	dom, err := client.Libvirt().DomainDefineXML(xml)
//
// The primary volume is attached as vda, followed by the additional disks in
// declaration order and then the cdroms. Disks reference their volumes by
// absolute file path, not by pool/volume pair, because volume names for dir
// pools are file names under the directory the primary volume lives in.
//
// Consumer-Side Interfaces:
//
// This package does not define interfaces. Consumers (internal/vm,
// internal/storage) define their own interfaces listing only the operations
// they need, and *libvirt.Libvirt satisfies them implicitly.
package libvirt
