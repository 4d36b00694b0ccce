package plan

// DiskSpec is an additional disk as declared in configuration.
type DiskSpec struct {
	Device        string // Guest device name, e.g. vdb
	Format        string // qcow2 or raw
	Size          string // Capacity string, e.g. "10G"
	Bus           string
	Cache         string
	Name          string // Explicit volume name, optional
	Path          string // Volume file name relative to the pool directory, optional
	AllowExisting bool
}

// ResolvedDisk holds what reconciliation learned about a declared disk.
type ResolvedDisk struct {
	Name          string // Volume name inside the storage pool
	AbsolutePath  string // Storage prefix + name
	CapacityBytes uint64
	// Preexisting is true when the volume was already in the pool and no
	// create call was issued for it in this run.
	Preexisting bool
}

// Disk pairs a declared disk with its resolution.
type Disk struct {
	Declared DiskSpec
	Resolved *ResolvedDisk
}

// CdromSpec is a cdrom device. The image at Path is never created or checked.
type CdromSpec struct {
	Device string
	Bus    string
	Path   string
}

// PrimaryVolume is the "<domain>.img" volume the domain boots from. It is
// discovered in the pool, never created here.
type PrimaryVolume struct {
	Name string
	Path string
}

// Graphics is the graphical console. Type "none" renders no console.
type Graphics struct {
	Type     string
	Autoport bool
	Port     int
	Listen   string
	Password string
}

// Video is the emulated video adapter.
type Video struct {
	Type    string
	VRAMKiB int
}

// Plan is everything needed to render a domain descriptor.
type Plan struct {
	Name        string
	DomainType  string // kvm or qemu
	VCPUs       int
	CPUMode     string
	Nested      bool
	MemoryKiB   uint64
	Arch        string
	MachineType string
	OSType      string
	Kernel      string
	Initrd      string
	Cmdline     string
	BootOrder   []string
	DiskBus     string
	VolumeCache string
	Box         string

	Primary PrimaryVolume
	Disks   []Disk
	CDROMs  []CdromSpec

	Graphics    Graphics
	Video       Video
	Keymap      string
	StoragePool string
}
