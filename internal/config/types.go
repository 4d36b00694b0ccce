package config

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/jbweber/crucible/internal/storage"
)

// Defaults applied by Normalize.
const (
	DefaultDriver       = "kvm"
	DefaultCPUs         = 1
	DefaultMemoryMiB    = 512
	DefaultCPUMode      = "host-model"
	DefaultDiskBus      = "virtio"
	DefaultVolumeCache  = "default"
	DefaultGraphicsType = "vnc"
	DefaultGraphicsPort = 5900
	DefaultGraphicsIP   = "127.0.0.1"
	DefaultVideoType    = "cirrus"
	DefaultVideoVRAM    = 9216
	DefaultKeymap       = "en-us"
	DefaultStoragePool  = "default"
	DefaultDiskFormat   = "qcow2"
	DefaultDiskSize     = "10G"
	DefaultDiskCache    = "default"
	DefaultCDROMBus     = "ide"
)

// GraphicsNone disables the graphical console entirely.
const GraphicsNone = "none"

// cdromDevices are the IDE slots left for cdroms once the primary
// controller holds hda/hdb.
var cdromDevices = []string{"hdc", "hdd"}

var (
	validDrivers       = []string{"kvm", "qemu"}
	validGraphicsTypes = []string{"vnc", "spice", GraphicsNone}
	validBootDevices   = []string{"hd", "cdrom", "network", "fd"}
)

// DomainConfig represents the complete provider configuration for one domain.
type DomainConfig struct {
	Name        string         `yaml:"name"`
	Box         string         `yaml:"box,omitempty"` // Base box the primary volume came from, informational
	Driver      string         `yaml:"driver,omitempty"`
	CPUs        int            `yaml:"cpus,omitempty"`
	CPUMode     string         `yaml:"cpu_mode,omitempty"`
	Nested      bool           `yaml:"nested,omitempty"`
	MemoryMiB   int            `yaml:"memory,omitempty"`
	MachineType string         `yaml:"machine_type,omitempty"`
	MachineArch string         `yaml:"machine_arch,omitempty"`
	DiskBus     string         `yaml:"disk_bus,omitempty"`
	VolumeCache string         `yaml:"volume_cache,omitempty"`
	Kernel      string         `yaml:"kernel,omitempty"`
	Initrd      string         `yaml:"initrd,omitempty"`
	CmdLine     string         `yaml:"cmd_line,omitempty"`
	BootOrder   []string       `yaml:"boot_order,omitempty"`
	Graphics    GraphicsConfig `yaml:"graphics,omitempty"`
	Video       VideoConfig    `yaml:"video,omitempty"`
	Keymap      string         `yaml:"keymap,omitempty"`
	StoragePool string         `yaml:"storage_pool,omitempty"`
	Disks       []DiskConfig   `yaml:"disks,omitempty"`
	CDROMs      []CDROMConfig  `yaml:"cdroms,omitempty"`
}

// GraphicsConfig defines the graphical console.
type GraphicsConfig struct {
	Type     string `yaml:"type,omitempty"`     // vnc, spice or none
	Autoport *bool  `yaml:"autoport,omitempty"` // Pointer to distinguish unset vs false
	Port     int    `yaml:"port,omitempty"`
	IP       string `yaml:"ip,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// AutoportEnabled reports whether libvirt should pick the console port.
func (g GraphicsConfig) AutoportEnabled() bool {
	return g.Autoport == nil || *g.Autoport
}

// VideoConfig defines the emulated video adapter.
type VideoConfig struct {
	Type string `yaml:"type,omitempty"`
	VRAM int    `yaml:"vram,omitempty"` // KiB
}

// DiskConfig defines an additional disk attached after the primary volume.
type DiskConfig struct {
	Device        string `yaml:"device,omitempty"` // vdb, vdc, etc.
	Type          string `yaml:"type,omitempty"`   // Volume format: qcow2 or raw
	Size          string `yaml:"size,omitempty"`   // Capacity, e.g. "10G"
	Bus           string `yaml:"bus,omitempty"`
	Cache         string `yaml:"cache,omitempty"`
	Name          string `yaml:"name,omitempty"` // Explicit volume name
	Path          string `yaml:"path,omitempty"` // Volume file name relative to the pool directory
	AllowExisting bool   `yaml:"allow_existing,omitempty"`
}

// CDROMConfig defines a cdrom device backed by an image on the host.
type CDROMConfig struct {
	Device string `yaml:"device,omitempty"`
	Bus    string `yaml:"bus,omitempty"`
	Path   string `yaml:"path"`
}

// Normalize sanitizes user input and fills in defaults.
// This is called automatically by LoadFromFile before validation.
func (c *DomainConfig) Normalize() {
	c.Name = strings.ToLower(strings.TrimSpace(c.Name))

	if c.Driver == "" {
		c.Driver = DefaultDriver
	}
	if c.CPUs == 0 {
		c.CPUs = DefaultCPUs
	}
	if c.MemoryMiB == 0 {
		c.MemoryMiB = DefaultMemoryMiB
	}
	if c.CPUMode == "" {
		c.CPUMode = DefaultCPUMode
	}
	if c.DiskBus == "" {
		c.DiskBus = DefaultDiskBus
	}
	if c.VolumeCache == "" {
		c.VolumeCache = DefaultVolumeCache
	}
	if c.Keymap == "" {
		c.Keymap = DefaultKeymap
	}
	if c.StoragePool == "" {
		c.StoragePool = DefaultStoragePool
	}

	c.Graphics.Type = strings.ToLower(strings.TrimSpace(c.Graphics.Type))
	if c.Graphics.Type == "" {
		c.Graphics.Type = DefaultGraphicsType
	}
	if c.Graphics.Autoport == nil {
		autoport := true
		c.Graphics.Autoport = &autoport
	}
	if c.Graphics.Port == 0 {
		c.Graphics.Port = DefaultGraphicsPort
	}
	if c.Graphics.IP == "" {
		c.Graphics.IP = DefaultGraphicsIP
	}

	if c.Video.Type == "" {
		c.Video.Type = DefaultVideoType
	}
	if c.Video.VRAM == 0 {
		c.Video.VRAM = DefaultVideoVRAM
	}

	for i := range c.Disks {
		d := &c.Disks[i]
		if d.Type == "" {
			d.Type = DefaultDiskFormat
		}
		if d.Size == "" {
			d.Size = DefaultDiskSize
		}
		if d.Bus == "" {
			d.Bus = c.DiskBus
		}
		if d.Cache == "" {
			d.Cache = DefaultDiskCache
		}
		if d.Device == "" {
			d.Device = nextDiskDevice(c.Disks)
		}
	}

	for i := range c.CDROMs {
		cd := &c.CDROMs[i]
		if cd.Bus == "" {
			cd.Bus = DefaultCDROMBus
		}
		if cd.Device == "" {
			cd.Device = nextCDROMDevice(c.CDROMs)
		}
	}
}

// nextDiskDevice returns the first free virtio device name after vda, which
// is reserved for the primary volume. Returns "" once vdz is taken.
func nextDiskDevice(disks []DiskConfig) string {
	used := map[string]bool{"vda": true}
	for _, d := range disks {
		used[d.Device] = true
	}
	for l := 'b'; l <= 'z'; l++ {
		dev := "vd" + string(l)
		if !used[dev] {
			return dev
		}
	}
	return ""
}

// nextCDROMDevice returns the first free cdrom slot, or "" when both are taken.
func nextCDROMDevice(cdroms []CDROMConfig) string {
	used := make(map[string]bool)
	for _, cd := range cdroms {
		used[cd.Device] = true
	}
	for _, dev := range cdromDevices {
		if !used[dev] {
			return dev
		}
	}
	return ""
}

// Validate checks the configuration for errors.
// Does not check hypervisor resources (pools, volumes, images) - only config structure.
func (c *DomainConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}

	// Must start and end with alphanumeric; dots, hyphens and underscores allowed inside
	namePattern := `^[a-z0-9][a-z0-9_.-]*[a-z0-9]$`
	if len(c.Name) == 1 {
		namePattern = `^[a-z0-9]$`
	}
	matched, err := regexp.MatchString(namePattern, c.Name)
	if err != nil {
		return fmt.Errorf("name validation error: %w", err)
	}
	if !matched {
		return fmt.Errorf("name must start and end with alphanumeric characters and contain only alphanumeric, dots, hyphens, or underscores, got %q", c.Name)
	}

	if !lo.Contains(validDrivers, c.Driver) {
		return fmt.Errorf("driver must be one of %v, got %q", validDrivers, c.Driver)
	}
	if c.CPUs <= 0 {
		return fmt.Errorf("cpus must be > 0, got %d", c.CPUs)
	}
	if c.MemoryMiB <= 0 {
		return fmt.Errorf("memory must be > 0, got %d", c.MemoryMiB)
	}
	if c.StoragePool == "" {
		return fmt.Errorf("storage_pool is required")
	}

	for i, dev := range c.BootOrder {
		if !lo.Contains(validBootDevices, dev) {
			return fmt.Errorf("boot_order[%d]: must be one of %v, got %q", i, validBootDevices, dev)
		}
	}

	if err := c.Graphics.Validate(); err != nil {
		return fmt.Errorf("graphics: %w", err)
	}
	if c.Video.VRAM < 0 {
		return fmt.Errorf("video: vram must be >= 0, got %d", c.Video.VRAM)
	}

	devicesSeen := make(map[string]bool)
	for i, disk := range c.Disks {
		if err := disk.Validate(); err != nil {
			return fmt.Errorf("disks[%d]: %w", i, err)
		}
		if devicesSeen[disk.Device] {
			return fmt.Errorf("disks[%d]: duplicate device name %q", i, disk.Device)
		}
		devicesSeen[disk.Device] = true
	}

	for i, cd := range c.CDROMs {
		if err := cd.Validate(); err != nil {
			return fmt.Errorf("cdroms[%d]: %w", i, err)
		}
		if devicesSeen[cd.Device] {
			return fmt.Errorf("cdroms[%d]: duplicate device name %q", i, cd.Device)
		}
		devicesSeen[cd.Device] = true
	}

	return nil
}

// Validate checks graphics configuration.
func (g *GraphicsConfig) Validate() error {
	if !lo.Contains(validGraphicsTypes, g.Type) {
		return fmt.Errorf("type must be one of %v, got %q", validGraphicsTypes, g.Type)
	}
	if g.Type == GraphicsNone {
		return nil
	}
	if g.Port < -1 || g.Port > 65535 {
		return fmt.Errorf("port must be between -1 and 65535, got %d", g.Port)
	}
	if g.IP != "" && net.ParseIP(g.IP) == nil {
		return fmt.Errorf("invalid listen IP address %q", g.IP)
	}
	return nil
}

// Validate checks disk configuration.
func (d *DiskConfig) Validate() error {
	if d.Device == "" {
		return fmt.Errorf("device is required")
	}
	if d.Device == "vda" {
		return fmt.Errorf("device vda is reserved for the primary volume")
	}
	if d.Type != string(storage.VolumeFormatQCOW2) && d.Type != string(storage.VolumeFormatRaw) {
		return fmt.Errorf("type must be qcow2 or raw, got %q", d.Type)
	}
	if _, err := storage.ParseCapacity(d.Size); err != nil {
		return fmt.Errorf("size: %w", err)
	}
	if strings.Contains(d.Name, "/") {
		return fmt.Errorf("name must not contain '/', got %q", d.Name)
	}
	if strings.Contains(d.Path, "/") {
		return fmt.Errorf("path is relative to the storage pool and must not contain '/', got %q", d.Path)
	}
	return nil
}

// Validate checks cdrom configuration.
func (c *CDROMConfig) Validate() error {
	if c.Device == "" {
		return fmt.Errorf("only %d cdroms may be attached at a time", len(cdromDevices))
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// LoadFromFile loads a domain configuration from a YAML file.
func LoadFromFile(path string) (*DomainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes, normalizes and validates a YAML domain configuration.
func Parse(data []byte) (*DomainConfig, error) {
	var config DomainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Normalize user input before validation
	config.Normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
