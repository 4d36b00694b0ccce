package plan

import (
	"fmt"

	"github.com/jbweber/crucible/internal/config"
)

// MemoryUnitFactor converts configured memory (MiB) into KiB, the unit
// libvirt expects in <memory>.
const MemoryUnitFactor = 1024

// OSTypeHVM is the only guest OS type this tool defines.
const OSTypeHVM = "hvm"

// DiskSpecs converts the configured disks into declared disk specs, in
// declaration order.
func DiskSpecs(cfg *config.DomainConfig) []DiskSpec {
	specs := make([]DiskSpec, 0, len(cfg.Disks))
	for _, d := range cfg.Disks {
		specs = append(specs, DiskSpec{
			Device:        d.Device,
			Format:        d.Type,
			Size:          d.Size,
			Bus:           d.Bus,
			Cache:         d.Cache,
			Name:          d.Name,
			Path:          d.Path,
			AllowExisting: d.AllowExisting,
		})
	}
	return specs
}

// CdromSpecs converts the configured cdroms into cdrom specs.
func CdromSpecs(cfg *config.DomainConfig) []CdromSpec {
	specs := make([]CdromSpec, 0, len(cfg.CDROMs))
	for _, c := range cfg.CDROMs {
		specs = append(specs, CdromSpec{
			Device: c.Device,
			Bus:    c.Bus,
			Path:   c.Path,
		})
	}
	return specs
}

// Assemble folds configuration, the primary volume and the reconciled disks
// into a Plan. It does no I/O. Errors mean the caller skipped
// normalization or reconciliation.
func Assemble(cfg *config.DomainConfig, primary PrimaryVolume, disks []Disk) (*Plan, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("domain name is required")
	}
	if cfg.CPUs <= 0 {
		return nil, fmt.Errorf("cpus must be > 0, got %d", cfg.CPUs)
	}
	if cfg.MemoryMiB <= 0 {
		return nil, fmt.Errorf("memory must be > 0, got %d", cfg.MemoryMiB)
	}
	if primary.Path == "" {
		return nil, fmt.Errorf("primary volume path is required")
	}

	resolved := make([]Disk, len(disks))
	for i, d := range disks {
		if d.Resolved == nil {
			return nil, fmt.Errorf("disk %s has not been resolved", d.Declared.Device)
		}
		if d.Resolved.Name == "" || d.Resolved.AbsolutePath == "" {
			return nil, fmt.Errorf("disk %s is missing a volume name or path", d.Declared.Device)
		}
		r := *d.Resolved
		resolved[i] = Disk{Declared: d.Declared, Resolved: &r}
	}

	return &Plan{
		Name:        cfg.Name,
		DomainType:  cfg.Driver,
		VCPUs:       cfg.CPUs,
		CPUMode:     cfg.CPUMode,
		Nested:      cfg.Nested,
		MemoryKiB:   uint64(cfg.MemoryMiB) * MemoryUnitFactor,
		Arch:        cfg.MachineArch,
		MachineType: cfg.MachineType,
		OSType:      OSTypeHVM,
		Kernel:      cfg.Kernel,
		Initrd:      cfg.Initrd,
		Cmdline:     cfg.CmdLine,
		BootOrder:   append([]string(nil), cfg.BootOrder...),
		DiskBus:     cfg.DiskBus,
		VolumeCache: cfg.VolumeCache,
		Box:         cfg.Box,
		Primary:     primary,
		Disks:       resolved,
		CDROMs:      CdromSpecs(cfg),
		Graphics: Graphics{
			Type:     cfg.Graphics.Type,
			Autoport: cfg.Graphics.AutoportEnabled(),
			Port:     cfg.Graphics.Port,
			Listen:   cfg.Graphics.IP,
			Password: cfg.Graphics.Password,
		},
		Video: Video{
			Type:    cfg.Video.Type,
			VRAMKiB: cfg.Video.VRAM,
		},
		Keymap:      cfg.Keymap,
		StoragePool: cfg.StoragePool,
	}, nil
}
