package libvirt

import (
	"fmt"

	"libvirt.org/go/libvirtxml"

	"github.com/jbweber/crucible/internal/plan"
)

const (
	// PrimaryDiskDevice is the guest device the primary volume is attached as
	PrimaryDiskDevice = "vda"

	// PrimaryDiskFormat is the format of the staged primary volume
	PrimaryDiskFormat = "qcow2"
)

// nestedCPUFeatures are requested optionally so the definition works on
// both Intel (vmx) and AMD (svm) hosts.
var nestedCPUFeatures = []string{"vmx", "svm"}

// GenerateDomainXML renders a plan into libvirt domain XML.
//
// The output depends only on the plan, so the same plan always renders the
// same bytes. Empty kernel, initrd, cmdline, arch, machine type and graphics
// password produce no element or attribute at all.
func GenerateDomainXML(p *plan.Plan) (string, error) {
	if p == nil {
		return "", fmt.Errorf("plan is required")
	}

	domain := &libvirtxml.Domain{
		Type: p.DomainType,
		Name: p.Name,
		Memory: &libvirtxml.DomainMemory{
			Value: uint(p.MemoryKiB),
			Unit:  "KiB",
		},
		VCPU: &libvirtxml.DomainVCPU{
			Value: uint(p.VCPUs),
		},
		CPU: generateCPU(p),
		OS: &libvirtxml.DomainOS{
			Type: &libvirtxml.DomainOSType{
				Arch:    p.Arch,
				Machine: p.MachineType,
				Type:    p.OSType,
			},
			Kernel:  p.Kernel,
			Initrd:  p.Initrd,
			Cmdline: p.Cmdline,
		},
		Features: &libvirtxml.DomainFeatureList{
			ACPI: &libvirtxml.DomainFeature{},
			APIC: &libvirtxml.DomainFeatureAPIC{},
			PAE:  &libvirtxml.DomainFeature{},
		},
		Clock: &libvirtxml.DomainClock{
			Offset: "utc",
		},
		Devices: &libvirtxml.DomainDeviceList{},
	}

	for _, dev := range p.BootOrder {
		domain.OS.BootDevices = append(domain.OS.BootDevices, libvirtxml.DomainBootDevice{Dev: dev})
	}

	// Primary volume always comes first
	domain.Devices.Disks = append(domain.Devices.Disks, libvirtxml.DomainDisk{
		Device: "disk",
		Driver: &libvirtxml.DomainDiskDriver{
			Name:  "qemu",
			Type:  PrimaryDiskFormat,
			Cache: p.VolumeCache,
		},
		Source: &libvirtxml.DomainDiskSource{
			File: &libvirtxml.DomainDiskSourceFile{
				File: p.Primary.Path,
			},
		},
		Target: &libvirtxml.DomainDiskTarget{
			Dev: PrimaryDiskDevice,
			Bus: p.DiskBus,
		},
	})

	// Additional disks, in declaration order
	for _, d := range p.Disks {
		if d.Resolved == nil {
			return "", fmt.Errorf("disk %s has not been resolved", d.Declared.Device)
		}
		domain.Devices.Disks = append(domain.Devices.Disks, libvirtxml.DomainDisk{
			Device: "disk",
			Driver: &libvirtxml.DomainDiskDriver{
				Name:  "qemu",
				Type:  d.Declared.Format,
				Cache: d.Declared.Cache,
			},
			Source: &libvirtxml.DomainDiskSource{
				File: &libvirtxml.DomainDiskSourceFile{
					File: d.Resolved.AbsolutePath,
				},
			},
			Target: &libvirtxml.DomainDiskTarget{
				Dev: d.Declared.Device,
				Bus: d.Declared.Bus,
			},
		})
	}

	for _, c := range p.CDROMs {
		domain.Devices.Disks = append(domain.Devices.Disks, libvirtxml.DomainDisk{
			Device: "cdrom",
			Driver: &libvirtxml.DomainDiskDriver{
				Name: "qemu",
				Type: "raw",
			},
			Source: &libvirtxml.DomainDiskSource{
				File: &libvirtxml.DomainDiskSourceFile{
					File: c.Path,
				},
			},
			Target: &libvirtxml.DomainDiskTarget{
				Dev: c.Device,
				Bus: c.Bus,
			},
			ReadOnly: &libvirtxml.DomainDiskReadOnly{},
		})
	}

	// Serial console
	domain.Devices.Serials = []libvirtxml.DomainSerial{
		{
			Source: &libvirtxml.DomainChardevSource{
				Pty: &libvirtxml.DomainChardevSourcePty{},
			},
			Target: &libvirtxml.DomainSerialTarget{
				Port: uintPtr(0),
			},
		},
	}
	domain.Devices.Consoles = []libvirtxml.DomainConsole{
		{
			Source: &libvirtxml.DomainChardevSource{
				Pty: &libvirtxml.DomainChardevSourcePty{},
			},
			Target: &libvirtxml.DomainConsoleTarget{
				Type: "serial",
				Port: uintPtr(0),
			},
		},
	}

	domain.Devices.Inputs = []libvirtxml.DomainInput{
		{Type: "mouse", Bus: "ps2"},
		{Type: "keyboard", Bus: "ps2"},
	}

	graphic, err := generateGraphics(p)
	if err != nil {
		return "", err
	}
	if graphic != nil {
		domain.Devices.Graphics = []libvirtxml.DomainGraphic{*graphic}
	}

	domain.Devices.Videos = []libvirtxml.DomainVideo{
		{
			Model: libvirtxml.DomainVideoModel{
				Type:  p.Video.Type,
				VRam:  uint(p.Video.VRAMKiB),
				Heads: 1,
			},
		},
	}

	xml, err := domain.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to marshal domain XML: %w", err)
	}

	return xml, nil
}

func generateCPU(p *plan.Plan) *libvirtxml.DomainCPU {
	cpu := &libvirtxml.DomainCPU{
		Mode: p.CPUMode,
	}
	if p.Nested {
		for _, name := range nestedCPUFeatures {
			cpu.Features = append(cpu.Features, libvirtxml.DomainCPUFeature{
				Policy: "optional",
				Name:   name,
			})
		}
	}
	return cpu
}

// generateGraphics returns nil when the plan asks for no graphical console.
func generateGraphics(p *plan.Plan) (*libvirtxml.DomainGraphic, error) {
	g := p.Graphics
	autoport := "no"
	if g.Autoport {
		autoport = "yes"
	}

	switch g.Type {
	case "", "none":
		return nil, nil
	case "vnc":
		return &libvirtxml.DomainGraphic{
			VNC: &libvirtxml.DomainGraphicVNC{
				Port:     g.Port,
				AutoPort: autoport,
				Listen:   g.Listen,
				Keymap:   p.Keymap,
				Passwd:   g.Password,
			},
		}, nil
	case "spice":
		return &libvirtxml.DomainGraphic{
			Spice: &libvirtxml.DomainGraphicSpice{
				Port:     g.Port,
				AutoPort: autoport,
				Listen:   g.Listen,
				Keymap:   p.Keymap,
				Passwd:   g.Password,
			},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported graphics type: %s", g.Type)
	}
}

func uintPtr(v uint) *uint {
	return &v
}
