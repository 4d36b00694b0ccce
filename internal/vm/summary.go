package vm

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/jbweber/crucible/internal/plan"
)

const (
	passwordDefined    = "Defined"
	passwordNotDefined = "Not defined"
)

// LogSettings emits the settings summary for a plan, one Info entry per line.
// Call it after reconciliation so disk paths and preexisting flags are known.
func LogSettings(log *zap.Logger, p *plan.Plan) {
	for _, line := range SettingsSummary(p) {
		log.Info(line)
	}
}

// SettingsSummary returns the human-readable settings summary for a plan.
func SettingsSummary(p *plan.Plan) []string {
	lines := []string{
		"Creating domain with the following settings...",
		fmt.Sprintf(" -- Name:              %s", p.Name),
		fmt.Sprintf(" -- Domain type:       %s", p.DomainType),
		fmt.Sprintf(" -- Cpus:              %d", p.VCPUs),
		fmt.Sprintf(" -- Memory:            %dM", p.MemoryKiB/plan.MemoryUnitFactor),
		fmt.Sprintf(" -- Base box:          %s", p.Box),
		fmt.Sprintf(" -- Storage pool:      %s", p.StoragePool),
		fmt.Sprintf(" -- Image:             %s", p.Primary.Path),
		fmt.Sprintf(" -- Volume Cache:      %s", p.VolumeCache),
		fmt.Sprintf(" -- Kernel:            %s", p.Kernel),
		fmt.Sprintf(" -- Initrd:            %s", p.Initrd),
		fmt.Sprintf(" -- Graphics Type:     %s", p.Graphics.Type),
		fmt.Sprintf(" -- Graphics Port:     %d", p.Graphics.Port),
		fmt.Sprintf(" -- Graphics IP:       %s", p.Graphics.Listen),
		fmt.Sprintf(" -- Graphics Password: %s", lo.Ternary(p.Graphics.Password != "", passwordDefined, passwordNotDefined)),
		fmt.Sprintf(" -- Video Type:        %s", p.Video.Type),
		fmt.Sprintf(" -- Video VRAM:        %d", p.Video.VRAMKiB),
		fmt.Sprintf(" -- Keymap:            %s", p.Keymap),
	}

	for _, dev := range p.BootOrder {
		lines = append(lines, fmt.Sprintf(" -- Boot device:       %s", dev))
	}

	if len(p.Disks) > 0 {
		disks := lo.Map(p.Disks, func(d plan.Disk, _ int) string {
			return fmt.Sprintf("%s(%s,%s)", d.Declared.Device, d.Declared.Format, diskSize(d))
		})
		lines = append(lines, fmt.Sprintf(" -- Disks:         %s", strings.Join(disks, ", ")))
	}

	for _, d := range p.Disks {
		line := fmt.Sprintf(" -- Disk(%s):     %s", d.Declared.Device, diskPath(d))
		if d.Declared.AllowExisting {
			line += " (shared, remove manually)"
		}
		if d.Resolved != nil && d.Resolved.Preexisting {
			line += " (not created, using existing)"
		}
		lines = append(lines, line)
	}

	if len(p.CDROMs) > 0 {
		cdroms := lo.Map(p.CDROMs, func(c plan.CdromSpec, _ int) string {
			return c.Device
		})
		lines = append(lines, fmt.Sprintf(" -- CDROMS:            %s", strings.Join(cdroms, ", ")))
	}

	for _, c := range p.CDROMs {
		lines = append(lines, fmt.Sprintf(" -- CDROM(%s):        %s", c.Device, c.Path))
	}

	lines = append(lines, fmt.Sprintf(" -- Command line:      %s", p.Cmdline))

	return lines
}

func diskSize(d plan.Disk) string {
	if d.Resolved == nil || d.Resolved.CapacityBytes == 0 {
		return d.Declared.Size
	}
	return humanize.IBytes(d.Resolved.CapacityBytes)
}

func diskPath(d plan.Disk) string {
	if d.Resolved == nil {
		return "(unresolved)"
	}
	return d.Resolved.AbsolutePath
}
