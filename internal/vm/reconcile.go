package vm

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/jbweber/crucible/internal/naming"
	"github.com/jbweber/crucible/internal/plan"
	"github.com/jbweber/crucible/internal/storage"
)

// Reconciliation is the result of matching declared disks against a pool.
type Reconciliation struct {
	Primary plan.PrimaryVolume
	Disks   []plan.Disk
}

// Reconcile locates the primary volume "<domainName>.img" in pool and makes
// sure every declared disk has a backing volume, creating the missing ones.
//
// Disks are handled in declaration order and each existence check queries the
// pool afresh. The first failing create aborts the run; volumes already
// created stay in the pool.
func Reconcile(ctx context.Context, backend Backend, domainName, pool string, disks []plan.DiskSpec) (*Reconciliation, error) {
	primary, err := findPrimaryVolume(ctx, backend, domainName, pool)
	if err != nil {
		return nil, err
	}

	prefix := naming.StoragePrefix(primary.Path)

	// Resolve every disk before touching the pool so a bad size never leaves
	// half the disks created.
	resolved := make([]plan.Disk, len(disks))
	for i, d := range disks {
		capacity, err := storage.ParseCapacity(d.Size)
		if err != nil {
			return nil, fmt.Errorf("disk %s: %w", d.Device, err)
		}

		name := naming.ResolveVolumeName(domainName, d.Device, d.Format, d.Name, d.Path)
		resolved[i] = plan.Disk{
			Declared: d,
			Resolved: &plan.ResolvedDisk{
				Name:          name,
				AbsolutePath:  naming.AbsolutePath(prefix, name),
				CapacityBytes: capacity,
			},
		}
	}

	for _, d := range resolved {
		exists, err := volumeExists(ctx, backend, pool, d.Resolved.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			d.Resolved.Preexisting = true
			continue
		}

		spec := storage.VolumeSpec{
			Name:          d.Resolved.Name,
			Format:        storage.VolumeFormat(d.Declared.Format),
			Path:          d.Resolved.AbsolutePath,
			CapacityBytes: d.Resolved.CapacityBytes,
		}
		if _, err := backend.CreateVolume(ctx, pool, spec); err != nil {
			return nil, fmt.Errorf("%w: %s in pool %s: %w", ErrVolumeCreationFailed, d.Resolved.Name, pool, err)
		}
	}

	return &Reconciliation{Primary: primary, Disks: resolved}, nil
}

func findPrimaryVolume(ctx context.Context, backend Backend, domainName, pool string) (plan.PrimaryVolume, error) {
	name := naming.PrimaryVolumeName(domainName)

	vols, err := backend.ListVolumes(ctx, pool)
	if err != nil {
		return plan.PrimaryVolume{}, fmt.Errorf("failed to list volumes in pool %s: %w", pool, err)
	}

	vol, ok := lo.Find(vols, func(v storage.VolumeInfo) bool {
		return v.Name == name
	})
	if !ok {
		return plan.PrimaryVolume{}, fmt.Errorf("%w: %s in pool %s", ErrMissingPrimaryVolume, name, pool)
	}
	if vol.Path == "" {
		return plan.PrimaryVolume{}, fmt.Errorf("%w: %s in pool %s has no path", ErrMissingPrimaryVolume, name, pool)
	}

	return plan.PrimaryVolume{Name: vol.Name, Path: vol.Path}, nil
}

func volumeExists(ctx context.Context, backend Backend, pool, name string) (bool, error) {
	vols, err := backend.ListVolumes(ctx, pool)
	if err != nil {
		return false, fmt.Errorf("failed to list volumes in pool %s: %w", pool, err)
	}

	return lo.ContainsBy(vols, func(v storage.VolumeInfo) bool {
		return v.Name == name
	}), nil
}
