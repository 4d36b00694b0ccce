package vm

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jbweber/crucible/internal/storage"
)

// LibvirtBackend implements Backend on a libvirt connection.
type LibvirtBackend struct {
	lv libvirtClient
	sm storageManager
}

// NewBackend creates a Backend from a libvirt client and a storage manager.
// Pass client.Libvirt() and storage.NewManager(client.Libvirt()).
func NewBackend(lv libvirtClient, sm storageManager) *LibvirtBackend {
	return &LibvirtBackend{lv: lv, sm: sm}
}

// ListVolumes lists all volumes in a pool.
func (b *LibvirtBackend) ListVolumes(ctx context.Context, poolName string) ([]storage.VolumeInfo, error) {
	return b.sm.ListVolumes(ctx, poolName)
}

// CreateVolume creates a new volume in a pool.
func (b *LibvirtBackend) CreateVolume(ctx context.Context, poolName string, spec storage.VolumeSpec) (storage.VolumeInfo, error) {
	return b.sm.CreateVolume(ctx, poolName, spec)
}

// CreateDomain defines a persistent domain and returns its UUID.
// The domain is not started.
func (b *LibvirtBackend) CreateDomain(ctx context.Context, xml string) (string, error) {
	dom, err := b.lv.DomainDefineXML(xml)
	if err != nil {
		return "", fmt.Errorf("failed to define domain: %w", err)
	}

	return uuid.UUID(dom.UUID).String(), nil
}

// loggingBackend logs every mutating call before delegating.
type loggingBackend struct {
	Backend
	log *zap.Logger
}

func (b *loggingBackend) CreateVolume(ctx context.Context, poolName string, spec storage.VolumeSpec) (storage.VolumeInfo, error) {
	b.log.Info("creating volume",
		zap.String("pool", poolName),
		zap.String("name", spec.Name),
		zap.String("path", spec.Path),
		zap.String("format", string(spec.Format)),
		zap.Uint64("capacity", spec.CapacityBytes))

	info, err := b.Backend.CreateVolume(ctx, poolName, spec)
	if err != nil {
		b.log.Error("volume creation failed", zap.String("name", spec.Name), zap.Error(err))
	}
	return info, err
}

func (b *loggingBackend) CreateDomain(ctx context.Context, xml string) (string, error) {
	b.log.Debug("defining domain", zap.String("xml", xml))

	id, err := b.Backend.CreateDomain(ctx, xml)
	if err != nil {
		b.log.Error("domain definition failed", zap.Error(err))
	}
	return id, err
}

// dryRunBackend reads through to the wrapped backend and refuses to mutate.
// Volume creates succeed without doing anything, but the volumes they would
// have made show up in later listings of the same pool.
type dryRunBackend struct {
	Backend
	log     *zap.Logger
	pending map[string][]storage.VolumeInfo
}

func newDryRunBackend(backend Backend, log *zap.Logger) *dryRunBackend {
	return &dryRunBackend{
		Backend: backend,
		log:     log,
		pending: map[string][]storage.VolumeInfo{},
	}
}

func (b *dryRunBackend) ListVolumes(ctx context.Context, poolName string) ([]storage.VolumeInfo, error) {
	vols, err := b.Backend.ListVolumes(ctx, poolName)
	if err != nil {
		return nil, err
	}
	return append(vols, b.pending[poolName]...), nil
}

func (b *dryRunBackend) CreateVolume(_ context.Context, poolName string, spec storage.VolumeSpec) (storage.VolumeInfo, error) {
	b.log.Info("dry run: would create volume",
		zap.String("pool", poolName),
		zap.String("name", spec.Name),
		zap.String("path", spec.Path))

	info := storage.VolumeInfo{
		Name:     spec.Name,
		Path:     spec.Path,
		Pool:     poolName,
		Capacity: spec.CapacityBytes,
	}
	b.pending[poolName] = append(b.pending[poolName], info)

	return info, nil
}

func (b *dryRunBackend) CreateDomain(context.Context, string) (string, error) {
	return "", fmt.Errorf("dry run: domain definition is disabled")
}
