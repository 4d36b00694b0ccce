package vm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jbweber/crucible/internal/config"
	cruciblelibvirt "github.com/jbweber/crucible/internal/libvirt"
	"github.com/jbweber/crucible/internal/logger"
	"github.com/jbweber/crucible/internal/plan"
)

// Result describes a provisioning run.
type Result struct {
	// ID is the domain identifier. Empty for a dry run.
	ID   string
	Plan *plan.Plan
	XML  string
}

// Provisioner runs provisioning against a Backend.
type Provisioner struct {
	backend Backend
	log     *zap.Logger
}

// NewProvisioner creates a Provisioner. A nil log discards output.
func NewProvisioner(backend Backend, log *zap.Logger) *Provisioner {
	log = logger.OrNop(log)
	return &Provisioner{
		backend: &loggingBackend{Backend: backend, log: log},
		log:     log,
	}
}

// Create provisions the domain described by cfg and records its id in state.
//
// The run is:
//  1. Reconcile volumes (locate "<name>.img", create missing disks)
//  2. Assemble the plan
//  3. Render the domain XML
//  4. Log the settings summary
//  5. Define the domain and record its id
//
// Nothing is rolled back on failure. Volumes created before the failing step
// stay in the pool and must be removed by hand.
//
// cfg must already be normalized and validated (config.LoadFromFile does both).
func (p *Provisioner) Create(ctx context.Context, cfg *config.DomainConfig, state MachineState) (*Result, error) {
	res, err := p.prepare(ctx, p.backend, cfg)
	if err != nil {
		return nil, err
	}

	LogSettings(p.log, res.Plan)

	id, err := Submit(ctx, p.backend, state, res.XML)
	if err != nil {
		return nil, err
	}
	res.ID = id

	p.log.Info("domain created", zap.String("name", cfg.Name), zap.String("id", id))

	return res, nil
}

// Render resolves volumes without creating any and returns the domain XML
// that Create would submit. Disks missing from the pool are reported as not
// preexisting.
func (p *Provisioner) Render(ctx context.Context, cfg *config.DomainConfig) (*Result, error) {
	return p.prepare(ctx, newDryRunBackend(p.backend, p.log), cfg)
}

func (p *Provisioner) prepare(ctx context.Context, backend Backend, cfg *config.DomainConfig) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	rec, err := Reconcile(ctx, backend, cfg.Name, cfg.StoragePool, plan.DiskSpecs(cfg))
	if err != nil {
		return nil, err
	}

	pl, err := plan.Assemble(cfg, rec.Primary, rec.Disks)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble plan: %w", err)
	}

	xml, err := cruciblelibvirt.GenerateDomainXML(pl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate domain XML: %w", err)
	}

	return &Result{Plan: pl, XML: xml}, nil
}
