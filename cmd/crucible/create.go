package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jbweber/crucible/internal/config"
	"github.com/jbweber/crucible/internal/machine"
	"github.com/jbweber/crucible/internal/storage"
	"github.com/jbweber/crucible/internal/vm"
)

var createCmd = &cobra.Command{
	Use:   "create <config.yaml>",
	Short: "Create a domain from a configuration file",
	Long: `Create a libvirt domain from a YAML configuration file.

The boot image "<name>.img" must already be in the configured storage pool.
Missing disk volumes are created, then the domain is defined (not started)
and its id is written to the machine record under --state-dir.

Nothing is rolled back on failure. Volumes created before the failure stay
in the pool; remove them with "crucible volume delete".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFromFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		m, err := machine.Open(machineStore(), cfg.Name, cfg.StoragePool)
		if err != nil {
			return err
		}
		if rec := m.Record(); rec.Created() {
			return fmt.Errorf("%w: %s (id %s)", vm.ErrAlreadyCreated, cfg.Name, rec.ID)
		}

		client, closeFn, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		lv := client.Libvirt()
		p := vm.NewProvisioner(vm.NewBackend(lv, storage.NewManager(lv)), log.With(zap.String("domain", cfg.Name)))

		res, err := p.Create(cmd.Context(), cfg, m)
		if err != nil {
			if errors.Is(err, vm.ErrVolumeCreationFailed) || errors.Is(err, vm.ErrDomainCreationFailed) {
				log.Warn("volumes created by this run were left in place",
					zap.String("pool", cfg.StoragePool))
			}
			return fmt.Errorf("failed to create domain: %w", err)
		}

		fmt.Printf("✓ Domain %s created (id %s)\n", cfg.Name, res.ID)
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render <config.yaml>",
	Short: "Print the domain XML without creating anything",
	Long: `Resolve volumes against the storage pool and print the domain XML that
"crucible create" would define. No volumes are created and no domain is
defined.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFromFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		client, closeFn, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		lv := client.Libvirt()
		p := vm.NewProvisioner(vm.NewBackend(lv, storage.NewManager(lv)), log.With(zap.String("domain", cfg.Name)))

		res, err := p.Render(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to render domain: %w", err)
		}

		fmt.Println(res.XML)
		return nil
	},
}
