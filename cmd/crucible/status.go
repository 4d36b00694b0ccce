package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jbweber/crucible/internal/machine"
	"github.com/jbweber/crucible/internal/output"
	"github.com/jbweber/crucible/internal/storage"
	"github.com/jbweber/crucible/internal/vm"
)

var noState bool

var statusCmd = &cobra.Command{
	Use:   "status [name]",
	Short: "Show machine records",
	Long: `Show the recorded state of one machine, or of every machine under
--state-dir, together with the live libvirt domain state.

Pass --no-state to skip the libvirt lookup.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := machineStore()

		var records []*machine.Record
		if len(args) == 1 {
			rec, err := store.Load(args[0])
			if err != nil {
				return err
			}
			records = []*machine.Record{rec}
		} else {
			var err error
			records, err = store.List()
			if err != nil {
				return err
			}
		}

		statuses := make([]output.MachineStatus, len(records))
		for i, rec := range records {
			statuses[i] = output.MachineStatus{Record: *rec}
		}

		if !noState && len(records) > 0 {
			lookupStates(cmd, statuses)
		}

		f, err := formatter()
		if err != nil {
			return err
		}

		out, err := f.FormatMachines(statuses)
		if err != nil {
			return err
		}

		fmt.Print(out)
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&noState, "no-state", false, "do not query libvirt for domain state")
}

// lookupStates fills in live domain states. Failures are logged, not returned,
// so records stay visible when libvirt is down.
func lookupStates(cmd *cobra.Command, statuses []output.MachineStatus) {
	client, closeFn, err := connect(cmd.Context())
	if err != nil {
		log.Warn("skipping domain state lookup", zap.Error(err))
		return
	}
	defer closeFn()

	lv := client.Libvirt()
	backend := vm.NewBackend(lv, storage.NewManager(lv))

	for i := range statuses {
		if !statuses[i].Created() {
			continue
		}

		info, err := backend.DomainStatus(cmd.Context(), statuses[i].ID)
		if err != nil {
			log.Warn("failed to get domain state",
				zap.String("name", statuses[i].Name), zap.Error(err))
			statuses[i].State = "unknown"
			continue
		}
		statuses[i].State = info.State
	}
}
