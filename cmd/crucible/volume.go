package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/crucible/internal/storage"
)

// Volume commands
var volumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "Inspect and remove storage volumes",
	Long: `Inspect and remove volumes in a libvirt storage pool.

"volume delete" is how volumes left behind by a failed "crucible create"
are cleaned up.`,
}

func init() {
	volumeCmd.AddCommand(volumeListCmd)
	volumeCmd.AddCommand(volumeDeleteCmd)
}

var volumeListCmd = &cobra.Command{
	Use:   "list <pool>",
	Short: "List volumes in a pool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeFn, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		vols, err := storage.NewManager(client.Libvirt()).ListVolumes(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		f, err := formatter()
		if err != nil {
			return err
		}

		out, err := f.FormatVolumes(vols)
		if err != nil {
			return err
		}

		fmt.Print(out)
		return nil
	},
}

var volumeDeleteCmd = &cobra.Command{
	Use:   "delete <pool> <name>",
	Short: "Delete a volume from a pool",
	Long: `Delete a volume from a storage pool.

Warning: this permanently deletes the volume's data.

Example:
  crucible volume delete default web1-vdb.qcow2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, name := args[0], args[1]

		client, closeFn, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		if err := storage.NewManager(client.Libvirt()).DeleteVolume(cmd.Context(), pool, name); err != nil {
			return err
		}

		fmt.Printf("✓ Volume %s deleted from pool %s\n", name, pool)
		return nil
	},
}
