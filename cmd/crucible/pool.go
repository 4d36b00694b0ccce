package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/crucible/internal/storage"
)

// Pool inspection commands
var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Inspect storage pools",
	Long: `Inspect libvirt storage pools.

Crucible never creates pools. The pool named by storage_pool must already
exist and hold the domain's "<name>.img" boot image.`,
}

func init() {
	poolCmd.AddCommand(poolListCmd)
	poolCmd.AddCommand(poolInfoCmd)
	poolCmd.AddCommand(poolRefreshCmd)
}

var poolListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all storage pools",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeFn, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		pools, err := storage.NewManager(client.Libvirt()).ListPools(cmd.Context())
		if err != nil {
			return err
		}

		f, err := formatter()
		if err != nil {
			return err
		}

		out, err := f.FormatPools(pools)
		if err != nil {
			return err
		}

		fmt.Print(out)
		return nil
	},
}

var poolInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show detailed information about a pool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeFn, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		info, err := storage.NewManager(client.Libvirt()).GetPoolInfo(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		f, err := formatter()
		if err != nil {
			return err
		}

		out, err := f.FormatPools([]storage.PoolInfo{*info})
		if err != nil {
			return err
		}

		fmt.Print(out)
		return nil
	},
}

var poolRefreshCmd = &cobra.Command{
	Use:   "refresh <name>",
	Short: "Refresh a storage pool",
	Long: `Refresh a storage pool so libvirt sees volumes copied into its directory
outside of libvirt, such as a freshly staged "<name>.img".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeFn, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		if err := storage.NewManager(client.Libvirt()).RefreshPool(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("✓ Pool %s refreshed\n", args[0])
		return nil
	},
}
