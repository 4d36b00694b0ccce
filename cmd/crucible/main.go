package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jbweber/crucible/internal/libvirt"
	"github.com/jbweber/crucible/internal/logger"
	"github.com/jbweber/crucible/internal/machine"
	"github.com/jbweber/crucible/internal/output"
)

var (
	version = "dev"
	commit  = "unknown"
)

// Persistent flags
var (
	socketPath   string
	timeout      time.Duration
	stateDir     string
	debug        bool
	outputFormat string
)

var log = zap.NewNop()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "crucible",
	Short: "Crucible - libvirt domain provisioning",
	Long: `Crucible provisions libvirt domains from YAML configuration files.

It locates the domain's staged boot image in a storage pool, creates any
additional disk volumes, renders the domain XML and defines the domain.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetDebug(debug)

		l, err := logger.New("cli")
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		log = l

		return output.ValidateFormat(outputFormat)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&socketPath, "socket", libvirt.DefaultSocket, "libvirt daemon socket")
	flags.DurationVar(&timeout, "timeout", libvirt.DefaultTimeout, "libvirt connection timeout")
	flags.StringVar(&stateDir, "state-dir", machine.DefaultStateDir, "directory holding machine records")
	flags.BoolVar(&debug, "debug", false, "human-readable debug logging")
	flags.StringVarP(&outputFormat, "output", "o", string(output.FormatTable), "output format: table, yaml, json")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(poolCmd)
	rootCmd.AddCommand(volumeCmd)
	rootCmd.AddCommand(testConnCmd)
}

// connect opens a libvirt connection from the persistent flags.
func connect(ctx context.Context) (*libvirt.Client, func(), error) {
	client, err := libvirt.ConnectWithContext(ctx, socketPath, timeout, log)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Warn("failed to close libvirt connection", zap.Error(err))
		}
	}

	return client, closeFn, nil
}

func machineStore() *machine.Store {
	return machine.NewStore(afero.NewOsFs(), stateDir)
}

func formatter() (output.Formatter, error) {
	return output.NewFormatter(output.Options{Format: output.Format(outputFormat)})
}

var testConnCmd = &cobra.Command{
	Use:   "test-conn",
	Short: "Test libvirt connection",
	Long:  `Test connectivity to the libvirt daemon and display version information.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeFn, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		fmt.Println("✓ Connected to libvirt daemon")

		if err := client.Ping(); err != nil {
			return fmt.Errorf("connection test failed: %w", err)
		}

		libVersion, err := client.Version()
		if err != nil {
			return err
		}
		fmt.Printf("✓ Libvirt version: %s\n", libVersion)

		hostname, err := client.Libvirt().ConnectGetHostname()
		if err != nil {
			return fmt.Errorf("failed to get hostname: %w", err)
		}
		fmt.Printf("✓ Hypervisor hostname: %s\n", hostname)

		uri, err := client.Libvirt().ConnectGetUri()
		if err != nil {
			return fmt.Errorf("failed to get connection URI: %w", err)
		}
		fmt.Printf("✓ Connection URI: %s\n", uri)

		fmt.Println("\nConnection test successful!")
		return nil
	},
}
