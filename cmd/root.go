package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dProps/cmd/lease"
	"github.com/ValentinKolb/dProps/cmd/props"
	"github.com/ValentinKolb/dProps/cmd/serve"
	"github.com/ValentinKolb/dProps/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (
	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dprops",
		Short: "lease guarded property store",
		Long: fmt.Sprintf(`dProps (v%s)

A property store with lease based mutual exclusion for stores that
offer no transactions. Properties are kept per scope (installation
and principal) on memory, Redis or RAFT replicated shards.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dProps",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dProps v%s\n", Version)
		},
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(props.PropsCommands)
	RootCmd.AddCommand(lease.LeaseCommands)
	RootCmd.AddCommand(versionCmd)

	key := "serializer"
	RootCmd.PersistentFlags().String(key, "binary", util.WrapString("serializer to use (binary, json, gob)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("level at which logs will be output (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
