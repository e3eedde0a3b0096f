package lease

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/dProps/cmd/util"
	lib "github.com/ValentinKolb/dProps/lib/lease"
	"github.com/ValentinKolb/dProps/rpc/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rpcLeases *client.RPCLeaseManager
	leaseTTL  time.Duration
	force     bool

	// LeaseCommands represents the lease command group
	LeaseCommands = &cobra.Command{
		Use:               "lease",
		Short:             "Perform raw lease operations on a shard",
		PersistentPreRunE: setupLeaseClient,
	}

	acquireCmd = &cobra.Command{
		Use:   "acquire [key]",
		Short: "Acquire a lease",
		Long:  "Acquire the lease for a key. On success the owner id needed to release the lease is printed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, ok := rpcLeases.Acquire(args[0], leaseTTL)
			if !ok {
				return fmt.Errorf("lease %s not acquired", args[0])
			}
			fmt.Printf("acquired lease %s (owner=%s, ttl=%s)\n", args[0], owner, leaseTTL)
			return nil
		},
	}

	releaseCmd = &cobra.Command{
		Use:   "release [key] [ownerID]",
		Short: "Release a previously acquired lease",
		Long:  "Release a lease using the key and the owner id returned by acquire. With --force the lease is released regardless of its owner.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner := ""
			switch {
			case len(args) == 2:
				owner = args[1]
			case !force:
				return fmt.Errorf("an owner id is required unless --force is set")
			}
			rpcLeases.Release(args[0], owner)
			fmt.Println("release sent")
			return nil
		},
	}

	sweepCmd = &cobra.Command{
		Use:   "sweep",
		Short: "Delete the expired lease records of the shard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := rpcLeases.SweepExpiredLeases()
			if err != nil {
				return err
			}
			fmt.Printf("removed %d expired lease records\n", n)
			return nil
		},
	}
)

func init() {
	util.SetupRPCClientFlags(LeaseCommands)

	LeaseCommands.PersistentFlags().Uint64("shard", 1, util.WrapString("ID of the shard to connect to"))
	LeaseCommands.PersistentFlags().DurationVar(&leaseTTL, "ttl", lib.DefaultLeaseTTL, util.WrapString("Lifetime of acquired leases"))
	releaseCmd.Flags().BoolVar(&force, "force", false, util.WrapString("Release the lease whoever holds it"))

	LeaseCommands.AddCommand(acquireCmd)
	LeaseCommands.AddCommand(releaseCmd)
	LeaseCommands.AddCommand(sweepCmd)
	LeaseCommands.AddCommand(benchCmd)
}

// setupLeaseClient initializes the lease manager client
func setupLeaseClient(cmd *cobra.Command, _ []string) error {
	if err := util.SetupClient(cmd); err != nil {
		return err
	}

	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	rpcLeases, err = client.NewRPCLeaseManager(viper.GetUint64("shard"), util.GetClientConfig(), util.GetTransport(), s)
	return err
}
