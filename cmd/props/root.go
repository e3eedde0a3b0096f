package props

import (
	"github.com/ValentinKolb/dProps/cmd/util"
	"github.com/ValentinKolb/dProps/lib/guard"
	"github.com/ValentinKolb/dProps/lib/lease"
	"github.com/ValentinKolb/dProps/lib/props"
	"github.com/ValentinKolb/dProps/rpc/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	service *guard.Service
	scope   props.Scope

	// PropsCommands represents the props command group
	PropsCommands = &cobra.Command{
		Use:   "props",
		Short: "Read and write properties under leases",
		Long: `Read and write properties of the installation or principal scope.
Every operation holds a lease on the key (or on the whole scope for getall and
setall) while it talks to the store, exactly like an application embedding the
guard package would.`,
		PersistentPreRunE: setupPropsClient,
	}
)

func init() {
	util.SetupRPCClientFlags(PropsCommands)

	key := "scope"
	PropsCommands.PersistentFlags().String(key, props.ScopeInstallation.String(), util.WrapString("Property scope to operate on (installation, principal)"))
	key = "installation-shard"
	PropsCommands.PersistentFlags().Uint64(key, 1, util.WrapString("ID of the shard holding the installation properties"))
	key = "principal-shard"
	PropsCommands.PersistentFlags().Uint64(key, 2, util.WrapString("ID of the shard holding the principal properties"))
	key = "lease-ttl"
	PropsCommands.PersistentFlags().Duration(key, lease.DefaultLeaseTTL, util.WrapString("Lifetime of the lease held by a single key operation. Batch operations hold theirs twice as long"))
	key = "lease-retries"
	PropsCommands.PersistentFlags().Int(key, guard.DefaultMaxRetries, util.WrapString("How many times an operation tries to get its lease"))
	key = "lease-retry-delay"
	PropsCommands.PersistentFlags().Duration(key, guard.DefaultRetryDelay, util.WrapString("Backoff unit between lease attempts. Attempt n waits n times this value"))
	key = "propagation-delay"
	PropsCommands.PersistentFlags().Duration(key, lease.DefaultPropagationDelay, util.WrapString("Pause between writing a lease record and reading it back. Negative values disable the pause"))

	PropsCommands.AddCommand(getCmd)
	PropsCommands.AddCommand(setCmd)
	PropsCommands.AddCommand(delCmd)
	PropsCommands.AddCommand(getAllCmd)
	PropsCommands.AddCommand(setAllCmd)
	PropsCommands.AddCommand(cleanupCmd)
}

// setupPropsClient connects one RPC store per scope and wraps both in a guard.Service
func setupPropsClient(cmd *cobra.Command, _ []string) error {
	if err := util.SetupClient(cmd); err != nil {
		return err
	}

	var err error
	if scope, err = props.ParseScope(viper.GetString("scope")); err != nil {
		return err
	}

	s, err := util.GetSerializer()
	if err != nil {
		return err
	}
	config := util.GetClientConfig()
	t := util.GetTransport()

	installation, err := client.NewRPCStore(viper.GetUint64("installation-shard"), config, t, s)
	if err != nil {
		return err
	}
	principal, err := client.NewRPCStore(viper.GetUint64("principal-shard"), config, t, s)
	if err != nil {
		return err
	}

	leaseOpts := lease.DefaultOptions()
	leaseOpts.PropagationDelay = viper.GetDuration("propagation-delay")

	service = guard.NewService(installation, principal, &guard.Config{
		LeaseTTL:   viper.GetDuration("lease-ttl"),
		MaxRetries: viper.GetInt("lease-retries"),
		RetryDelay: viper.GetDuration("lease-retry-delay"),
	}, leaseOpts)
	return nil
}
