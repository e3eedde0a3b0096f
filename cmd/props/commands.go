package props

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value of a property",
		Args:  keyArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			value, found := service.GetProperty(args[0], scope)
			fmt.Printf("key=%s, found=%v, value=%s\n", args[0], found, value)
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value of a property",
		Args:  keyArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !service.SetProperty(args[0], args[1], scope) {
				return fmt.Errorf("could not set %s: lease not acquired", args[0])
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a property",
		Args:  keyArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !service.DeleteProperty(args[0], scope) {
				return fmt.Errorf("could not delete %s: lease not acquired", args[0])
			}
			fmt.Println("delete successfully")
			return nil
		},
	}
	getAllCmd = &cobra.Command{
		Use:   "getall",
		Short: "Lists all properties of the scope",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			entries := service.GetAllProperties(scope)
			keys := make([]string, 0, len(entries))
			for k := range entries {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("%s=%s\n", k, entries[k])
			}
		},
	}
	setAllCmd = &cobra.Command{
		Use:   "setall [key=value]...",
		Short: "Writes several properties in one batch",
		Long:  "Writes all given properties in one batch under the scope wide batch lease. Either all or none of them are written.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updates, err := parseAssignments(args)
			if err != nil {
				return err
			}
			if err := service.SaveProperties(updates, scope); err != nil {
				return err
			}
			fmt.Printf("saved %d properties\n", len(updates))
			return nil
		},
	}
	cleanupCmd = &cobra.Command{
		Use:   "cleanup",
		Short: "Deletes expired lease records of both scopes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("removed %d expired lease records\n", service.CleanupExpiredLocks())
		},
	}
)

// keyArgs expects exactly n args, the first of which is a non-empty property key.
func keyArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return err
		}
		if strings.TrimSpace(args[0]) == "" {
			return errors.New("key must not be empty")
		}
		return nil
	}
}

// parseAssignments turns ["a=1", "b=2"] into a map. Values may contain '='.
func parseAssignments(args []string) (map[string]string, error) {
	updates := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, errors.New("invalid assignment " + arg + " (expected key=value)")
		}
		updates[key] = value
	}
	return updates, nil
}
