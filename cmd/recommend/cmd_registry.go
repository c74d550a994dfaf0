package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"algolia-recommend/logging"
	"algolia-recommend/registry"
)

var errNoEtcd = errors.New("etcd.endpoints is not configured")

func newRegistryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Announce or watch hosts in etcd",
		Long: `Manage the hosts clients discover under /algolia-recommend/{etcd.service}/.

Clients configured with etcd.endpoints read this list once at start-up.`,
		// Only configuration is needed; building a client would try to
		// discover hosts that may not be announced yet.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}

	cmd.AddCommand(newAnnounceCmd(a))
	cmd.AddCommand(newWatchCmd(a))
	return cmd
}

func (a *app) openRegistry() (*registry.EtcdRegistry, error) {
	if len(a.cfg.Etcd.Endpoints) == 0 {
		return nil, errNoEtcd
	}
	return registry.NewEtcdRegistry(a.cfg.Etcd.Endpoints, logging.With("registry"))
}

func newAnnounceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "announce URL",
		Short: "Announce a host until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ttl, _ := cmd.Flags().GetInt64("ttl")
			weight, _ := cmd.Flags().GetInt("weight")
			ver, _ := cmd.Flags().GetString("host-version")

			reg, err := a.openRegistry()
			if err != nil {
				return err
			}
			defer reg.Close()

			ctx := cmd.Context()
			service := a.cfg.Etcd.Service
			inst := registry.HostInstance{URL: args[0], Weight: weight, Version: ver}
			if err := reg.Register(ctx, service, inst, ttl); err != nil {
				return fmt.Errorf("announce %s: %w", inst.URL, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "announced %s for %s\n", inst.URL, service)

			<-ctx.Done()

			// ctx is gone; give the removal its own budget
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return reg.Deregister(dctx, service, inst.URL)
		},
	}
	cmd.Flags().Int64("ttl", 10, "Lease TTL in seconds")
	cmd.Flags().Int("weight", 1, "Host weight")
	cmd.Flags().String("host-version", "", "Version tag stored with the host")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the host list every time it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.openRegistry()
			if err != nil {
				return err
			}
			defer reg.Close()

			ctx := cmd.Context()
			current, err := reg.Discover(ctx, a.cfg.Etcd.Service)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), registry.URLs(current)); err != nil {
				return err
			}

			for instances := range reg.Watch(ctx, a.cfg.Etcd.Service) {
				if err := printJSON(cmd.OutOrStdout(), registry.URLs(instances)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
