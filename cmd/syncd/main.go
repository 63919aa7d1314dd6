package main

import (
	"fmt"
	"net"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	grpc "google.golang.org/grpc"

	"github.com/vx-labs/sync-fabric/cli"
	"github.com/vx-labs/sync-fabric/events"
	"github.com/vx-labs/sync-fabric/executor"
	"github.com/vx-labs/sync-fabric/network"
	"github.com/vx-labs/sync-fabric/resources"
	"github.com/vx-labs/sync-fabric/supervisor"
	"github.com/vx-labs/sync-fabric/syncer"
	"github.com/vx-labs/sync-fabric/syncer/pb"
)

func main() {
	config := viper.New()
	root := &cobra.Command{
		Use: "syncd",
		PreRun: func(cmd *cobra.Command, _ []string) {
			config.BindPFlag("node-id", cmd.Flags().Lookup("node-id"))
			config.BindPFlag("leader", cmd.Flags().Lookup("leader"))
			config.BindPFlag("health-port", cmd.Flags().Lookup("health-port"))
		},
		Run: func(cmd *cobra.Command, _ []string) {
			nodeID := config.GetString("node-id")
			ctx := cli.Bootstrap(nodeID)
			logger := ctx.Logger
			defer logger.Sync()

			exec := executor.New(logger)
			bus := events.NewBus()
			instance := syncer.New(nodeID, exec, bus, logger)
			instance.Register(pb.ComponentID_CLUSTER_RESOURCE,
				resources.NewReporter(nodeID),
				resources.NewReceiver(logger),
			)

			netConfig := network.ConfigurationFromFlags(config, "sync")
			listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", netConfig.BindAddress(), netConfig.BindPort()))
			if err != nil {
				logger.Fatal("failed to start sync listener", zap.Error(err))
			}
			server := grpc.NewServer(network.GRPCServerOptions()...)
			syncer.NewService(instance).Serve(server)
			grpc_prometheus.Register(server)
			go server.Serve(listener)
			logger.Info("sync listener started",
				zap.String("bind_address", netConfig.BindAddress()),
				zap.Int("bind_port", netConfig.BindPort()),
			)

			var follower *supervisor.Supervisor
			if leader := config.GetString("leader"); leader != "" {
				follower = supervisor.New(instance, bus, leader, logger)
				follower.Start()
			}

			ctx.ServeHTTPHealth(config.GetInt("health-port"), instance)
			ctx.WaitForSignal()

			if follower != nil {
				follower.Shutdown()
			}
			instance.Close()
			server.GracefulStop()
			exec.Shutdown()
			logger.Info("syncd stopped")
		},
	}
	root.Flags().StringP("node-id", "i", uuid.New().String(), "Unique node id of this fabric member")
	root.Flags().StringP("leader", "l", "", "Follow the hub reachable at this address. Empty starts a hub-only node")
	root.Flags().IntP("health-port", "", 9000, "Serve health, metrics and state dump on this port")
	network.RegisterFlagsForService(root, config, "sync", 3790)
	root.Execute()
}
