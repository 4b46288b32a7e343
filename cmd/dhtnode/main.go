package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shadowmesh/dhtnode/internal/cache"
	"github.com/shadowmesh/dhtnode/internal/cliapp"
	"github.com/shadowmesh/dhtnode/internal/config"
	"github.com/shadowmesh/dhtnode/internal/logging"
	"github.com/shadowmesh/dhtnode/internal/node"
	"github.com/shadowmesh/dhtnode/internal/observe"
	"github.com/shadowmesh/dhtnode/internal/warmstart"
)

const version = "0.1.0"

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "dhtnode",
		Short: "A Kademlia-style distributed hash table node",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "dhtnode.yaml", "path to the node's YAML config file")

	root.AddCommand(&cobra.Command{
		Use:   "generate-config",
		Short: "Write a default config file to the given path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.WriteFile(config.Default(), configPath)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the node's version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	level := parseLevel(cfg.Logging.Level)
	log, err := logging.New("node", level, cfg.Logging.OutputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	var remoteCache node.RemoteCache
	if cfg.Cache.Host != "" {
		rc, err := cache.New(cache.Config{Host: cfg.Cache.Host, Port: cfg.Cache.Port, DB: cfg.Cache.DB, TTL: cfg.Cache.TTL})
		if err != nil {
			log.Warnf("cache disabled: %v", err)
		} else {
			defer rc.Close()
			remoteCache = rc
		}
	}

	var observer node.Observer
	var hub *observe.Hub
	if cfg.Observe.ListenAddr != "" {
		hub = observe.NewHub()
		observer = hub
		go func() {
			if err := hub.ListenAndServe(cfg.Observe.ListenAddr); err != nil {
				log.Errorf("observe feed stopped: %v", err)
			}
		}()
	}

	n, err := node.New(node.Config{
		ListenAddr:             cfg.Addr,
		ListenPort:             uint16(cfg.Port),
		BootAddr:               cfg.BootAddr,
		BootPort:               uint16(cfg.BootPort),
		MaxInFlightConnections: cfg.Limits.MaxInFlightConnections,
	}, log, remoteCache, observer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	if cfg.WarmStart.Host != "" {
		ws, err := warmstart.New(warmstart.Config{
			Host:     cfg.WarmStart.Host,
			Port:     cfg.WarmStart.Port,
			User:     cfg.WarmStart.User,
			Password: cfg.WarmStart.Password,
			DBName:   cfg.WarmStart.DBName,
			SSLMode:  cfg.WarmStart.SSLMode,
		})
		if err != nil {
			log.Warnf("warm-start disabled: %v", err)
		} else {
			defer ws.Close()
			if hosts, err := ws.LoadAll(); err != nil {
				log.Warnf("warm-start load failed: %v", err)
			} else {
				n.RoutingTable().AddHosts(hosts)
				log.Infof("warm-start loaded %d hosts", len(hosts))
			}
			go warmstart.Run(ws, n.RoutingTable(), cfg.WarmStart.Interval, log)
		}
	}

	n.Bootstrap()

	go func() {
		if err := n.Serve(); err != nil {
			log.Errorf("service loop exited: %v", err)
		}
	}()
	go n.RunPinger()
	go n.RunReplicator()

	repl := cliapp.New(n, os.Stdin, os.Stdout)
	repl.Run()
	return nil
}

func parseLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.DEBUG
	case "warn":
		return logging.WARN
	case "error":
		return logging.ERROR
	default:
		return logging.INFO
	}
}
