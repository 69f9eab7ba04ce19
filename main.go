package main

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/aeromatch/internal/config"
	"github.com/aeromatch/internal/engine"
	"github.com/aeromatch/internal/protocol/csvadapter"
	"github.com/aeromatch/internal/protocol/grpcadapter"
	"github.com/aeromatch/internal/protocol/tcpadapter"
	"github.com/aeromatch/internal/util"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		util.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		util.Fatalf("invalid config: %v", err)
	}

	level := parseLevel(cfg.Logging.Level)
	if cfg.Logging.File != "" {
		if err := util.InitFile(level, cfg.Logging.Format, cfg.Logging.File, 0, 0, 0); err != nil {
			util.Fatalf("failed to open log file: %v", err)
		}
	} else {
		util.Init(level, cfg.Logging.Format, os.Stdout)
	}

	// ----------CORE ENGINE SETUP----------
	// A single symbol's worth of book, pool and counters, run through one
	// serialized request queue so concurrent adapters never race the core.
	core := engine.New(cfg.Engine.PoolBlockSize)
	runner := engine.NewRunner(core, cfg.Engine.RunnerBufferSize)
	runner.Start()

	// ----------NETWORK LAYER----------
	var grpcServer *grpcadapter.Server
	if cfg.Server.GRPCEnabled {
		grpcServer, err = grpcadapter.NewServer(runner, portAddr(cfg.Server.GRPCPort), cfg.Server.MaxMessageSize)
		if err != nil {
			util.Fatalf("failed to create gRPC server: %v", err)
		}
		go func() {
			if err := grpcServer.Start(); err != nil {
				util.Errorf("gRPC server stopped: %v", err)
			}
		}()
	}

	var tcpServer *tcpadapter.Server
	if cfg.Server.TCPEnabled {
		tcpServer = tcpadapter.New(portAddr(cfg.Server.TCPPort), runner)
		go func() {
			if err := tcpServer.ListenAndServe(); err != nil {
				util.Errorf("TCP server stopped: %v", err)
			}
		}()
		util.Infof("TCP server listening on %s", portAddr(cfg.Server.TCPPort))
	}

	if cfg.Server.CSVStdin {
		go csvadapter.New(runner).ProcessStream(os.Stdin, os.Stdout)
	}

	util.Infof("aeromatch is ready and accepting orders (%s)", cfg.String())

	// ----------GRACEFUL SHUTDOWN----------
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	util.Infof("shutdown signal received, stopping listeners")

	if tcpServer != nil {
		_ = tcpServer.Close()
	}
	if grpcServer != nil {
		grpcServer.Stop()
	}
	runner.Stop()
}

func portAddr(port int) string {
	return ":" + strconv.Itoa(port)
}

func parseLevel(s string) util.LogLevel {
	switch s {
	case "debug":
		return util.LevelDebug
	case "warn":
		return util.LevelWarn
	case "error":
		return util.LevelError
	default:
		return util.LevelInfo
	}
}
