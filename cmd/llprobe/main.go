// llprobe scans a network's IPv4 link-local range (169.254.0.0/16) for
// addresses nobody answers an ARP probe for, reports the first batch of free
// addresses it finds and, with -assign, assigns the first address of that
// batch to the configured interface.
package main

import (
	"context"
	"flag"
	"fmt"
	nethttp "net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lladdr/llprobe/internal/arpprobe"
	"github.com/lladdr/llprobe/internal/config"
	"github.com/lladdr/llprobe/internal/handler"
	"github.com/lladdr/llprobe/internal/ifconfig"
	"github.com/lladdr/llprobe/internal/logging"
	"github.com/lladdr/llprobe/internal/rawsock"
)

// openRawChannel adapts rawsock.Open's concrete *channel return to the
// arpprobe.OpenChannel function signature.
func openRawChannel(iface string) (arpprobe.Channel, error) {
	return rawsock.Open(iface)
}

const linkLocalPrefixLen = 16

func main() {
	configPath := flag.String("config", "/etc/llprobe/config.toml", "path to configuration file")
	debugPort := flag.String("debug-port", "", "enable pprof debug server on this port (e.g. 6060)")
	assign := flag.Bool("assign", false, "assign the first free address found to the configured interface")
	flag.Parse()

	if *debugPort != "" {
		go func() {
			addr := "0.0.0.0:" + *debugPort
			fmt.Fprintf(os.Stderr, "pprof debug server on http://%s/debug/pprof/\n", addr)
			if err := nethttp.ListenAndServe(addr, nil); err != nil {
				fmt.Fprintf(os.Stderr, "pprof server failed: %v\n", err)
			}
		}()
	}

	// SIGUSR1 dumps all goroutine stacks to /tmp/llprobe-goroutines.txt.
	// Works even under 100% CPU since signals are kernel-delivered.
	go func() {
		sigUsr1 := make(chan os.Signal, 1)
		signal.Notify(sigUsr1, syscall.SIGUSR1)
		for range sigUsr1 {
			buf := make([]byte, 16*1024*1024)
			n := runtime.Stack(buf, true)
			path := "/tmp/llprobe-goroutines.txt"
			if err := os.WriteFile(path, buf[:n], 0644); err != nil {
				fmt.Fprintf(os.Stderr, "failed to write goroutine dump: %v\n", err)
			} else {
				fmt.Fprintf(os.Stderr, "goroutine dump written to %s (%d bytes)\n", path, n)
			}
		}
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Server.LogLevel, os.Stdout)
	logger.Info("llprobe starting",
		"config", *configPath,
		"interface", cfg.Server.Interface,
		"batch_size", cfg.Scan.BatchSize,
		"n_retries", cfg.Scan.NRetries)

	responseTimeout, err := cfg.ResponseTimeoutDuration()
	if err != nil {
		logger.Error("invalid response_timeout", "error", err)
		os.Exit(1)
	}
	cacheTimeout, err := cfg.CacheTimeoutDuration()
	if err != nil {
		logger.Error("invalid cache_timeout", "error", err)
		os.Exit(1)
	}

	if cfg.Server.MetricsAddr != "" {
		mux := nethttp.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			logger.Info("metrics server listening", "addr", cfg.Server.MetricsAddr)
			if err := nethttp.ListenAndServe(cfg.Server.MetricsAddr, mux); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	h, err := handler.New(handler.Config{
		Interface:       cfg.Server.Interface,
		NRetries:        cfg.Scan.NRetries,
		ResponseTimeout: responseTimeout,
		CacheTimeout:    cacheTimeout,
		BatchSize:       cfg.Scan.BatchSize,
	}, openRawChannel, rawsock.MACOf)
	if err != nil {
		logger.Error("failed to initialize ARP probing handler", "error", err)
		os.Exit(1)
	}
	defer h.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	configurator := ifconfig.NewConfigurator()

	for {
		ips, more, err := h.NextFreeIPBatch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("llprobe stopped")
				return
			}
			logger.Error("probe batch failed", "error", err)
			os.Exit(1)
		}
		if !more {
			logger.Warn("link-local address space exhausted with no free addresses found")
			return
		}

		logger.Info("free addresses found", "count", len(ips), "first", ips[0].String())

		if *assign {
			if err := configurator.Add(ctx, cfg.Server.Interface, ips[0], linkLocalPrefixLen); err != nil {
				logger.Error("failed to assign discovered address", "ip", ips[0].String(), "error", err)
				os.Exit(1)
			}
			logger.Info("assigned address to interface", "ip", ips[0].String(), "interface", cfg.Server.Interface)
		}
		return
	}
}
