// Package main provides the command-line decoder: it samples frames from a
// video file, camera, frame recording or RTP listener and writes the
// reconstructed payload to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/opd-ai/framemodem/internal/cli"
	"github.com/opd-ai/framemodem/stream"
	"github.com/sirupsen/logrus"
)

// CLI configuration
type CLIConfig struct {
	stream      *cli.StreamFlags
	source      string
	length      int
	idleTimeout time.Duration
	timeout     time.Duration
	help        bool
}

// parseCLIFlags parses command-line flags and returns the configuration.
func parseCLIFlags(fs *flag.FlagSet, args []string) (*CLIConfig, error) {
	config := &CLIConfig{stream: cli.RegisterStreamFlags(fs)}

	fs.StringVar(&config.source, "source", "", "Input: video file, camera index, *.fmr recording or udp://host:port")
	fs.IntVar(&config.length, "length", -1, "Payload length in bytes")
	fs.DurationVar(&config.idleTimeout, "idle-timeout", 2*time.Second, "End an RTP source after this long without packets")
	fs.DurationVar(&config.timeout, "timeout", 0, "Abort decoding after this long (0 for no limit)")
	fs.BoolVar(&config.help, "help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return config, nil
}

// validateCLIConfig validates the CLI configuration.
func validateCLIConfig(config *CLIConfig) (stream.Config, error) {
	if config.source == "" {
		return stream.Config{}, fmt.Errorf("source cannot be empty")
	}
	if config.length < 0 {
		return stream.Config{}, fmt.Errorf("payload length must be given and non-negative")
	}
	if config.idleTimeout <= 0 {
		return stream.Config{}, fmt.Errorf("idle timeout must be positive")
	}
	if config.timeout < 0 {
		return stream.Config{}, fmt.Errorf("timeout cannot be negative")
	}
	return config.stream.Config()
}

// printUsage prints the usage information.
func printUsage(fs *flag.FlagSet) {
	fmt.Println("Frame Modem Decoder")
	fmt.Println("===================")
	fmt.Println()
	fmt.Println("Reconstructs a payload from captured grid frames and writes it to stdout.")
	fmt.Println("Grid, scheme and redundancy must match the encoder's.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s -source <input> -length <bytes> [options] > payload\n", os.Args[0])
	fmt.Println()
	fmt.Println("Options:")
	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  # Decode 1024 bytes from a video file\n")
	fmt.Printf("  %s -source payload.mp4 -length 1024 > payload.bin\n", os.Args[0])
	fmt.Println()
	fmt.Printf("  # Decode from the first camera\n")
	fmt.Printf("  %s -source 0 -length 1024 > payload.bin\n", os.Args[0])
	fmt.Println()
	fmt.Printf("  # Receive over RTP\n")
	fmt.Printf("  %s -source udp://0.0.0.0:5004 -length 1024 > payload.bin\n", os.Args[0])
}

// setupSignalHandling cancels ctx on interrupt.
func setupSignalHandling(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	go func() {
		sig := <-sigChan
		logrus.WithField("signal", sig.String()).Warn("Interrupted, stopping decode")
		cancel()
	}()
}

// run decodes the configured source and writes the payload to stdout.
func run(ctx context.Context, config *CLIConfig, cfg stream.Config, stdout io.Writer) (int, error) {
	dec, err := stream.NewDecoder(cfg)
	if err != nil {
		return 0, err
	}
	source, err := cli.OpenSource(config.source, config.idleTimeout)
	if err != nil {
		return 0, err
	}
	defer source.Close()

	payload, err := dec.DecodeStream(ctx, source, config.length)
	if err != nil {
		return 0, err
	}
	n, err := stdout.Write(payload)
	if err != nil {
		return n, fmt.Errorf("write payload: %w", err)
	}
	return n, nil
}

// main is the entry point for the decoder.
func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	config, err := parseCLIFlags(fs, os.Args[1:])
	if err != nil {
		cli.Fatalf("Failed to parse flags: %v", err)
	}

	if config.help {
		printUsage(fs)
		os.Exit(0)
	}

	if err := config.stream.SetupLogging(os.Stderr); err != nil {
		cli.Fatalf("Configuration error: %v", err)
	}
	cfg, err := validateCLIConfig(config)
	if err != nil {
		cli.Fatalf("Configuration error: %v\nUse -help for usage information.", err)
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if config.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), config.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	defer cancel()
	setupSignalHandling(cancel)

	n, err := run(ctx, config, cfg, os.Stdout)
	if err != nil {
		cli.Fatalf("Decode failed: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "main",
		"bytes":    n,
		"source":   config.source,
	}).Info("Payload written to stdout")
}
