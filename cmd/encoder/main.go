// Package main provides the command-line encoder: it reads a payload from
// stdin and writes it as a redundant sequence of colored grid frames to a
// video file, a frame recording or an RTP destination.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/opd-ai/framemodem/internal/cli"
	"github.com/opd-ai/framemodem/stream"
	"github.com/sirupsen/logrus"
)

// CLI configuration
type CLIConfig struct {
	stream *cli.StreamFlags
	output string
	fps    float64
	help   bool
}

// parseCLIFlags parses command-line flags and returns the configuration.
func parseCLIFlags(fs *flag.FlagSet, args []string) (*CLIConfig, error) {
	config := &CLIConfig{stream: cli.RegisterStreamFlags(fs)}

	fs.StringVar(&config.output, "output", "", "Output target: video file, *.fmr recording or udp://host:port")
	fs.Float64Var(&config.fps, "fps", 30, "Output frame rate")
	fs.BoolVar(&config.help, "help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return config, nil
}

// validateCLIConfig validates the CLI configuration.
func validateCLIConfig(config *CLIConfig) (stream.Config, error) {
	if config.output == "" {
		return stream.Config{}, fmt.Errorf("output target cannot be empty")
	}
	if config.fps <= 0 {
		return stream.Config{}, fmt.Errorf("frame rate must be positive")
	}
	if kind, _ := cli.Classify(config.output); kind == cli.KindCamera {
		return stream.Config{}, fmt.Errorf("output target %q looks like a camera index", config.output)
	}
	return config.stream.Config()
}

// printUsage prints the usage information.
func printUsage(fs *flag.FlagSet) {
	fmt.Println("Frame Modem Encoder")
	fmt.Println("===================")
	fmt.Println()
	fmt.Println("Reads a payload from stdin and renders it as colored grid frames.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s -output <target> [options] < payload\n", os.Args[0])
	fmt.Println()
	fmt.Println("Options:")
	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  # Encode into an MP4 with the default 1080p, 6x4 grid\n")
	fmt.Printf("  %s -output payload.mp4 < payload.bin\n", os.Args[0])
	fmt.Println()
	fmt.Printf("  # Record lossless frames for later decoding\n")
	fmt.Printf("  %s -output payload.fmr -scheme 8 < payload.bin\n", os.Args[0])
	fmt.Println()
	fmt.Printf("  # Stream over RTP\n")
	fmt.Printf("  %s -output udp://127.0.0.1:5004 < payload.bin\n", os.Args[0])
}

// setupSignalHandling cancels ctx on interrupt.
func setupSignalHandling(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	go func() {
		sig := <-sigChan
		logrus.WithField("signal", sig.String()).Warn("Interrupted, stopping encode")
		cancel()
	}()
}

// run encodes stdin into the configured output.
func run(ctx context.Context, config *CLIConfig, cfg stream.Config, stdin io.Reader) (stream.Stats, error) {
	payload, err := io.ReadAll(stdin)
	if err != nil {
		return stream.Stats{}, fmt.Errorf("read payload: %w", err)
	}

	enc, err := stream.NewEncoder(cfg)
	if err != nil {
		return stream.Stats{}, err
	}
	sink, err := cli.OpenSink(config.output, cfg.Grid.ActualWidth, cfg.Grid.ActualHeight, config.fps)
	if err != nil {
		return stream.Stats{}, err
	}

	stats, err := enc.EncodeStream(ctx, payload, sink)
	if closeErr := sink.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close output: %w", closeErr)
	}
	return stats, err
}

// main is the entry point for the encoder.
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandling(cancel)

	stats, err := run(ctx, config, cfg, os.Stdin)
	if err != nil {
		cli.Fatalf("Encode failed: %v", err)
	}

	fmt.Fprintf(os.Stderr, "Encoded %d bytes into %d frames (%d batches, redundancy %d) -> %s\n",
		stats.Bytes, stats.FramesWritten, stats.Batches, cfg.Redundancy, config.output)
}
