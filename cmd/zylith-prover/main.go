// Zylith Prover Worker - long-lived stdio subprocess for witness
// generation, Groth16 proving, and calldata formatting.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zylith/core/internal/circuit"
	"github.com/zylith/core/internal/prover"
)

func main() {
	artifactDir := flag.String("artifact-dir", "./data/prover-artifacts", "directory proof/public-witness artifacts are exported to")
	formatterCmd := flag.String("calldata-formatter", "", "external calldata formatter binary (empty uses the built-in raw formatter)")
	queueCapacity := flag.Int("queue-capacity", prover.DefaultQueueCapacity, "maximum concurrent generateProof requests")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := run(ctx, *artifactDir, *formatterCmd, *queueCapacity); err != nil {
		fmt.Fprintf(os.Stderr, "zylith-prover: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, artifactDir, formatterCmd string, queueCapacity int) error {
	manager := circuit.NewManager()
	if err := manager.CompileAll(); err != nil {
		return fmt.Errorf("compile circuits: %w", err)
	}

	var formatter prover.CalldataFormatter = prover.RawFormatter{}
	if formatterCmd != "" {
		formatter = &prover.ExternalFormatter{Command: formatterCmd}
	}

	worker := prover.NewWorker(manager, &prover.ArtifactExporter{Dir: artifactDir}, formatter, queueCapacity)
	return worker.Run(ctx, os.Stdin, os.Stdout)
}
