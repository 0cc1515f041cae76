package proverclient

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zylith/core/internal/circuit"
	"github.com/zylith/core/internal/prover"
)

// newPipedClient wires a Client directly to an in-process prover.Worker via
// an in-memory pipe, exercising the exact same wire protocol Start would
// speak to a real subprocess, without actually spawning one.
func newPipedClient(t *testing.T) *Client {
	t.Helper()

	manager := circuit.NewManager()
	require.NoError(t, manager.CompileAll())
	worker := prover.NewWorker(manager, &prover.ArtifactExporter{Dir: t.TempDir()}, nil, 2)

	clientReadFromWorker, workerWrite := io.Pipe()
	workerRead, clientWriteToWorker := io.Pipe()

	go func() {
		_ = worker.Run(context.Background(), workerRead, workerWrite)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := newClient(ctx, clientWriteToWorker, clientReadFromWorker, func() error {
		return clientWriteToWorker.Close()
	})
	require.NoError(t, err)
	return c
}

func TestClientInsertLeafAndGetRoot(t *testing.T) {
	c := newPipedClient(t)
	defer c.Close()

	ctx := context.Background()
	res, err := c.InsertLeaf(ctx, "7")
	require.NoError(t, err)
	require.Equal(t, uint64(0), res.LeafIndex)

	root, err := c.GetRoot(ctx)
	require.NoError(t, err)
	require.Equal(t, res.Root, root)
}

func TestClientPing(t *testing.T) {
	c := newPipedClient(t)
	defer c.Close()
	require.NoError(t, c.Ping(context.Background()))
}

func TestClientUnknownCommandSurfacesCallError(t *testing.T) {
	c := newPipedClient(t)
	defer c.Close()

	err := c.Call(context.Background(), "notACommand", struct{}{}, nil)
	require.Error(t, err)
	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	require.Equal(t, prover.ErrKindUnknownCommand, callErr.Kind)
}
