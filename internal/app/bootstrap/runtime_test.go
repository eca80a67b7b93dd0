package bootstrap

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeMemoryConfig(t *testing.T, grpcPort int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := fmt.Sprintf(`
service:
  grpc_port: %d
storage:
  driver: memory
`, grpcPort)
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNewRuntimeDoesNotBindGRPCPort(t *testing.T) {
	rt, err := NewRuntime(context.Background(), writeMemoryConfig(t, 19090))
	if err != nil {
		t.Fatalf("new runtime: %v", err)
	}
	defer rt.cleanupFn(context.Background())

	// The port belongs to RunAPI. A constructed runtime must not hold it, or
	// a worker sharing the API's config could never start alongside the API.
	lis, err := net.Listen("tcp", ":19090")
	if err != nil {
		t.Fatalf("grpc port already held after construction: %v", err)
	}
	_ = lis.Close()
}

func TestWorkerRunsOnAPIConfig(t *testing.T) {
	path := writeMemoryConfig(t, 19091)

	api, err := NewRuntime(context.Background(), path)
	if err != nil {
		t.Fatalf("api runtime: %v", err)
	}
	defer api.cleanupFn(context.Background())

	worker, err := NewRuntime(context.Background(), path)
	if err != nil {
		t.Fatalf("worker runtime from same config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan error, 1)
	go func() { done <- worker.RunWorker(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("worker shutdown: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("worker did not stop on cancelled context")
	}
}
