package ping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/kalisp/OpenCue/internal/auth"
	"github.com/kalisp/OpenCue/internal/config"
	"github.com/kalisp/OpenCue/internal/connlog"
	"github.com/kalisp/OpenCue/pkg/cueerr"
)

// serveHosts starts an in-memory Cuebot for each addr and returns a dial
// option routing connections to them. Unknown addresses refuse connections.
func serveHosts(t *testing.T, addrs ...string) grpc.DialOption {
	t.Helper()
	listeners := make(map[string]*bufconn.Listener, len(addrs))
	for _, addr := range addrs {
		lis := bufconn.Listen(1 << 20)
		srv := grpc.NewServer()
		healthpb.RegisterHealthServer(srv, health.NewServer())
		go func() { _ = srv.Serve(lis) }()
		t.Cleanup(srv.Stop)
		listeners[addr] = lis
	}
	return grpc.WithContextDialer(func(ctx context.Context, addr string) (net.Conn, error) {
		lis, ok := listeners[addr]
		if !ok {
			return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
		}
		return lis.DialContext(ctx)
	})
}

// setup writes a config with the "test" facility pointing at hosts and
// returns deps backed by a temp history database.
func setup(t *testing.T, dial grpc.DialOption, hosts ...string) (deps, string) {
	t.Helper()
	for _, env := range []string{config.EnvHosts, config.EnvFacility, config.EnvPort} {
		t.Setenv(env, "")
	}

	dir := t.TempDir()
	config.SetPath(filepath.Join(dir, "config.json"))
	t.Cleanup(config.ResetPath)

	cfg := &config.Config{
		DefaultFacility: "test",
		ConnectTimeout:  "2s",
		MaxAttempts:     1,
	}
	cfg.SetHosts("test", hosts)
	if err := cfg.Save(); err != nil {
		t.Fatalf("save config: %v", err)
	}

	dbPath := filepath.Join(dir, "cuego.db")
	return deps{
		store:       auth.NewMockStore(),
		openLog:     func() (*connlog.SQLiteRepository, error) { return connlog.OpenAt(dbPath) },
		dialOptions: []grpc.DialOption{dial},
		interactive: func() bool { return false },
	}, dbPath
}

func execPing(t *testing.T, d deps, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	root := &cobra.Command{Use: "cueadmin", SilenceErrors: true, SilenceUsage: true}
	root.PersistentFlags().String("facility", "", "")
	root.AddCommand(newCommand(d))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"ping"}, args...))
	err := root.Execute()
	return out.String(), err
}

func historyHosts(t *testing.T, dbPath string) []string {
	t.Helper()
	repo, err := connlog.OpenAt(dbPath)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer repo.Close()

	entries, err := repo.List(100)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	hosts := make([]string, len(entries))
	for i, e := range entries {
		// List is newest first; report in attempt order.
		hosts[len(entries)-1-i] = e.Host
	}
	return hosts
}

func TestPing_ConnectsToFirstLiveHost(t *testing.T) {
	d, dbPath := setup(t, serveHosts(t, "cuebot2:8443"), "cuebot1", "cuebot2")

	out, err := execPing(t, d)
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if !strings.Contains(out, "cuebot2:8443") {
		t.Errorf("expected output to name cuebot2:8443, got %q", out)
	}

	want := []string{"cuebot1:8443", "cuebot2:8443"}
	if diff := cmp.Diff(want, historyHosts(t, dbPath)); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	repo, err := connlog.OpenAt(dbPath)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer repo.Close()
	failed, err := repo.ListByHost("cuebot1:8443", 10)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(failed) != 1 || failed[0].Outcome != connlog.OutcomeError ||
		failed[0].ErrorKind != string(cueerr.KindProxyCreation) {
		t.Errorf("unexpected history for unreachable host: %+v", failed)
	}
}

func TestPing_EnvHostsForFacilityFlag(t *testing.T) {
	d, _ := setup(t, serveHosts(t, "cuebot9:8443"), "cuebot1")
	t.Setenv(config.EnvHosts, "cuebot9")

	out, err := execPing(t, d, "--facility", "dev", "-o", "json")
	if err != nil {
		t.Fatalf("ping: %v", err)
	}

	var got struct {
		Facility string `json:"facility"`
		Host     string `json:"host"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Facility != "dev" || got.Host != "cuebot9:8443" {
		t.Errorf("unexpected result: %+v", got)
	}

	// The environment only applies to the current run.
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if diff := cmp.Diff(map[string][]string{"test": {"cuebot1"}}, cfg.Facilities); diff != "" {
		t.Errorf("saved facilities changed (-want +got):\n%s", diff)
	}
}

func TestPing_JSON(t *testing.T) {
	d, _ := setup(t, serveHosts(t, "cuebot1:8443"), "cuebot1")

	out, err := execPing(t, d, "-o", "json")
	if err != nil {
		t.Fatalf("ping: %v", err)
	}

	var got struct {
		Facility string `json:"facility"`
		Host     string `json:"host"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Facility != "test" || got.Host != "cuebot1:8443" {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestPing_NoHostReachable(t *testing.T) {
	d, _ := setup(t, serveHosts(t), "cuebot1", "cuebot2")

	_, err := execPing(t, d)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !cueerr.IsProxyCreation(err) {
		t.Errorf("expected a proxy creation error, got %T: %v", err, err)
	}
	if !cueerr.Is(err) {
		t.Error("expected the error to be caught as a generic cue error")
	}
}

func TestPing_NoHistory(t *testing.T) {
	d, dbPath := setup(t, serveHosts(t, "cuebot1:8443"), "cuebot1")

	if _, err := execPing(t, d, "--no-history"); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if got := historyHosts(t, dbPath); len(got) != 0 {
		t.Errorf("expected no history, got %v", got)
	}
}

func TestPing_All(t *testing.T) {
	d, _ := setup(t, serveHosts(t, "cuebot1:8443"), "cuebot1", "cuebot2")

	out, err := execPing(t, d, "--all", "-o", "json")
	if err != nil {
		t.Fatalf("ping --all: %v", err)
	}

	var rows []probeOutput
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Host != "cuebot1:8443" || rows[0].Error != "" {
		t.Errorf("expected cuebot1 reachable, got %+v", rows[0])
	}
	if rows[1].Host != "cuebot2:8443" || rows[1].ErrorKind != string(cueerr.KindProxyCreation) {
		t.Errorf("expected cuebot2 to fail with a proxy creation error, got %+v", rows[1])
	}
}

func TestPing_AllTable(t *testing.T) {
	d, _ := setup(t, serveHosts(t, "cuebot1:8443"), "cuebot1")

	out, err := execPing(t, d, "--all")
	if err != nil {
		t.Fatalf("ping --all: %v", err)
	}
	for _, want := range []string{"HOST", "STATUS", "cuebot1:8443"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected table to contain %q, got:\n%s", want, out)
		}
	}
}

func TestPing_AllUnreachable(t *testing.T) {
	d, _ := setup(t, serveHosts(t), "cuebot1")

	_, err := execPing(t, d, "--all", "-o", "json")
	if !cueerr.IsProxyCreation(err) {
		t.Errorf("expected a proxy creation error, got %v", err)
	}
}

func TestPing_UnknownFacility(t *testing.T) {
	d, _ := setup(t, serveHosts(t), "cuebot1")

	_, err := execPing(t, d, "--facility", "nowhere")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !cueerr.Is(err) || cueerr.IsProxyCreation(err) {
		t.Errorf("expected a generic cue error, got %v", err)
	}
}

func TestPing_InvalidOutput(t *testing.T) {
	d, _ := setup(t, serveHosts(t), "cuebot1")

	if _, err := execPing(t, d, "-o", "yaml"); err == nil {
		t.Fatal("expected an error for unsupported output")
	}
}
