package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/config"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/supplier"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/client"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

type MockRadarAPI struct {
	mock.Mock
}

func (m *MockRadarAPI) ListRisks(ctx context.Context) ([]client.Risk, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Risk), args.Error(1)
}

func (m *MockRadarAPI) LatestRisks(ctx context.Context) ([]client.Risk, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Risk), args.Error(1)
}

func (m *MockRadarAPI) Simulate(ctx context.Context, req client.SimulateRequest) (*client.SimulateResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.SimulateResult), args.Error(1)
}

func (m *MockRadarAPI) ListSuppliers(ctx context.Context) (*client.SupplierList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.SupplierList), args.Error(1)
}

func (m *MockRadarAPI) Benchmark(ctx context.Context, req client.BenchmarkRequest) (*client.BenchmarkReport, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.BenchmarkReport), args.Error(1)
}

func (m *MockRadarAPI) GatewayMetrics(ctx context.Context) (*client.GatewayMetrics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.GatewayMetrics), args.Error(1)
}

type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) Up() error           { return m.Called().Error(0) }
func (m *MockMigrator) Down(steps int) error { return m.Called(steps).Error(0) }
func (m *MockMigrator) Status() (uint, bool, error) {
	args := m.Called()
	return args.Get(0).(uint), args.Bool(1), args.Error(2)
}

type MockRosterWriter struct {
	mock.Mock
}

func (m *MockRosterWriter) WriteRoster(ctx context.Context, suppliers []supplier.Supplier) error {
	return m.Called(ctx, suppliers).Error(0)
}

func (m *MockRosterWriter) Close() error { return m.Called().Error(0) }

type MockCacheFlusher struct {
	mock.Mock
}

func (m *MockCacheFlusher) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheFlusher) Close() error { return m.Called().Error(0) }

type testHarness struct {
	api      *MockRadarAPI
	migrator *MockMigrator
	writer   *MockRosterWriter
	flusher  *MockCacheFlusher
	addr     string
}

func newHarness() *testHarness {
	return &testHarness{
		api:      new(MockRadarAPI),
		migrator: new(MockMigrator),
		writer:   new(MockRosterWriter),
		flusher:  new(MockCacheFlusher),
	}
}

func (h *testHarness) deps() Dependencies {
	return Dependencies{
		NewAPI: func(addr string, _ time.Duration) (RadarAPI, error) {
			h.addr = addr
			return h.api, nil
		},
		NewMigrator: func(*config.Config) Migrator { return h.migrator },
		NewRosterWriter: func(context.Context, *config.Config, logging.Logger) (RosterWriter, error) {
			return h.writer, nil
		},
		NewCacheFlusher: func(context.Context, *config.Config, logging.Logger) (CacheFlusher, error) {
			return h.flusher, nil
		},
	}
}

// run executes args against a fresh command tree and returns stdout.
func (h *testHarness) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand(h.deps())
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand(Dependencies{})
	assert.Equal(t, "riskradar", cmd.Use)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"risks", "suppliers", "benchmark", "metrics", "migrate", "cache"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	for _, flag := range []string{"config", "server", "output", "timeout", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing flag %s", flag)
	}
	assert.Equal(t, "c", cmd.PersistentFlags().Lookup("config").Shorthand)
	assert.Equal(t, "o", cmd.PersistentFlags().Lookup("output").Shorthand)
}

func TestRoot_DefaultServerAddress(t *testing.T) {
	h := newHarness()
	h.api.On("GatewayMetrics", mock.Anything).Return(&client.GatewayMetrics{Provider: "cerebras"}, nil)

	_, _, err := h.run(t, "metrics")
	require.NoError(t, err)
	assert.Equal(t, defaultServerAddr, h.addr)

	_, _, err = h.run(t, "--server", "http://radar:9000", "metrics")
	require.NoError(t, err)
	assert.Equal(t, "http://radar:9000", h.addr)
}

func TestRoot_InvalidOutputFormat(t *testing.T) {
	h := newHarness()
	_, _, err := h.run(t, "-o", "xml", "metrics")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	h.api.AssertNotCalled(t, "GatewayMetrics", mock.Anything)
}

func TestRoot_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 0\n  mode: nope\n"), 0o600))

	h := newHarness()
	_, _, err := h.run(t, "--config", path, "metrics")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config initialization failed")
}

func TestGetCLIContext_Missing(t *testing.T) {
	cmd := &cobra.Command{}
	_, err := GetCLIContext(cmd)
	assert.Error(t, err)

	cmd.SetContext(context.Background())
	_, err = GetCLIContext(cmd)
	assert.Error(t, err)
}

func TestFormatTable(t *testing.T) {
	out := FormatTable([]string{"ID", "NAME"}, [][]string{{"1", "Rhine Parts"}, {"22"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ID  NAME       ", lines[0])
	assert.Equal(t, "--  -----------", lines[1])
	assert.Equal(t, "1   Rhine Parts", lines[2])
	assert.Equal(t, "22             ", lines[3])

	assert.Empty(t, FormatTable(nil, nil))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
}

func TestPrintResult_FallsBackToJSON(t *testing.T) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, PrintResult(cmd, map[string]int{"n": 1}))
	assert.JSONEq(t, `{"n":1}`, out.String())
}

//Personal.AI order the ending
