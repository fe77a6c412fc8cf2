package e2e

import (
	"testing"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/config"
	"github.com/light-bringer/pav-service/internal/services"
	"github.com/light-bringer/pav-service/tests/testutil"
)

// setupTest wires the whole pipeline over the emulator.
func setupTest(t *testing.T) (*services.ServiceOptions, *spanner.Client, func()) {
	t.Helper()

	client, cleanup := testutil.SetupSpannerTest(t)
	cfg := &config.Config{
		Backend:     config.BackendSpanner,
		Inheritance: config.Inheritance{RelationInheritance: true},
		Runner:      config.Runner{BatchSize: 100},
	}
	opts := services.Wire(services.SpannerRepositories(client), cfg, testutil.NewTickingClock(), zap.NewNop())
	return opts, client, cleanup
}
