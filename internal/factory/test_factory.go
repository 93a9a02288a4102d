package factory

import (
	"time"

	"github.com/mcoot/gamehub/internal/dependencies/mocks"
	"github.com/mcoot/gamehub/internal/endpoint"
	"github.com/mcoot/gamehub/internal/remote"
	"github.com/mcoot/gamehub/internal/storage/memory"
	"github.com/mcoot/gamehub/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App talking to the given endpoint table, with
// memory storage, mocked clock and randomness, short timeouts and no
// live catalog
func NewTestApp(endpoints endpoint.Config) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	cfg := withDefaults(Config{Endpoints: endpoints})
	cfg.Remote.RequestTimeout = 2 * time.Second
	cfg.Remote.ProbeTimeout = 500 * time.Millisecond

	app := newWithDependencies(dependencies{
		store:  store,
		clock:  mockClock,
		random: mockRandom,
		client: remote.NewHTTPClient(cfg.Remote),
		cfg:    cfg,
		logger: testutil.NopLogger(),
	})

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}

// SingleEndpoint returns a development table whose auth and games
// primaries point at one server base URL (without the /api suffix)
func SingleEndpoint(baseURL string) endpoint.Config {
	return endpoint.Config{
		Environment: endpoint.EnvDevelopment,
		Auth:        endpoint.Set{Primary: baseURL + "/api/auth"},
		Games:       endpoint.Set{Primary: baseURL + "/api"},
	}
}
