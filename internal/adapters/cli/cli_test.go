package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voidfleet-go/internal/adapters/cli"
	admin "github.com/andrescamacho/voidfleet-go/internal/adapters/grpc"
	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/application/setup"
	"github.com/andrescamacho/voidfleet-go/internal/application/turn"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
	"github.com/andrescamacho/voidfleet-go/test/helpers"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func startDaemon(t *testing.T) (string, *helpers.Fixtures) {
	t.Helper()
	stores := helpers.NewTestStores(helpers.NewTestDB(t))
	clock := shared.NewMockClock(epoch)
	resolver := turn.NewResolver(stores, turn.ResolverOptions{NewID: helpers.IDSequence("id")})
	scheduler := turn.NewScheduler(stores.Games, resolver, nil, clock, turn.SchedulerConfig{})

	m := mediator.NewMediator()
	require.NoError(t, setup.NewHandlerRegistry(stores, nil, clock, scheduler, time.Minute).RegisterAll(m))

	dir, err := os.MkdirTemp("", "vf")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	socket := filepath.Join(dir, "d.sock")

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	server, err := admin.NewAdminServer(m, socket, log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return socket, helpers.NewFixtures(t, stores)
}

func run(t *testing.T, socket string, args ...string) (string, error) {
	t.Helper()
	root := cli.NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--socket", socket}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCLI_QueueAndResolve(t *testing.T) {
	socket, fx := startDaemon(t)
	fx.CreateGame("alpha", 1, time.Minute, epoch)
	fx.CreateShip("alpha", "scout-1", "player-1", "scout", shared.NewPosition(0, 0))

	out, err := run(t, socket, "--game", "alpha", "queue", "add", "--ship", "scout-1", "--type", "move", "--to", "2,0")
	require.NoError(t, err)
	assert.Contains(t, out, "Queued move order")

	out, err = run(t, socket, "--game", "alpha", "queue", "list", "--ship", "scout-1")
	require.NoError(t, err)
	assert.Contains(t, out, "queued")
	assert.Contains(t, out, `{"destination":{"x":2,"y":0}}`)

	out, err = run(t, socket, "--game", "alpha", "turn", "resolve")
	require.NoError(t, err)
	assert.Contains(t, out, "Turn 1 of alpha resolved")
	assert.Contains(t, out, turn.PhaseMovement)

	assert.Equal(t, shared.NewPosition(2, 0), fx.Object("scout-1").Position)

	out, err = run(t, socket, "--game", "alpha", "game", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Turn:   2")
}

func TestCLI_JSONOutputAndErrors(t *testing.T) {
	socket, fx := startDaemon(t)
	fx.CreateGame("alpha", 1, time.Minute, epoch)

	out, err := run(t, socket, "--game", "alpha", "--json", "combat-log", "--turn", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"entries"`)

	_, err = run(t, socket, "--game", "missing", "game", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get game")

	_, err = run(t, socket, "--game", "alpha", "game", "spawn", "--at", "nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid position")
}

func TestCLI_DefaultGameFromUserConfig(t *testing.T) {
	t.Setenv("VF_HOME", t.TempDir())
	socket, fx := startDaemon(t)
	fx.CreateGame("beta", 4, time.Minute, epoch)

	_, err := run(t, socket, "game", "show")
	require.Error(t, err, "no game flag and no default")

	out, err := run(t, socket, "config", "set-game", "beta")
	require.NoError(t, err)
	assert.Contains(t, out, "Default game set to beta")

	out, err = run(t, socket, "game", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Turn:   4")

	_, err = run(t, socket, "config", "clear-game")
	require.NoError(t, err)
	_, err = run(t, socket, "game", "show")
	assert.Error(t, err)
}
