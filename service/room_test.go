package service_test

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/beka-birhanu/labyrinth-duel/maze"
	"github.com/beka-birhanu/labyrinth-duel/messages"
	"github.com/beka-birhanu/labyrinth-duel/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoom(t *testing.T) *service.Room {
	t.Helper()
	m, err := maze.Generate(10, 10, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return service.NewRoom("duel-1", m)
}

// openNeighbor returns a cell adjacent to (x, y) whose shared wall is open.
// A spanning tree guarantees one exists for any grid bigger than one cell.
func openNeighbor(m *maze.Maze, x, y int) (int, int) {
	for _, n := range [][2]int{{x + 1, y}, {x, y + 1}, {x - 1, y}, {x, y - 1}} {
		if m.CanMove(x, y, n[0], n[1]) {
			return n[0], n[1]
		}
	}
	return x, y
}

func TestRoom_AddPlayer(t *testing.T) {
	t.Run("idempotent re-join keeps position", func(t *testing.T) {
		room := newTestRoom(t)
		require.NoError(t, room.AddPlayer("alice", 0, 0))

		nx, ny := openNeighbor(room.Maze, 0, 0)
		require.True(t, room.TryMove("alice", nx, ny))

		require.NoError(t, room.AddPlayer("alice", 0, 0))
		snapshot := room.Snapshot()
		require.Len(t, snapshot, 1)
		assert.Equal(t, messages.Player{ID: "alice", X: nx, Y: ny}, snapshot[0])
	})

	t.Run("duel cap rejects a third player", func(t *testing.T) {
		room := newTestRoom(t)
		require.NoError(t, room.AddPlayer("alice", 0, 0))
		require.NoError(t, room.AddPlayer("bob", 0, 0))

		assert.ErrorIs(t, room.AddPlayer("carol", 0, 0), service.ErrRoomFull)
		assert.Len(t, room.Snapshot(), 2)
	})

	t.Run("re-join of a seated player succeeds in a full room", func(t *testing.T) {
		room := newTestRoom(t)
		require.NoError(t, room.AddPlayer("alice", 0, 0))
		require.NoError(t, room.AddPlayer("bob", 0, 0))

		assert.NoError(t, room.AddPlayer("bob", 0, 0))
		assert.Len(t, room.Snapshot(), 2)
	})
}

func TestRoom_TryMove(t *testing.T) {
	m, err := maze.Generate(10, 10, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	room := service.NewRoom("duel-2", m)
	require.NoError(t, room.AddPlayer("alice", 0, 0))

	t.Run("unknown player", func(t *testing.T) {
		assert.False(t, room.TryMove("ghost", 0, 1))
	})

	t.Run("each cardinal step follows the walls", func(t *testing.T) {
		// from the origin, each delta must succeed exactly when the
		// corresponding wall is open; probes that succeed step back so the
		// next one starts from the origin again
		origin := m.Grid[0][0]

		assert.Equal(t, !origin.Right, room.TryMove("alice", 1, 0))
		if !origin.Right {
			require.True(t, room.TryMove("alice", 0, 0))
		}
		assert.Equal(t, !origin.Bottom, room.TryMove("alice", 0, 1))
		if !origin.Bottom {
			require.True(t, room.TryMove("alice", 0, 0))
		}
		assert.False(t, room.TryMove("alice", -1, 0), "west leaves the grid")
		assert.False(t, room.TryMove("alice", 0, -1), "north leaves the grid")
	})

	t.Run("non-adjacent delta", func(t *testing.T) {
		assert.False(t, room.TryMove("alice", 5, 5))

		snapshot := room.Snapshot()
		require.Len(t, snapshot, 1)
		assert.Equal(t, messages.Player{ID: "alice", X: 0, Y: 0}, snapshot[0])
	})
}

func TestRoom_ConcurrentMoves(t *testing.T) {
	m, err := maze.Generate(10, 10, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	room := service.NewRoom("duel-3", m)
	require.NoError(t, room.AddPlayer("alice", 0, 0))
	require.NoError(t, room.AddPlayer("bob", 0, 0))

	nx, ny := openNeighbor(m, 0, 0)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.True(t, room.TryMove("alice", nx, ny))
	}()
	go func() {
		defer wg.Done()
		assert.True(t, room.TryMove("bob", nx, ny))
	}()
	wg.Wait()

	// neither move may be lost
	snapshot := room.Snapshot()
	require.Len(t, snapshot, 2)
	for _, p := range snapshot {
		assert.Equal(t, nx, p.X)
		assert.Equal(t, ny, p.Y)
	}
}

func TestRoom_RemovePlayer(t *testing.T) {
	room := newTestRoom(t)
	require.NoError(t, room.AddPlayer("alice", 0, 0))
	require.NoError(t, room.AddPlayer("bob", 0, 0))

	room.RemovePlayer("alice")
	snapshot := room.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "bob", snapshot[0].ID)

	// absent IDs are a no-op
	room.RemovePlayer("ghost")
	assert.Len(t, room.Snapshot(), 1)
}

func TestRoom_SnapshotSortedByID(t *testing.T) {
	room := newTestRoom(t)
	require.NoError(t, room.AddPlayer("zed", 0, 0))
	require.NoError(t, room.AddPlayer("amy", 0, 0))

	snapshot := room.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "amy", snapshot[0].ID)
	assert.Equal(t, "zed", snapshot[1].ID)
}

func TestRoom_IsExpired(t *testing.T) {
	room := newTestRoom(t)
	assert.False(t, room.IsExpired(time.Hour))

	require.NoError(t, room.AddPlayer("alice", 0, 0))
	assert.False(t, room.IsExpired(0), "occupied rooms never expire")

	room.RemovePlayer("alice")
	time.Sleep(5 * time.Millisecond)
	assert.True(t, room.IsExpired(time.Millisecond))
}
