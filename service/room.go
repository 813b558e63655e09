package service

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/beka-birhanu/labyrinth-duel/maze"
	"github.com/beka-birhanu/labyrinth-duel/messages"
)

// MaxPlayers caps a room at a strict duel.
const MaxPlayers = 2

// ErrRoomFull is returned when a player tries to join a room that already
// seats a full duel.
var ErrRoomFull = errors.New("room is full")

// PlayerState tracks one player's authoritative position inside a room.
type PlayerState struct {
	ID string
	X  int
	Y  int
}

// Room is one match: a generated maze plus the players currently in it.
// The maze is read-only after construction and needs no lock; every other
// field is guarded by mu.
type Room struct {
	ID   string
	Maze *maze.Maze

	players    map[string]*PlayerState
	lastActive time.Time
	mu         sync.RWMutex
}

// NewRoom wraps a generated maze into an empty room.
func NewRoom(id string, m *maze.Maze) *Room {
	return &Room{
		ID:         id,
		Maze:       m,
		players:    make(map[string]*PlayerState),
		lastActive: time.Now(),
	}
}

// AddPlayer inserts a session at (x, y). Re-joining with a known ID is a
// no-op: the existing position is kept and no duplicate entry is created.
// A third distinct player is rejected with ErrRoomFull.
func (r *Room) AddPlayer(playerID string, x, y int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[playerID]; exists {
		return nil
	}
	if len(r.players) >= MaxPlayers {
		return ErrRoomFull
	}

	r.players[playerID] = &PlayerState{ID: playerID, X: x, Y: y}
	r.lastActive = time.Now()
	return nil
}

// RemovePlayer deletes a session. Removing an unknown ID is a no-op.
func (r *Room) RemovePlayer(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.players, playerID)
	r.lastActive = time.Now()
}

// TryMove validates a step against the maze and, when legal, commits it.
// Unknown players, out-of-bounds destinations, non-adjacent deltas and
// closed walls are all reported as false, never as an error: a rejected
// move leaves the room untouched and the connection open.
func (r *Room) TryMove(playerID string, toX, toY int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, exists := r.players[playerID]
	if !exists {
		return false
	}
	if !r.Maze.CanMove(player.X, player.Y, toX, toY) {
		return false
	}

	player.X = toX
	player.Y = toY
	r.lastActive = time.Now()
	return true
}

// Snapshot returns a copy of every player's position, sorted by ID so that
// broadcast payloads are stable across peers. The copy never exposes live
// state that could be mutated mid-read.
func (r *Room) Snapshot() []messages.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]messages.Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, messages.Player{ID: p.ID, X: p.X, Y: p.Y})
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players
}

// PlayerCount returns the number of seated players.
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// IsExpired reports whether the room has sat empty longer than idleTTL.
// Occupied rooms never expire.
func (r *Room) IsExpired(idleTTL time.Duration) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players) == 0 && time.Since(r.lastActive) > idleTTL
}
