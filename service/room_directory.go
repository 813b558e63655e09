package service

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/beka-birhanu/labyrinth-duel/maze"
	log "github.com/sirupsen/logrus"
)

// Directory defaults, used when the corresponding Config field is zero.
const (
	defaultMazeWidth  = 10
	defaultMazeHeight = 10
	defaultIdleTTL    = 5 * time.Minute

	reapInterval = time.Minute
)

// MazeFactory builds the layout for a fresh room.
type MazeFactory func(width, height int, rng *rand.Rand) (*maze.Maze, error)

// Directory is the registry of live rooms. Rooms are created lazily on
// first join and reaped once they have been empty for the idle TTL.
// Directories are constructed and injected rather than shared process-wide,
// so tests can run isolated instances.
type Directory struct {
	mazeFactory MazeFactory
	logger      *log.Logger
	mazeWidth   int
	mazeHeight  int
	idleTTL     time.Duration

	rooms  map[string]*Room
	mu     sync.RWMutex
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// Config carries the Directory's dependencies and settings.
type Config struct {
	MazeFactory MazeFactory
	Logger      *log.Logger
	MazeWidth   int
	MazeHeight  int
	IdleTTL     time.Duration
}

// NewDirectory creates a directory and starts its reap loop. Stop must be
// called to halt the loop.
func NewDirectory(c *Config) *Directory {
	d := &Directory{
		mazeFactory: c.MazeFactory,
		logger:      c.Logger,
		mazeWidth:   c.MazeWidth,
		mazeHeight:  c.MazeHeight,
		idleTTL:     c.IdleTTL,
		rooms:       make(map[string]*Room),
		stopCh:      make(chan struct{}),
	}
	if d.mazeWidth == 0 {
		d.mazeWidth = defaultMazeWidth
	}
	if d.mazeHeight == 0 {
		d.mazeHeight = defaultMazeHeight
	}
	if d.idleTTL == 0 {
		d.idleTTL = defaultIdleTTL
	}

	d.wg.Add(1)
	go d.reapLoop()
	return d
}

// GetOrCreate returns the room registered under roomID, creating it with a
// freshly generated maze when absent. Concurrent creators racing on a new
// ID observe the same instance. Generation failure publishes nothing: no
// half-built room ever becomes visible.
func (d *Directory) GetOrCreate(roomID string) (*Room, error) {
	d.mu.RLock()
	room, exists := d.rooms[roomID]
	d.mu.RUnlock()
	if exists {
		return room, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// re-check: another creator may have won the race
	if room, exists := d.rooms[roomID]; exists {
		return room, nil
	}

	m, err := d.mazeFactory(d.mazeWidth, d.mazeHeight, nil)
	if err != nil {
		return nil, fmt.Errorf("generating maze for room %q: %w", roomID, err)
	}

	room = NewRoom(roomID, m)
	d.rooms[roomID] = room
	d.logger.Infof("created room %s with a %dx%d maze", roomID, d.mazeWidth, d.mazeHeight)
	return room, nil
}

// Get returns the room registered under roomID, or nil.
func (d *Directory) Get(roomID string) *Room {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rooms[roomID]
}

// RoomCount returns the number of live rooms.
func (d *Directory) RoomCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}

func (d *Directory) reapLoop() {
	defer d.wg.Done()

	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.Reap()
		case <-d.stopCh:
			return
		}
	}
}

// Reap removes rooms that have been empty longer than the idle TTL. It runs
// on a timer but is exported so tests can trigger it directly.
func (d *Directory) Reap() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id, room := range d.rooms {
		if room.IsExpired(d.idleTTL) {
			delete(d.rooms, id)
			d.logger.Infof("reaped idle room %s", id)
		}
	}
}

// Stop halts the reap loop.
func (d *Directory) Stop() {
	close(d.stopCh)
	d.wg.Wait()
}
