package config_test

import (
	"testing"
	"time"

	"github.com/beka-birhanu/labyrinth-duel/config"
	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	cfg := config.New()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.MazeWidth)
	assert.Equal(t, 10, cfg.MazeHeight)
	assert.Equal(t, 5*time.Minute, cfg.RoomIdleTTL)
}

func TestNew_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MAZE_WIDTH", "6")
	t.Setenv("MAZE_HEIGHT", "4")
	t.Setenv("ROOM_IDLE_TTL", "60")

	cfg := config.New()

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 6, cfg.MazeWidth)
	assert.Equal(t, 4, cfg.MazeHeight)
	assert.Equal(t, time.Minute, cfg.RoomIdleTTL)
}

func TestNew_MalformedIntFallsBack(t *testing.T) {
	t.Setenv("MAZE_WIDTH", "wide")

	cfg := config.New()
	assert.Equal(t, 10, cfg.MazeWidth)
}
