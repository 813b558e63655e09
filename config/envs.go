package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds the server's runtime settings.
type Config struct {
	Port        string        // HTTP listen port
	MazeWidth   int           // Width of generated mazes
	MazeHeight  int           // Height of generated mazes
	RoomIdleTTL time.Duration // How long an empty room survives before reaping
}

// New loads configuration from the environment, reading a .env file when
// one is present. Every value has a default, so the server boots with no
// environment at all.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debugf(".env file not loaded: %v", err)
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		MazeWidth:   getEnvAsInt("MAZE_WIDTH", 10),
		MazeHeight:  getEnvAsInt("MAZE_HEIGHT", 10),
		RoomIdleTTL: time.Duration(getEnvAsInt("ROOM_IDLE_TTL", 300)) * time.Second,
	}
}

// getEnv retrieves an environment variable or falls back to a default.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer, falling back
// to a default when unset or unparsable.
func getEnvAsInt(key string, fallback int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warnf("environment variable %s is not an integer, using %d: %v", key, fallback, err)
		return fallback
	}
	return value
}
