// Package i holds the consumer-side interfaces of the service layer.
package i

import "github.com/beka-birhanu/labyrinth-duel/service"

// RoomDirectory is the registry of live rooms as consumed by the transport
// layer. Tests inject isolated instances instead of sharing process state.
type RoomDirectory interface {
	// GetOrCreate returns the room registered under the ID, creating it
	// with a freshly generated maze when absent.
	GetOrCreate(roomID string) (*service.Room, error)

	// Get returns the room registered under the ID, or nil.
	Get(roomID string) *service.Room

	// Stop halts background maintenance.
	Stop()
}
