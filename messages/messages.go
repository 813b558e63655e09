/*
Package messages defines the wire protocol spoken over the websocket: a
closed set of inbound client commands and a closed set of outbound server
events, one JSON object per frame.
*/
package messages

import (
	"encoding/json"
	"fmt"

	"github.com/beka-birhanu/labyrinth-duel/maze"
)

// Inbound command types.
const (
	TypeJoin = "join"
	TypeMove = "move"
)

// Outbound event types.
const (
	TypeConnected    = "connected"
	TypeMazeData     = "mazeData"
	TypePlayerJoined = "playerJoined"
	TypePlayerLeft   = "playerLeft"
	TypeGameState    = "gameState"
)

// ClientMessage is one decoded inbound frame.
type ClientMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId,omitempty"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
}

// Decode parses an inbound frame into the closed command set. Malformed
// payloads, non-integer coordinates and unknown types all return an error,
// so the caller can drop the frame without touching game state or the
// connection. Coordinates unmarshal into ints, which rejects floating
// values and keeps off-grid positions out of the system.
func Decode(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}

	switch msg.Type {
	case TypeJoin, TypeMove:
		return &msg, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", msg.Type)
	}
}

// ServerMessage is one outbound frame. Fields unused by a given event type
// stay empty and are omitted from the encoding.
type ServerMessage struct {
	Type    string    `json:"type"`
	Message string    `json:"message,omitempty"`
	Maze    *MazeData `json:"maze,omitempty"`
	Players []Player  `json:"players,omitempty"`
}

// Player is a player's authoritative grid position.
type Player struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

// MazeData is the full layout sent to a joining player.
type MazeData struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Cells  [][]Cell `json:"cells"`
}

// Cell mirrors maze.Cell on the wire.
type Cell struct {
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Top    bool `json:"top"`
	Right  bool `json:"right"`
	Bottom bool `json:"bottom"`
	Left   bool `json:"left"`
}

// NewMazeData converts a generated maze into its wire form.
func NewMazeData(m *maze.Maze) *MazeData {
	cells := make([][]Cell, m.Height)
	for y := 0; y < m.Height; y++ {
		cells[y] = make([]Cell, m.Width)
		for x := 0; x < m.Width; x++ {
			c := m.Grid[y][x]
			cells[y][x] = Cell{X: c.X, Y: c.Y, Top: c.Top, Right: c.Right, Bottom: c.Bottom, Left: c.Left}
		}
	}
	return &MazeData{Width: m.Width, Height: m.Height, Cells: cells}
}

// Connected tells a fresh connection its session ID.
func Connected(sessionID string) ServerMessage {
	return ServerMessage{Type: TypeConnected, Message: sessionID}
}

// MazeAssigned carries the full maze plus the current player list to a
// player that just joined a room.
func MazeAssigned(m *maze.Maze, players []Player) ServerMessage {
	return ServerMessage{Type: TypeMazeData, Maze: NewMazeData(m), Players: players}
}

// PlayerJoined announces a newcomer to the rest of the room.
func PlayerJoined(sessionID string, players []Player) ServerMessage {
	return ServerMessage{Type: TypePlayerJoined, Message: sessionID, Players: players}
}

// PlayerLeft announces a departure to the remaining members.
func PlayerLeft(sessionID string, players []Player) ServerMessage {
	return ServerMessage{Type: TypePlayerLeft, Message: sessionID, Players: players}
}

// GameState carries the authoritative positions of every player in a room.
func GameState(players []Player) ServerMessage {
	return ServerMessage{Type: TypeGameState, Players: players}
}
