/*
Package api exposes the server's external surface: the websocket endpoint
that drives rooms and fans the resulting state back out to every connection
bound to them.
*/
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/beka-birhanu/labyrinth-duel/messages"
	"github.com/beka-birhanu/labyrinth-duel/service/i"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
	// pingPeriod must be shorter than pongWait so a healthy peer always
	// refreshes its read deadline in time.
	pingPeriod = 54 * time.Second

	sendBufferSize = 16
)

// Server owns every live websocket connection and dispatches decoded
// commands onto rooms.
type Server struct {
	directory i.RoomDirectory
	logger    *log.Logger
	upgrader  websocket.Upgrader

	clients map[string]*Client
	mu      sync.RWMutex
}

// Client is one connected peer. All writes to the connection go through
// send and are drained by a single writer goroutine, so racing producers (a
// local move and a remote peer's join, say) never interleave frames.
type Client struct {
	ID     string
	RoomID string // empty until the first successful join; guarded by Server.mu

	conn      *websocket.Conn
	send      chan messages.ServerMessage
	closeOnce sync.Once
}

// NewServer creates a websocket server over the given room directory.
func NewServer(directory i.RoomDirectory, logger *log.Logger) *Server {
	return &Server{
		directory: directory,
		logger:    logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*Client),
	}
}

// HandleWS upgrades the request and runs the connection until the peer goes
// away. Every connection gets a session ID, a writer goroutine and a
// blocking read loop; room membership is cleaned up on the way out.
func (s *Server) HandleWS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Warnf("websocket upgrade: %v", err)
			return
		}

		client := &Client{
			ID:   uuid.New().String(),
			conn: conn,
			send: make(chan messages.ServerMessage, sendBufferSize),
		}
		s.register(client)
		go s.writePump(client)

		s.logger.Infof("client %s connected", client.ID)
		s.enqueue(client, messages.Connected(client.ID))

		s.readPump(client)
		s.disconnect(client)
	}
}

// ClientCount returns the number of live connections.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// readPump is the per-connection read loop. A transport error of any kind
// ends the connection; malformed frames are dropped and the loop keeps
// going. Pongs refresh the read deadline, so a peer that stops responding
// is detected and unwound through the normal disconnect path.
func (s *Server) readPump(client *Client) {
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warnf("client %s read: %v", client.ID, err)
			}
			return
		}

		msg, err := messages.Decode(frame)
		if err != nil {
			s.logger.Warnf("client %s sent an undecodable frame: %v", client.ID, err)
			continue
		}

		switch msg.Type {
		case messages.TypeJoin:
			s.handleJoin(client, msg)
		case messages.TypeMove:
			s.handleMove(client, msg)
		}
	}
}

// writePump is the single writer for one connection. It drains send and
// keeps the peer alive with pings; once it cannot write, it closes the
// connection and readPump unwinds the session.
func (s *Server) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := client.conn.WriteJSON(msg); err != nil {
				s.logger.Warnf("client %s write: %v", client.ID, err)
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleJoin binds the connection to a room for the rest of its lifetime.
// The joiner gets the full maze plus the current player list; everyone else
// in the room learns about the newcomer. A join to a full room is dropped:
// the outbound set has no rejection frame, so rejection is silent.
func (s *Server) handleJoin(client *Client, msg *messages.ClientMessage) {
	if client.RoomID != "" {
		s.logger.Warnf("client %s is already in room %s, join ignored", client.ID, client.RoomID)
		return
	}
	if msg.RoomID == "" {
		s.logger.Warnf("client %s sent a join without a room ID", client.ID)
		return
	}

	room, err := s.directory.GetOrCreate(msg.RoomID)
	if err != nil {
		s.logger.Errorf("room %s: %v", msg.RoomID, err)
		return
	}
	if err := room.AddPlayer(client.ID, 0, 0); err != nil {
		s.logger.Warnf("client %s rejected from room %s: %v", client.ID, msg.RoomID, err)
		return
	}
	s.bindRoom(client, msg.RoomID)
	s.logger.Infof("client %s joined room %s", client.ID, msg.RoomID)

	players := room.Snapshot()
	s.enqueue(client, messages.MazeAssigned(room.Maze, players))
	s.broadcast(msg.RoomID, messages.PlayerJoined(client.ID, players), client.ID)
}

// handleMove validates the requested step. Accepted moves are broadcast to
// the whole room, mover included, so every client reconciles against the
// authoritative position; rejected moves produce no traffic at all and the
// next snapshot corrects any local prediction.
func (s *Server) handleMove(client *Client, msg *messages.ClientMessage) {
	if client.RoomID == "" {
		return
	}
	room := s.directory.Get(client.RoomID)
	if room == nil {
		return
	}

	if !room.TryMove(client.ID, msg.X, msg.Y) {
		s.logger.Debugf("client %s rejected move to (%d, %d)", client.ID, msg.X, msg.Y)
		return
	}

	s.broadcast(client.RoomID, messages.GameState(room.Snapshot()), "")
}

// disconnect tears down a connection: registry entry, room membership, and
// one playerLeft broadcast to whoever is still in the room.
func (s *Server) disconnect(client *Client) {
	s.unregister(client)

	if client.RoomID == "" {
		s.logger.Infof("client %s disconnected", client.ID)
		return
	}
	s.logger.Infof("client %s disconnected from room %s", client.ID, client.RoomID)

	room := s.directory.Get(client.RoomID)
	if room == nil {
		return
	}
	room.RemovePlayer(client.ID)
	s.broadcast(client.RoomID, messages.PlayerLeft(client.ID, room.Snapshot()), "")
}

func (s *Server) register(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client.ID] = client
}

func (s *Server) unregister(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.clients, client.ID)
	client.closeOnce.Do(func() { close(client.send) })
}

func (s *Server) bindRoom(client *Client, roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client.RoomID = roomID
}

// broadcast queues a frame for every client bound to roomID, except
// excludeID when non-empty. Delivery order across recipients is
// best-effort; every frame carries a full snapshot, so stale interleavings
// self-correct on the next update.
func (s *Server) broadcast(roomID string, msg messages.ServerMessage, excludeID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.clients {
		if c.RoomID != roomID || c.ID == excludeID {
			continue
		}
		s.enqueue(c, msg)
	}
}

// enqueue hands a frame to the client's writer goroutine. A full buffer
// means the peer has stopped draining; the frame is dropped rather than
// blocking the room, since the next full snapshot supersedes it.
func (s *Server) enqueue(client *Client, msg messages.ServerMessage) {
	select {
	case client.send <- msg:
	default:
		s.logger.Warnf("client %s send buffer full, dropping %s", client.ID, msg.Type)
	}
}
