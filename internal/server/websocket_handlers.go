package server

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FeedWebsocketHandler handles GET /api/ws/feed: a read-only stream of feed
// events. The feed is public, so unauthenticated viewers may subscribe; an
// optional token only tags the connection with the viewer's id.
func (s *Server) FeedWebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		viewer, _ := conn.Locals("userID").(string)

		client, err := s.hub.Register(conn, viewer)
		if err != nil {
			log.Printf("WebSocket Feed: failed to register viewer %q: %v", viewer, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}
