package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/hoshinonyaruko/linkedlist-snake/session"
	"github.com/hoshinonyaruko/linkedlist-snake/structs"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// wsMessage is what a browser sends over the socket.
type wsMessage struct {
	Type      string `json:"type"` // direction, toggle, start, pause, reset
	Direction string `json:"direction,omitempty"`
}

// StreamHandler upgrades to a websocket, pushes a snapshot after every
// state change and accepts control messages from the client.
func StreamHandler(runner *session.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		defer conn.Close()

		frames, cancel := runner.Subscribe()
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				_, data, err := conn.ReadMessage()
				if err != nil {
					return
				}
				var msg wsMessage
				if err := json.Unmarshal(data, &msg); err != nil {
					continue
				}
				handleClientMessage(runner, msg)
			}
		}()

		for {
			select {
			case s, ok := <-frames:
				if !ok {
					conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
					return
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(s); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}
}

func handleClientMessage(runner *session.Runner, msg wsMessage) {
	switch msg.Type {
	case "direction":
		if d, ok := structs.ParseDirection(msg.Direction); ok {
			runner.SetDirection(d)
		}
	case "toggle":
		runner.Toggle()
	case "start":
		runner.Start()
	case "pause":
		runner.Pause()
	case "reset":
		runner.Reset()
	}
}
