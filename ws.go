package social_sdk

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time 写入超时时间
	writeWait = 10 * time.Second

	// Time pong超时时间
	pongWait = 60 * time.Second

	// Send 对应的ping 必须小于pong
	pingPeriod = (pongWait * 9) / 10

	// Maximum 对等端允许消息大小
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for SDK
	},
}

// Client 代表某个具体 websocket 连接。
// 通知通道是单向下行的：服务端推，客户端只发 ping 维持连接。
type Client struct {
	hub *WsServer

	conn *websocket.Conn

	// 消息缓冲区
	send chan []byte

	// UserID 和用户关联
	UserID uint64
}

// readPump 消费对端消息。下行通道不处理业务帧，只维持读超时。
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { _ = c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("readPump error: %v", err)
			}
			break
		}
	}
}

// writePump 将消息从hub写到具体的client。
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)

			// 一次性发送管道剩余全部的消息，不重新走message, ok := <-c.send，提升性能
			n := len(c.send)
			for i := 0; i < n; i++ {
				_, _ = w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("writePump 写入ping失败")
				return
			}
		}
	}
}

type WsServer struct {
	clients map[*Client]bool
	// 用户ID -> 该用户所有活跃的Websocket连接（支持多设备）
	userClients map[uint64][]*Client

	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewWsServer() *WsServer {
	return &WsServer{
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		clients:     make(map[*Client]bool),
		userClients: make(map[uint64][]*Client),
	}
}

func (h *WsServer) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)

				if userConns, exists := h.userClients[client.UserID]; exists {
					for i, conn := range userConns {
						if conn == client {
							h.userClients[client.UserID] = append(userConns[:i], userConns[i+1:]...)
							break
						}
					}
					if len(h.userClients[client.UserID]) == 0 {
						delete(h.userClients, client.UserID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendToUser 向某用户的全部在线连接推送（不在线则静默丢弃，通知已落库可拉取）。
func (h *WsServer) SendToUser(userID uint64, message []byte) {
	h.mu.RLock()
	conns := append([]*Client(nil), h.userClients[userID]...)
	h.mu.RUnlock()

	for _, client := range conns {
		select {
		case client.send <- message:
		default:
			// 发送缓冲满：连接已卡死，交给 unregister 清理
			h.unregister <- client
		}
	}
}

// OnlineCount 当前在线连接数。
func (h *WsServer) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS 升级 HTTP 连接为 WebSocket，userID 由调用方鉴权后传入。
func (h *WsServer) ServeWS(w http.ResponseWriter, r *http.Request, userID uint64) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade: %v", err)
		return
	}
	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		UserID: userID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}
