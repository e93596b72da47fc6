package websocket

import (
	"encoding/json"
	"time"

	"reqmarket/pkg/logger"
)

const (
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
	MessageTypeSubscribe   = "subscribe"
	MessageTypeUnsubscribe = "unsubscribe"
	MessageTypeSubscribed  = "subscribed"
	MessageTypeEvent       = "event"
	MessageTypeError       = "error"
)

type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	RequestID int64       `json:"request_id,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type SubscriptionData struct {
	RequestIDs []int64 `json:"request_ids"`
}

type ErrorData struct {
	Message string `json:"message"`
}

func (c *Client) handleMessage(raw []byte) {
	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.reply(MessageTypeError, ErrorData{Message: "Invalid message format"})
		return
	}

	switch msg.Type {
	case MessageTypePing:
		c.reply(MessageTypePong, nil)

	case MessageTypeSubscribe:
		if msg.RequestID <= 0 {
			c.reply(MessageTypeError, ErrorData{Message: "request_id is required"})
			return
		}
		c.Subscribe(msg.RequestID)
		c.reply(MessageTypeSubscribed, c.subscriptionData())

	case MessageTypeUnsubscribe:
		c.Unsubscribe(msg.RequestID)
		c.reply(MessageTypeSubscribed, c.subscriptionData())

	default:
		c.reply(MessageTypeError, ErrorData{Message: "Unknown message type: " + msg.Type})
	}
}

func (c *Client) subscriptionData() SubscriptionData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]int64, 0, len(c.subscriptions))
	for id := range c.subscriptions {
		ids = append(ids, id)
	}
	return SubscriptionData{RequestIDs: ids}
}

func (c *Client) reply(msgType string, data interface{}) {
	payload, err := json.Marshal(WSMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("Failed to encode %s reply: %v", msgType, err)
		return
	}

	if !c.trySend(payload) {
		logger.Warn("WebSocket send buffer full for %s", c.UserID)
	}
}
