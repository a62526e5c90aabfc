package live

import "github.com/recera/graphview/pkg/viewport"

// MessageType represents the type of binary live protocol frame
type MessageType uint8

const (
	// FramePatches carries a batch of svg patches
	FramePatches MessageType = 0x00
)

// Text message types
const (
	MsgHello    = "hello"
	MsgViewport = "viewport"
	MsgRendered = "rendered"
	MsgResync   = "resync"
)

// ClientMessage is a JSON text message sent by the browser
type ClientMessage struct {
	Type         string `json:"type"`
	ClientWidth  int    `json:"clientWidth"`
	ClientHeight int    `json:"clientHeight"`
	InnerWidth   int    `json:"innerWidth"`
	InnerHeight  int    `json:"innerHeight"`
}

// Size converts a viewport message to a viewport size
func (m ClientMessage) Size() viewport.Size {
	return viewport.Size{
		ClientWidth:  m.ClientWidth,
		ClientHeight: m.ClientHeight,
		InnerWidth:   m.InnerWidth,
		InnerHeight:  m.InnerHeight,
	}
}

// ServerMessage is a JSON text message sent to the browser
type ServerMessage struct {
	Type    string  `json:"type"`
	Session string  `json:"session,omitempty"`
	Seq     uint64  `json:"seq,omitempty"`
	Radius  float64 `json:"radius,omitempty"`
}
