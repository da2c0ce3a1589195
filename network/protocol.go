package network

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/lixenwraith/turret/engine"
)

// MessageType identifies the semantic meaning of a message
type MessageType string

const (
	MsgWelcome MessageType = "welcome" // Sent once on connect
	MsgFrame   MessageType = "frame"   // World snapshot
)

// Welcome greets a new spectator
type Welcome struct {
	Type    MessageType `msgpack:"type"`
	PeerID  uint32      `msgpack:"peerId"`
	Session string      `msgpack:"session"`
}

// PlayerWire is the player as seen by spectators
type PlayerWire struct {
	X      float32 `msgpack:"x"`
	Y      float32 `msgpack:"y"`
	Angle  float32 `msgpack:"a"`
	Radius float32 `msgpack:"r"`
	Pose   string  `msgpack:"pose"`
}

// BodyWire is a projectile or enemy
type BodyWire struct {
	ID     uint64  `msgpack:"id"`
	X      float32 `msgpack:"x"`
	Y      float32 `msgpack:"y"`
	Angle  float32 `msgpack:"a"`
	Radius float32 `msgpack:"r"`
}

// ParticleWire is a fading fragment; color packed as 0xRRGGBB
type ParticleWire struct {
	X     float32 `msgpack:"x"`
	Y     float32 `msgpack:"y"`
	Color uint32  `msgpack:"c"`
	Alpha float32 `msgpack:"al"`
}

// Frame is one broadcast snapshot
type Frame struct {
	Type        MessageType    `msgpack:"type"`
	Session     string         `msgpack:"session"`
	Tick        uint64         `msgpack:"tick"`
	State       string         `msgpack:"state"`
	Paused      bool           `msgpack:"paused,omitempty"`
	Score       int            `msgpack:"score"`
	Width       float32        `msgpack:"w"`
	Height      float32        `msgpack:"h"`
	Player      *PlayerWire    `msgpack:"player,omitempty"`
	Projectiles []BodyWire     `msgpack:"projectiles"`
	Enemies     []BodyWire     `msgpack:"enemies"`
	Particles   []ParticleWire `msgpack:"particles"`
}

// NewFrame converts a snapshot to its wire form
func NewFrame(session string, snap engine.Snapshot) *Frame {
	f := &Frame{
		Type:        MsgFrame,
		Session:     session,
		Tick:        snap.Tick,
		State:       snap.State.String(),
		Paused:      snap.Paused,
		Score:       snap.Score,
		Width:       float32(snap.Bounds.Width),
		Height:      float32(snap.Bounds.Height),
		Projectiles: make([]BodyWire, 0, len(snap.Projectiles)),
		Enemies:     make([]BodyWire, 0, len(snap.Enemies)),
		Particles:   make([]ParticleWire, 0, len(snap.Particles)),
	}

	if p := snap.Player; p != nil {
		f.Player = &PlayerWire{
			X:      float32(p.Pos.X),
			Y:      float32(p.Pos.Y),
			Angle:  float32(p.Angle),
			Radius: float32(p.Radius),
			Pose:   p.Pose.String(),
		}
	}
	for _, p := range snap.Projectiles {
		f.Projectiles = append(f.Projectiles, BodyWire{
			ID: uint64(p.ID), X: float32(p.Pos.X), Y: float32(p.Pos.Y), Angle: float32(p.Angle), Radius: float32(p.Radius),
		})
	}
	for _, e := range snap.Enemies {
		f.Enemies = append(f.Enemies, BodyWire{
			ID: uint64(e.ID), X: float32(e.Pos.X), Y: float32(e.Pos.Y), Angle: float32(e.Angle), Radius: float32(e.Radius),
		})
	}
	for _, p := range snap.Particles {
		f.Particles = append(f.Particles, ParticleWire{
			X:     float32(p.Pos.X),
			Y:     float32(p.Pos.Y),
			Color: uint32(p.Color.R)<<16 | uint32(p.Color.G)<<8 | uint32(p.Color.B),
			Alpha: float32(p.Alpha),
		})
	}
	return f
}

// EncodeFrame serializes a snapshot for spectators
func EncodeFrame(session string, snap engine.Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(NewFrame(session, snap))
	if err != nil {
		return nil, fmt.Errorf("encode frame %d: %w", snap.Tick, err)
	}
	return data, nil
}

// DecodeFrame parses a frame message
func DecodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if f.Type != MsgFrame {
		return nil, fmt.Errorf("decode frame: unexpected message type %q", f.Type)
	}
	return &f, nil
}

// EncodeWelcome serializes the greeting
func EncodeWelcome(id PeerID, session string) ([]byte, error) {
	return msgpack.Marshal(&Welcome{Type: MsgWelcome, PeerID: uint32(id), Session: session})
}
