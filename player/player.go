// Package player drives the decode and conversion loop and hands the first
// converted frame to a renderer.
//
// The loop is a small explicit state machine rather than nested iteration:
// every "need more input" signal from the decoder or the filter graph maps
// to a state transition, which keeps early exits and cleanup on every path
// easy to reason about. The run is single-shot: exactly one frame is ever
// displayed, then the loop stops.
package player

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"

	"go.jacobcolvin.com/asciiframe/filter"
	"go.jacobcolvin.com/asciiframe/media"
	"go.jacobcolvin.com/asciiframe/render"
)

var (
	// ErrRead indicates a packet could not be read from the container.
	ErrRead = errors.New("reading packet")
	// ErrDecode indicates the decoder failed on a packet or frame.
	ErrDecode = errors.New("decoding frame")
	// ErrNoFrameProduced indicates the stream ended before any frame could
	// be displayed. Distinct from success.
	ErrNoFrameProduced = errors.New("no frame produced")
)

// Decoder yields packets and decoded frames from an opened source.
// [media.Source] implements it.
type Decoder interface {
	Stream() media.Stream
	ReadPacket(*astiav.Packet) error
	SendPacket(*astiav.Packet) error
	ReceiveFrame(*astiav.Frame) error
	Close()
}

// Converter transforms decoded frames into grayscale frames of the planned
// grid size. Pull returns [filter.ErrNeedMoreInput] when another decoded
// frame must be pushed first. [filter.Pipeline] implements it.
type Converter interface {
	Push(*astiav.Frame) error
	Pull(*astiav.Frame) error
	Close()
}

// Renderer displays one converted frame.
// [render.Renderer] implements it.
type Renderer interface {
	Render(*render.Frame) error
}

// state enumerates the frame pump's control states.
type state int

const (
	stateAwaitPacket state = iota
	stateDecoding
	stateFiltering
	stateDone
)

// Player owns the frame buffers and drives packets from a [Decoder] through
// a [Converter] to a [Renderer].
//
// Create instances with [New] and release them with [Player.Close].
type Player struct {
	dec      Decoder
	conv     Converter
	renderer Renderer

	pkt       *astiav.Packet
	decoded   *astiav.Frame
	converted *astiav.Frame

	// sent tracks whether the current packet has been submitted to the
	// decoder, so re-entering the decoding state only drains frames.
	sent   bool
	closed bool
}

// New creates a [Player]. On success the player takes ownership of dec and
// conv; [Player.Close] releases them along with the frame buffers.
func New(dec Decoder, conv Converter, r Renderer) (*Player, error) {
	pkt := astiav.AllocPacket()
	decoded := astiav.AllocFrame()
	converted := astiav.AllocFrame()

	if pkt == nil || decoded == nil || converted == nil {
		if pkt != nil {
			pkt.Free()
		}

		if decoded != nil {
			decoded.Free()
		}

		if converted != nil {
			converted.Free()
		}

		return nil, errors.New("allocating frame buffers")
	}

	return &Player{
		dec:       dec,
		conv:      conv,
		renderer:  r,
		pkt:       pkt,
		decoded:   decoded,
		converted: converted,
	}, nil
}

// ShowFirstFrame pumps the decode loop until one converted frame has been
// rendered. It returns [ErrNoFrameProduced] if the stream ends first, and a
// terminal error for any read, decode, or filter failure. All such errors
// end the run; the only locally absorbed signals are the decoder's and
// filter graph's "need more input".
func (p *Player) ShowFirstFrame() error {
	videoIndex := p.dec.Stream().Index

	st := stateAwaitPacket

	for st != stateDone {
		switch st {
		case stateAwaitPacket:
			p.pkt.Unref()

			err := p.dec.ReadPacket(p.pkt)
			if errors.Is(err, astiav.ErrEof) {
				return ErrNoFrameProduced
			}

			if err != nil {
				return fmt.Errorf("%w: %w", ErrRead, err)
			}

			if p.pkt.StreamIndex() != videoIndex {
				continue
			}

			p.sent = false
			st = stateDecoding

		case stateDecoding:
			if !p.sent {
				err := p.dec.SendPacket(p.pkt)
				if err != nil && !errors.Is(err, astiav.ErrEagain) && !errors.Is(err, astiav.ErrEof) {
					return fmt.Errorf("%w: %w", ErrDecode, err)
				}

				p.sent = true
			}

			err := p.dec.ReceiveFrame(p.decoded)
			if errors.Is(err, astiav.ErrEagain) || errors.Is(err, astiav.ErrEof) {
				st = stateAwaitPacket

				continue
			}

			if err != nil {
				return fmt.Errorf("%w: %w", ErrDecode, err)
			}

			st = stateFiltering

		case stateFiltering:
			// Some decoders leave the frame PTS unset; fall back to the
			// packet DTS, the same best-effort timestamp FFmpeg derives.
			if p.decoded.Pts() == astiav.NoPtsValue {
				p.decoded.SetPts(p.decoded.PktDts())
			}

			// The graph keeps its own reference; the decoded frame
			// stays owned here and is released below.
			err := p.conv.Push(p.decoded)
			if err != nil {
				p.decoded.Unref()

				return err
			}

			err = p.conv.Pull(p.converted)
			p.decoded.Unref()

			if err != nil {
				if errors.Is(err, filter.ErrNeedMoreInput) {
					st = stateDecoding

					continue
				}

				return err
			}

			err = p.display()
			if err != nil {
				return err
			}

			st = stateDone

		case stateDone:
			return nil
		}
	}

	return nil
}

// display copies the converted frame out of the library, releases it, and
// renders it.
func (p *Player) display() error {
	f, err := grayFrame(p.converted)
	p.converted.Unref()

	if err != nil {
		return err
	}

	err = p.renderer.Render(f)
	if err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}

	return nil
}

// Close tears everything down in reverse acquisition order: conversion
// pipeline, then decoder and container, then frame buffers. Safe to call
// once; calls after the first are no-ops.
func (p *Player) Close() {
	if p.closed {
		return
	}

	p.closed = true

	p.conv.Close()
	p.dec.Close()
	p.converted.Free()
	p.decoded.Free()
	p.pkt.Free()
}

// grayFrame copies a gray8 frame into a tightly packed [render.Frame].
func grayFrame(f *astiav.Frame) (*render.Frame, error) {
	w, h := f.Width(), f.Height()

	pix, err := f.Data().Bytes(1)
	if err != nil {
		return nil, fmt.Errorf("copying converted frame: %w", err)
	}

	if len(pix) < w*h {
		return nil, fmt.Errorf("converted frame buffer too small: %d bytes for %dx%d", len(pix), w, h)
	}

	return &render.Frame{
		Pix:    pix,
		Width:  w,
		Height: h,
		Stride: w,
	}, nil
}
