// Package media opens containers and prepares a video decoder through
// [github.com/asticode/go-astiav] (FFmpeg).
//
// A [Source] owns the demuxer and the decoder for the selected video stream.
// All container parsing and bitstream decoding happens inside the library;
// this package only selects the stream, binds a decoder to it, and exposes
// the metadata downstream stages need.
package media

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
)

var (
	// ErrOpen indicates the source could not be read or its container could
	// not be parsed.
	ErrOpen = errors.New("opening input")
	// ErrProbe indicates stream information could not be determined.
	ErrProbe = errors.New("probing streams")
	// ErrNoVideoStream indicates the container holds no decodable video
	// stream.
	ErrNoVideoStream = errors.New("no video stream")
	// ErrDecoderInit indicates the decoder could not be initialized.
	ErrDecoderInit = errors.New("initializing decoder")
)

// Stream describes the selected video stream. Immutable once the source is
// opened.
type Stream struct {
	Index             int
	Width             int
	Height            int
	PixelFormat       astiav.PixelFormat
	SampleAspectRatio astiav.Rational
	TimeBase          astiav.Rational
}

// Source is an opened media container with a decoder bound to its best video
// stream.
//
// A Source is not safe for concurrent use; a single control flow owns it.
// Create instances with [Open] and release them with [Source.Close].
type Source struct {
	fc     *astiav.FormatContext
	cc     *astiav.CodecContext
	stream Stream
	closed bool
}

// SetLogVerbosity adjusts FFmpeg's own log output. The library is quiet by
// default so diagnostics don't interleave with the rendered frame.
func SetLogVerbosity(verbose bool) {
	if verbose {
		astiav.SetLogLevel(astiav.LogLevelInfo)

		return
	}

	astiav.SetLogLevel(astiav.LogLevelQuiet)
}

// Open opens the container at path, probes its streams, selects the best
// video stream, and opens a decoder for it. The returned [Source] must be
// closed exactly once, on every path, success or failure downstream.
func Open(path string) (*Source, error) {
	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, fmt.Errorf("%w: allocating format context", ErrOpen)
	}

	err := fc.OpenInput(path, nil, nil)
	if err != nil {
		fc.Free()

		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}

	err = fc.FindStreamInfo(nil)
	if err != nil {
		fc.CloseInput()
		fc.Free()

		return nil, fmt.Errorf("%w: %w", ErrProbe, err)
	}

	st, dec := bestVideoStream(fc)
	if st == nil {
		fc.CloseInput()
		fc.Free()

		return nil, fmt.Errorf("%w in %s", ErrNoVideoStream, path)
	}

	cc := astiav.AllocCodecContext(dec)
	if cc == nil {
		fc.CloseInput()
		fc.Free()

		return nil, fmt.Errorf("%w: allocating codec context", ErrDecoderInit)
	}

	err = st.CodecParameters().ToCodecContext(cc)
	if err != nil {
		cc.Free()
		fc.CloseInput()
		fc.Free()

		return nil, fmt.Errorf("%w: %w", ErrDecoderInit, err)
	}

	err = cc.Open(dec, nil)
	if err != nil {
		cc.Free()
		fc.CloseInput()
		fc.Free()

		return nil, fmt.Errorf("%w: %w", ErrDecoderInit, err)
	}

	return &Source{
		fc: fc,
		cc: cc,
		stream: Stream{
			Index:             st.Index(),
			Width:             cc.Width(),
			Height:            cc.Height(),
			PixelFormat:       cc.PixelFormat(),
			SampleAspectRatio: cc.SampleAspectRatio(),
			TimeBase:          st.TimeBase(),
		},
	}, nil
}

// bestVideoStream picks the video stream with the largest pixel area,
// breaking ties by bit rate, among streams with an available decoder.
func bestVideoStream(fc *astiav.FormatContext) (*astiav.Stream, *astiav.Codec) {
	var (
		best     *astiav.Stream
		bestDec  *astiav.Codec
		bestArea int64
		bestRate int64
	)

	for _, s := range fc.Streams() {
		par := s.CodecParameters()
		if par.MediaType() != astiav.MediaTypeVideo {
			continue
		}

		dec := astiav.FindDecoder(par.CodecID())
		if dec == nil {
			continue
		}

		area := int64(par.Width()) * int64(par.Height())
		rate := par.BitRate()

		if best == nil || better(area, rate, bestArea, bestRate) {
			best = s
			bestDec = dec
			bestArea = area
			bestRate = rate
		}
	}

	return best, bestDec
}

// better reports whether a stream with the given pixel area and bit rate
// beats the current best. Larger area wins; bit rate breaks ties.
func better(area, rate, bestArea, bestRate int64) bool {
	if area != bestArea {
		return area > bestArea
	}

	return rate > bestRate
}

// Stream returns the selected video stream's descriptor.
func (s *Source) Stream() Stream {
	return s.stream
}

// ReadPacket reads the next packet from the container into pkt. It returns
// the library's error unchanged so callers can distinguish end-of-stream
// ([astiav.ErrEof]) from read failures.
func (s *Source) ReadPacket(pkt *astiav.Packet) error {
	return s.fc.ReadFrame(pkt) //nolint:wrapcheck // Callers inspect astiav sentinels.
}

// SendPacket submits a compressed packet to the decoder.
func (s *Source) SendPacket(pkt *astiav.Packet) error {
	return s.cc.SendPacket(pkt) //nolint:wrapcheck // Callers inspect astiav sentinels.
}

// ReceiveFrame retrieves the next decoded frame from the decoder.
// [astiav.ErrEagain] means more packets are needed first.
func (s *Source) ReceiveFrame(f *astiav.Frame) error {
	return s.cc.ReceiveFrame(f) //nolint:wrapcheck // Callers inspect astiav sentinels.
}

// Close releases the decoder, then the container. Safe to call once; calls
// after the first are no-ops.
func (s *Source) Close() {
	if s.closed {
		return
	}

	s.closed = true

	s.cc.Free()
	s.fc.CloseInput()
	s.fc.Free()
}
