// Package wavsource streams PCM WAV audio as planar float64 blocks.
package wavsource

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// Errors returned by Open and NewReader.
var (
	ErrInvalidFile         = errors.New("wavsource: not a readable WAV file")
	ErrUnsupportedFormat   = errors.New("wavsource: only integer PCM is supported")
	ErrUnsupportedChannels = errors.New("wavsource: only mono and stereo are supported")
	ErrInvalidBlockSize    = errors.New("wavsource: block size must be positive")
)

// Reader decodes a WAV stream block by block. Mono files yield an empty
// right channel.
type Reader struct {
	dec    *wav.Decoder
	closer io.Closer

	channels   int
	bitDepth   int
	sampleRate float64
	duration   time.Duration
	scale      float64
	offset     int

	buf     *audio.IntBuffer
	pending []int
	left    []float64
	right   []float64
	frames  int64
	eof     bool
}

// Open opens the WAV file at path. blockSize is the number of frames
// returned per Next call.
func Open(path string, blockSize int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}

	r, err := NewReader(f, blockSize)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.closer = f

	return r, nil
}

// NewReader reads the WAV headers from rs.
func NewReader(rs io.ReadSeeker, blockSize int) (*Reader, error) {
	if blockSize < 1 {
		return nil, ErrInvalidBlockSize
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}
		return nil, ErrInvalidFile
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	channels := int(dec.NumChans)
	if channels > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedChannels, channels)
	}

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, bitDepth)
	}

	duration, err := dec.Duration()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	r := &Reader{
		dec:        dec,
		channels:   channels,
		bitDepth:   bitDepth,
		sampleRate: float64(dec.SampleRate),
		duration:   duration,
		scale:      1 / float64(int64(1)<<(bitDepth-1)),
		buf: &audio.IntBuffer{
			Data:   make([]int, blockSize*channels),
			Format: dec.Format(),
		},
		pending: make([]int, 0, 2*blockSize*channels),
		left:    make([]float64, blockSize),
	}
	if bitDepth == 8 {
		// 8-bit WAV samples are unsigned around 128.
		r.offset = 128
	}
	if channels == 2 {
		r.right = make([]float64, blockSize)
	}

	return r, nil
}

// SampleRate returns the stream rate in Hz.
func (r *Reader) SampleRate() float64 { return r.sampleRate }

// Channels returns 1 or 2.
func (r *Reader) Channels() int { return r.channels }

// BitDepth returns the bits per sample.
func (r *Reader) BitDepth() int { return r.bitDepth }

// Duration returns the stream length reported by the header.
func (r *Reader) Duration() time.Duration { return r.duration }

// BlockSize returns the frames per full block.
func (r *Reader) BlockSize() int { return len(r.left) }

// Frames returns the number of frames returned so far.
func (r *Reader) Frames() int64 { return r.frames }

// Next returns the next block scaled to [-1, 1). The last block may be
// short. At the end of the stream Next returns io.EOF. The slices are
// reused by the following call.
func (r *Reader) Next() (left, right []float64, err error) {
	want := len(r.left) * r.channels

	for !r.eof && len(r.pending) < want {
		n, err := r.dec.PCMBuffer(r.buf)
		if err != nil {
			return nil, nil, fmt.Errorf("decode pcm: %w", err)
		}
		if n == 0 {
			r.eof = true
			break
		}
		r.pending = append(r.pending, r.buf.Data[:n]...)
	}

	frames := min(len(r.pending), want) / r.channels
	if frames == 0 {
		return nil, nil, io.EOF
	}

	for i := range frames {
		base := i * r.channels
		r.left[i] = float64(r.pending[base]-r.offset) * r.scale
		if r.channels == 2 {
			r.right[i] = float64(r.pending[base+1]-r.offset) * r.scale
		}
	}

	used := frames * r.channels
	r.pending = append(r.pending[:0], r.pending[used:]...)
	r.frames += int64(frames)

	if r.channels == 1 {
		return r.left[:frames], nil, nil
	}

	return r.left[:frames], r.right[:frames], nil
}

// Close closes the file opened by Open. It is a no-op for NewReader.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}

	return r.closer.Close()
}
