package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

const (
	// SampleRate is the capture rate expected by the transcription backends.
	SampleRate = 16000
	// chunkFrames is 20ms of mono audio at SampleRate.
	chunkFrames = 320
)

var (
	// ErrAlreadyCapturing indicates StartCapture was called while active.
	ErrAlreadyCapturing = errors.New("audio capture already started")
	// ErrNotCapturing indicates a stop or read without an active capture.
	ErrNotCapturing = errors.New("audio capture not started")
)

// Source captures 16kHz mono float32 PCM from a Pulse input and hands it out
// as fixed-size chunks. After StopCapture, reads drain buffered chunks and
// then return the empty chunk that marks end of stream.
type Source struct {
	deviceTerm string

	mu      sync.Mutex
	client  *pulse.Client
	stream  *pulse.RecordStream
	chunks  chan []float32
	pending []float32
	tail    []float32
	active  bool
	stopCh  chan struct{}

	inflight sync.WaitGroup
}

// NewSource prepares a capture source for the configured device term. The
// Pulse connection is opened per capture in StartCapture.
func NewSource(deviceTerm string) *Source {
	return &Source{deviceTerm: deviceTerm}
}

func (s *Source) StartCapture(ctx context.Context) error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return ErrAlreadyCapturing
	}
	s.mu.Unlock()

	client, err := pulse.NewClient(
		pulse.ClientApplicationName("murmur"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return fmt.Errorf("connect pulse server: %w", err)
	}

	source, err := s.resolveSource(client)
	if err != nil {
		client.Close()
		return err
	}

	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		client.Close()
		return ErrAlreadyCapturing
	}
	s.client = client
	s.chunks = make(chan []float32, 128)
	s.pending = nil
	s.tail = nil
	s.stopCh = make(chan struct{})
	s.active = true
	s.mu.Unlock()

	writer := pulse.NewWriter(writerFunc(s.onPCM), pulseproto.FormatFloat32LE)
	stream, err := client.NewRecord(
		writer,
		pulse.RecordSource(source),
		pulse.RecordMono,
		pulse.RecordSampleRate(SampleRate),
		pulse.RecordBufferFragmentSize(chunkFrames*4),
		pulse.RecordMediaName("murmur dictation"),
	)
	if err != nil {
		_ = s.StopCapture()
		return fmt.Errorf("create pulse record stream: %w", err)
	}

	s.mu.Lock()
	s.stream = stream
	s.mu.Unlock()
	stream.Start()
	return nil
}

// StopCapture halts the stream, flushes the residual partial chunk, and
// closes the chunk channel exactly once.
func (s *Source) StopCapture() error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return ErrNotCapturing
	}
	s.active = false
	close(s.stopCh)
	stream := s.stream
	client := s.client
	s.stream = nil
	s.client = nil
	s.mu.Unlock()

	if stream != nil {
		stream.Stop()
		stream.Close()
	}
	if client != nil {
		client.Close()
	}

	s.inflight.Wait()

	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	chunks := s.chunks
	s.mu.Unlock()

	if len(pending) > 0 {
		select {
		case chunks <- pending:
		default:
			// Buffer full: park the residue so the drain hands it out after
			// the buffered chunks instead of losing the recording's tail.
			s.mu.Lock()
			s.tail = pending
			s.mu.Unlock()
		}
	}
	close(chunks)
	return nil
}

// ReadMonoChunk blocks for the next chunk in capture order. A nil chunk with
// a nil error means the capture stopped and its buffer is fully drained.
func (s *Source) ReadMonoChunk(ctx context.Context) ([]float32, error) {
	s.mu.Lock()
	chunks := s.chunks
	s.mu.Unlock()
	if chunks == nil {
		return nil, ErrNotCapturing
	}

	select {
	case chunk, ok := <-chunks:
		if !ok {
			s.mu.Lock()
			tail := s.tail
			s.tail = nil
			s.mu.Unlock()
			if len(tail) > 0 {
				return tail, nil
			}
			return nil, nil
		}
		return chunk, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Source) resolveSource(client *pulse.Client) (*pulse.Source, error) {
	term := s.deviceTerm
	if term == "" || term == "default" {
		source, err := client.DefaultSource()
		if err != nil {
			return nil, fmt.Errorf("read default source: %w", err)
		}
		return source, nil
	}
	source, err := client.SourceByID(term)
	if err != nil {
		return nil, fmt.Errorf("resolve source %q: %w", term, err)
	}
	return source, nil
}

// onPCM receives raw float32le frames from Pulse and emits fixed chunks.
func (s *Source) onPCM(buffer []byte) (int, error) {
	if len(buffer) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return 0, io.EOF
	}
	// Add under the same mutex as s.active so Stop's Wait never races it.
	s.inflight.Add(1)

	s.pending = append(s.pending, decodeFloat32LE(buffer)...)
	var out [][]float32
	for len(s.pending) >= chunkFrames {
		chunk := make([]float32, chunkFrames)
		copy(chunk, s.pending[:chunkFrames])
		s.pending = s.pending[chunkFrames:]
		out = append(out, chunk)
	}
	chunks := s.chunks
	stopCh := s.stopCh
	s.mu.Unlock()
	defer s.inflight.Done()

	for _, chunk := range out {
		select {
		case <-stopCh:
			return 0, io.EOF
		case chunks <- chunk:
		}
	}

	return len(buffer), nil
}

func decodeFloat32LE(buffer []byte) []float32 {
	samples := make([]float32, 0, len(buffer)/4)
	for i := 0; i+4 <= len(buffer); i += 4 {
		bits := binary.LittleEndian.Uint32(buffer[i:])
		samples = append(samples, math.Float32frombits(bits))
	}
	return samples
}

// writerFunc lets onPCM act as the io.Writer behind pulse.NewWriter.
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) {
	return f(b)
}
