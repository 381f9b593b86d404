package session

import (
	"context"
	"sync"
)

// fakeSource scripts capture chunks through a buffered channel. StopCapture
// closes the channel so the feed loop drains buffered chunks and then sees
// the empty-chunk sentinel, matching real capture teardown ordering.
type fakeSource struct {
	mu       sync.Mutex
	feed     chan []float32
	started  bool
	stopped  bool
	startErr error
	stopErr  error
	readErr  error
}

func newFakeSource(chunks ...[]float32) *fakeSource {
	s := &fakeSource{feed: make(chan []float32, 32)}
	for _, chunk := range chunks {
		s.feed <- chunk
	}
	return s
}

func (s *fakeSource) StartCapture(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startErr != nil {
		return s.startErr
	}
	s.started = true
	return nil
}

func (s *fakeSource) StopCapture() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.stopped = true
		close(s.feed)
	}
	return s.stopErr
}

func (s *fakeSource) ReadMonoChunk(ctx context.Context) ([]float32, error) {
	s.mu.Lock()
	readErr := s.readErr
	s.mu.Unlock()
	if readErr != nil {
		return nil, readErr
	}

	select {
	case chunk, ok := <-s.feed:
		if !ok {
			return nil, nil
		}
		return chunk, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *fakeSource) wasStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *fakeSource) wasStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// fakeProvider records the streamed chunks and replays scripted partial
// results, one per fed chunk. When endStarted/endRelease are set, EndSession
// signals the former and parks until the latter closes, so tests can race
// other controller calls against an in-flight finalize.
type fakeProvider struct {
	mu         sync.Mutex
	beginErr   error
	feedErr    error
	endErr     error
	final      string
	partials   []string
	began      int
	ended      int
	fed        [][]float32
	endStarted chan struct{}
	endRelease chan struct{}
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) BeginSession(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.beginErr != nil {
		return p.beginErr
	}
	p.began++
	return nil
}

func (p *fakeProvider) FeedChunk(ctx context.Context, pcm []float32) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.feedErr != nil {
		return nil, p.feedErr
	}
	p.fed = append(p.fed, pcm)
	if len(p.fed) <= len(p.partials) {
		return &Result{Text: p.partials[len(p.fed)-1], IsPartial: true}, nil
	}
	return nil, nil
}

func (p *fakeProvider) EndSession(ctx context.Context) (Result, error) {
	p.mu.Lock()
	started := p.endStarted
	p.endStarted = nil
	release := p.endRelease
	p.mu.Unlock()
	if started != nil {
		close(started)
	}
	if release != nil {
		<-release
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.ended++
	if p.endErr != nil {
		return Result{}, p.endErr
	}
	return Result{Text: p.final}, nil
}

func (p *fakeProvider) endCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ended
}

func (p *fakeProvider) fedChunks() [][]float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]float32, len(p.fed))
	copy(out, p.fed)
	return out
}

// fakeInserter records every insertion attempt.
type fakeInserter struct {
	mu       sync.Mutex
	err      error
	inserted []string
}

func (i *fakeInserter) InsertText(ctx context.Context, text string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.err != nil {
		return i.err
	}
	i.inserted = append(i.inserted, text)
	return nil
}

func (i *fakeInserter) texts() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]string, len(i.inserted))
	copy(out, i.inserted)
	return out
}

// recordingObserver captures the snapshot stream for ordering assertions.
type recordingObserver struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recordingObserver) StateChanged(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recordingObserver) snapshots() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Snapshot, len(r.snaps))
	copy(out, r.snaps)
	return out
}
