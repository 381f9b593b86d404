package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/murmurapp/murmur/internal/session"
)

var errNoOpenSession = errors.New("no open provider session")

// Placeholder is an offline backend that counts fed frames and fabricates a
// transcript from the count. It keeps the whole pipeline exercisable without
// credentials or network access.
type Placeholder struct {
	mu     sync.Mutex
	open   bool
	frames int
}

func NewPlaceholder() *Placeholder {
	return &Placeholder{}
}

func (p *Placeholder) Name() string { return IDPlaceholder }

func (p *Placeholder) BeginSession(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open {
		return errors.New("placeholder session already open")
	}
	p.open = true
	p.frames = 0
	return nil
}

func (p *Placeholder) FeedChunk(ctx context.Context, pcm []float32) (*session.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return nil, errNoOpenSession
	}
	p.frames += len(pcm)
	return nil, nil
}

func (p *Placeholder) EndSession(ctx context.Context) (session.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return session.Result{}, errNoOpenSession
	}
	p.open = false
	return session.Result{
		Text: fmt.Sprintf("Simulated transcript from %d frames.", p.frames),
	}, nil
}
