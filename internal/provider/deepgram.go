package provider

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/murmurapp/murmur/internal/session"
	"github.com/murmurapp/murmur/internal/transcript"
)

// ErrMissingAPIKey indicates the Deepgram provider was selected without a key.
var ErrMissingAPIKey = errors.New("deepgram api key not configured (set DEEPGRAM_API_KEY)")

const (
	defaultDeepgramBaseURL = "https://api.deepgram.com/v1"
	defaultDeepgramModel   = "nova-2"
	defaultSampleRate      = 16000
)

// DeepgramConfig controls the Deepgram websocket connection.
type DeepgramConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Language   string
	SampleRate int
}

// Deepgram streams linear16 PCM over Deepgram's listen websocket. A reader
// goroutine folds interim and final messages into a transcript builder;
// FeedChunk surfaces the grown preview as partial results.
type Deepgram struct {
	cfg    DeepgramConfig
	logger *slog.Logger

	mu          sync.Mutex
	conn        *websocket.Conn
	readDone    chan struct{}
	readErr     error
	builder     transcript.Builder
	lastPreview string
}

func NewDeepgram(logger *slog.Logger, cfg DeepgramConfig) *Deepgram {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultDeepgramBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultDeepgramModel
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = defaultSampleRate
	}
	return &Deepgram{cfg: cfg, logger: logger}
}

func (d *Deepgram) Name() string { return IDDeepgram }

func (d *Deepgram) BeginSession(ctx context.Context) error {
	if strings.TrimSpace(d.cfg.APIKey) == "" {
		return ErrMissingAPIKey
	}

	wsURL, err := d.listenURL()
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("Authorization", "Token "+d.cfg.APIKey)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("connect to deepgram (status %s): %w", resp.Status, err)
		}
		return fmt.Errorf("connect to deepgram: %w", err)
	}

	d.mu.Lock()
	if d.conn != nil {
		d.mu.Unlock()
		_ = conn.Close()
		return errors.New("deepgram session already open")
	}
	d.conn = conn
	d.readErr = nil
	d.builder.Reset()
	d.lastPreview = ""
	done := make(chan struct{})
	d.readDone = done
	d.mu.Unlock()

	go d.readLoop(conn, done)
	return nil
}

func (d *Deepgram) FeedChunk(ctx context.Context, pcm []float32) (*session.Result, error) {
	d.mu.Lock()
	conn := d.conn
	readErr := d.readErr
	d.mu.Unlock()

	if conn == nil {
		return nil, errNoOpenSession
	}
	if readErr != nil {
		return nil, readErr
	}

	if len(pcm) > 0 {
		if err := conn.WriteMessage(websocket.BinaryMessage, encodeLinear16(pcm)); err != nil {
			return nil, fmt.Errorf("send audio: %w", err)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	preview := d.builder.Preview()
	if preview == "" || preview == d.lastPreview {
		return nil, nil
	}
	d.lastPreview = preview
	return &session.Result{Text: preview, IsPartial: true}, nil
}

func (d *Deepgram) EndSession(ctx context.Context) (session.Result, error) {
	d.mu.Lock()
	conn := d.conn
	done := d.readDone
	d.conn = nil
	d.readDone = nil
	d.mu.Unlock()

	if conn == nil {
		return session.Result{}, errNoOpenSession
	}

	// CloseStream tells the server to flush final results and close from its
	// side, which ends the read loop.
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"CloseStream"}`)); err != nil {
		d.logWarn("deepgram close stream write failed", err)
	}

	select {
	case <-done:
	case <-ctx.Done():
		_ = conn.Close()
		<-done
	}
	_ = conn.Close()

	d.mu.Lock()
	readErr := d.readErr
	text := transcript.Normalize(d.builder.Final())
	d.builder.Reset()
	d.lastPreview = ""
	d.mu.Unlock()

	if readErr != nil && text == "" {
		return session.Result{}, readErr
	}
	return session.Result{Text: text}, nil
}

func (d *Deepgram) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if !isExpectedClose(err) {
				d.recordErr(err)
			}
			return
		}

		var msg listenMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}

		if strings.EqualFold(msg.Type, "Error") {
			message := strings.TrimSpace(msg.Message)
			if message == "" {
				message = "deepgram returned an unknown error"
			}
			d.recordErr(errors.New(message))
			return
		}

		text := msg.transcript()
		if text == "" {
			continue
		}

		d.mu.Lock()
		if msg.IsFinal || msg.SpeechFinal {
			d.builder.Commit(text)
		} else {
			d.builder.Interim(text)
		}
		d.mu.Unlock()
	}
}

func (d *Deepgram) recordErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.readErr == nil {
		d.readErr = err
	}
}

func (d *Deepgram) listenURL() (string, error) {
	base := strings.TrimRight(strings.TrimSpace(d.cfg.BaseURL), "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}

	listen, err := url.Parse(base + "/listen")
	if err != nil {
		return "", fmt.Errorf("invalid deepgram base url: %w", err)
	}

	query := listen.Query()
	query.Set("model", d.cfg.Model)
	query.Set("encoding", "linear16")
	query.Set("sample_rate", strconv.Itoa(d.cfg.SampleRate))
	query.Set("channels", "1")
	query.Set("interim_results", "true")
	if d.cfg.Language != "" {
		query.Set("language", d.cfg.Language)
	}
	listen.RawQuery = query.Encode()
	return listen.String(), nil
}

func (d *Deepgram) logWarn(message string, err error) {
	if d.logger == nil {
		return
	}
	d.logger.Warn(message, "error", err.Error())
}

func isExpectedClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}

type listenMessage struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	IsFinal     bool   `json:"is_final"`
	SpeechFinal bool   `json:"speech_final"`

	Channel struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`
}

func (m listenMessage) transcript() string {
	if len(m.Channel.Alternatives) == 0 {
		return ""
	}
	return strings.TrimSpace(m.Channel.Alternatives[0].Transcript)
}

// encodeLinear16 converts normalized float samples to little-endian s16 PCM.
func encodeLinear16(pcm []float32) []byte {
	out := make([]byte, 2*len(pcm))
	for i, sample := range pcm {
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(math.Round(float64(sample)*32767))))
	}
	return out
}
