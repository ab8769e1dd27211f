// Package nats provides a NATS-backed report sink: per-method statistics
// snapshots are published as JSON messages on a subject per marker, so a
// remote collector can observe reports without the process exposing anything
// itself.
package nats

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	natsgo "github.com/nats-io/nats.go"

	"github.com/chief111elf/proxymetrics/core/intercept"
	"github.com/chief111elf/proxymetrics/internal/codec"
)

// SinkConfig configures a Sink.
type SinkConfig struct {
	Connect       Connector    // Connect creates the NATS connection. If nil, ConnectDefault() is used.
	Log           *slog.Logger // Log for diagnostics (optional)
	SubjectPrefix string       // SubjectPrefix for report subjects, e.g. "proxymetrics" -> proxymetrics.report.<marker>
	Codec         codec.Codec  // Payload encoding. If nil, compact JSON.
}

// Sink publishes statistics reports to NATS.
type Sink struct {
	nc      *natsgo.Conn
	closeNc closeFunc
	log     *slog.Logger
	prefix  string
	codec   codec.Codec

	closed atomic.Bool
}

// Report is the wire payload for one published report.
type Report struct {
	Marker  string                  `json:"marker"`
	SentAt  time.Time               `json:"sent_at"`
	Methods []intercept.MethodStats `json:"methods"`
}

// NewSink connects and returns a Sink.
func NewSink(cfg SinkConfig) (*Sink, error) {
	connFn := cfg.Connect
	if connFn == nil {
		connFn = ConnectDefault()
	}

	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	c := cfg.Codec
	if c == nil {
		c = codec.JSONCodec{}
	}

	nc, closeNc, err := connFn()
	if err != nil {
		return nil, err
	}

	return &Sink{
		nc:      nc,
		closeNc: closeNc,
		log:     log.With(slog.String("sink", "nats")),
		prefix:  cfg.SubjectPrefix,
		codec:   c,
	}, nil
}

// subjectReport returns the subject used for a marker's reports.
func (s *Sink) subjectReport(marker string) string {
	p := s.prefix
	if p == "" {
		p = "proxymetrics"
	}
	return p + ".report." + marker
}

// Publish sends one report carrying the given snapshots for marker.
func (s *Sink) Publish(marker string, methods []intercept.MethodStats) error {
	if s.closed.Load() {
		return ErrSinkClosed
	}

	payload, err := s.codec.Marshal(Report{
		Marker:  marker,
		SentAt:  time.Now().UTC(),
		Methods: methods,
	})
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	subject := s.subjectReport(marker)
	if err := s.nc.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}

	s.log.Debug("report published",
		slog.String("subject", subject),
		slog.Int("methods", len(methods)))
	return nil
}

// PublishInterceptor publishes every registered method's snapshot of ic.
// The marker must be a string-rendered identity; non-string markers are
// rendered with %v.
func (s *Sink) PublishInterceptor(ic *intercept.Interceptor) error {
	return s.Publish(fmt.Sprintf("%v", ic.Marker()), ic.AllStats())
}

// Close flushes and releases the connection. Idempotent.
func (s *Sink) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	_ = s.nc.Flush()
	if s.closeNc != nil {
		s.closeNc()
	}
}
