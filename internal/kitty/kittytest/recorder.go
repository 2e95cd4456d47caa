// Package kittytest provides a recording kitty.Writer for tests.
package kittytest

import (
	"errors"
	"strings"
	"sync"
)

// ErrInjected is returned by a Recorder configured to fail.
var ErrInjected = errors.New("injected write failure")

// Sequence is one APC graphics sequence as seen on the wire.
type Sequence struct {
	// Control is the key=value part before the optional ';'.
	Control string
	// Payload is the base64 chunk after ';', empty for control-only sequences.
	Payload string
}

// Action returns the value of the a= key, or 0 for continuation chunks.
func (s Sequence) Action() byte {
	v := s.Value("a")
	if v == "" {
		return 0
	}
	return v[0]
}

// Value returns the value of key, or "" if absent.
func (s Sequence) Value(key string) string {
	for _, kv := range strings.Split(s.Control, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k == key {
			return v
		}
	}
	return ""
}

// Has reports whether the control data contains key=value.
func (s Sequence) Has(key, value string) bool {
	return s.Value(key) == value
}

// Recorder records everything written to it. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	buf     strings.Builder
	writes  int
	flushes int

	// FailWrites makes WriteAll return ErrInjected once it reaches zero.
	// Negative disables failure injection.
	failWrites int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{failWrites: -1}
}

// FailAfter makes the recorder fail every write after n successful ones.
func (r *Recorder) FailAfter(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWrites = n
}

// WriteAll implements kitty.Writer.
func (r *Recorder) WriteAll(p []byte, _ bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrites == 0 {
		return ErrInjected
	}
	if r.failWrites > 0 {
		r.failWrites--
	}
	r.writes++
	r.buf.Write(p)
	return nil
}

// Flush implements kitty.Writer.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes++
	return nil
}

// String returns every byte written so far.
func (r *Recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

// Flushes returns the number of Flush calls.
func (r *Recorder) Flushes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushes
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.Reset()
	r.writes = 0
	r.flushes = 0
}

// Sequences parses the recorded bytes into graphics sequences.
func (r *Recorder) Sequences() []Sequence {
	return Parse(r.String())
}

// Count returns the number of sequences whose a= key equals action.
func (r *Recorder) Count(action byte) int {
	n := 0
	for _, s := range r.Sequences() {
		if s.Action() == action {
			n++
		}
	}
	return n
}

// Parse splits raw terminal output into graphics sequences. Bytes outside
// ESC _G ... ESC \ envelopes are ignored.
func Parse(raw string) []Sequence {
	var seqs []Sequence
	for {
		start := strings.Index(raw, "\x1b_G")
		if start < 0 {
			return seqs
		}
		raw = raw[start+3:]
		end := strings.Index(raw, "\x1b\\")
		if end < 0 {
			return seqs
		}
		body := raw[:end]
		raw = raw[end+2:]

		control, payload, _ := strings.Cut(body, ";")
		seqs = append(seqs, Sequence{Control: control, Payload: payload})
	}
}
