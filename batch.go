package sender

import (
	"strings"
	"sync"
)

// Buffer holds encoded lines waiting for a batched flush. A Buffer may be
// shared by several batched clients through Config.Buffer.
type Buffer struct {
	mu    sync.Mutex
	lines []string
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Len is the number of pending lines.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

func (b *Buffer) add(line string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, line)
	return len(b.lines)
}

// drain takes every pending line and leaves the buffer empty.
func (b *Buffer) drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := b.lines
	b.lines = nil
	return lines
}

// dispatcher decides when reported lines reach the transport.
type dispatcher interface {
	report(line string)
	flush()
}

type immediate struct {
	sink func(message string)
}

func (d immediate) report(line string) {
	d.sink(line)
}

func (immediate) flush() {}

type batcher struct {
	buffer *Buffer
	max    int
	sink   func(message string)
}

func (d *batcher) report(line string) {
	if d.buffer.add(line) > d.max {
		d.flush()
	}
}

func (d *batcher) flush() {
	lines := d.buffer.drain()
	if len(lines) == 0 {
		return
	}
	d.sink(strings.Join(lines, "\n"))
}

// NewBatchedClient creates a client that collects lines and sends them
// together once more than Config.MaxBufferLength are pending. Call Flush or
// Close to deliver the remainder. Telemetry is on unless Config.Telemetry
// says otherwise.
func NewBatchedClient(config Config) (Client, error) {
	c, err := newClient(config, true)
	if err != nil {
		return nil, err
	}
	buffer := config.Buffer
	if buffer == nil {
		buffer = NewBuffer()
	}
	limit := config.MaxBufferLength
	if limit <= 0 {
		limit = DefaultMaxBufferLength
	}
	c.dispatch = &batcher{buffer: buffer, max: limit, sink: c.flush}
	return c, nil
}
