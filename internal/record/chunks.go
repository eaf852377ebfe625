// Package record drives the record/stop lifecycle over a capture source,
// accumulating the encoder's output chunks in arrival order.
package record

import "sync"

// Chunks is the ordered, append-only sequence of binary buffers produced
// by one recording session. Exactly one session owns a sequence at a time;
// a new session starts a new sequence rather than appending to the old one.
type Chunks struct {
	mu    sync.Mutex
	bufs  [][]byte
	total int
}

// NewChunks returns an empty sequence.
func NewChunks() *Chunks {
	return &Chunks{}
}

// Append copies p onto the end of the sequence. Empty buffers are dropped.
func (c *Chunks) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	c.mu.Lock()
	c.bufs = append(c.bufs, buf)
	c.total += len(buf)
	c.mu.Unlock()
}

// Count returns the number of chunks.
func (c *Chunks) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.bufs)
}

// Bytes returns the total byte length across all chunks.
func (c *Chunks) Bytes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Concat returns the chunks joined into one buffer.
func (c *Chunks) Concat() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, 0, c.total)
	for _, b := range c.bufs {
		out = append(out, b...)
	}
	return out
}
