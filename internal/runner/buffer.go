package runner

import (
	"bytes"
	"sync"
	"unicode/utf8"
)

const truncatedMarker = "\n[output truncated]\n"

// limitedBuffer collects process output up to a fixed size. Writes past the
// limit are discarded but reported as consumed so the child never sees a
// broken pipe. The cut falls on a rune boundary so kept UTF-8 output stays
// valid.
type limitedBuffer struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func newLimitedBuffer(limit int) *limitedBuffer {
	return &limitedBuffer{limit: limit}
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.limit <= 0 {
		return b.buf.Write(p)
	}

	room := b.limit - b.buf.Len()
	if b.truncated || room <= 0 {
		b.truncated = true
		return len(p), nil
	}
	if len(p) > room {
		cut := room
		for cut > 0 && !utf8.RuneStart(p[cut]) {
			cut--
		}
		b.buf.Write(p[:cut])
		b.truncated = true
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *limitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := toUTF8(b.buf.Bytes())
	if b.truncated {
		out += truncatedMarker
	}
	return out
}
