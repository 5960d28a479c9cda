package locker

import "unicode/utf8"

// BufferCapacity is the number of slots in the password buffer. One slot is
// kept free, so at most BufferCapacity-1 characters are ever accepted.
const BufferCapacity = 128

// Buffer is the bounded edit buffer holding the password being typed.
// The zero value is not usable; use NewBuffer.
type Buffer struct {
	data []rune
	n    int
}

// NewBuffer returns an empty buffer with the given number of slots.
// Capacities below 2 are raised to 2 so at least one character fits.
func NewBuffer(capacity int) *Buffer {
	if capacity < 2 {
		capacity = 2
	}
	return &Buffer{data: make([]rune, capacity)}
}

// Len reports the number of characters currently held.
func (b *Buffer) Len() int { return b.n }

// Cap reports the number of slots, including the reserved one.
func (b *Buffer) Cap() int { return len(b.data) }

// Full reports whether another Append would be dropped.
func (b *Buffer) Full() bool { return b.n >= len(b.data)-1 }

// Append adds r at the end. It returns false and leaves the contents
// untouched when the buffer is full.
func (b *Buffer) Append(r rune) bool {
	if b.Full() {
		return false
	}
	b.data[b.n] = r
	b.n++
	return true
}

// Erase removes the last character. It is a no-op on an empty buffer.
func (b *Buffer) Erase() {
	if b.n == 0 {
		return
	}
	b.n--
	b.data[b.n] = 0
}

// Reset empties the buffer and wipes its storage.
func (b *Buffer) Reset() {
	clear(b.data[:b.n])
	b.n = 0
}

// String returns the current contents.
func (b *Buffer) String() string {
	return string(b.data[:b.n])
}

// Bytes returns the UTF-8 encoding of the contents in a fresh slice that the
// caller owns and should wipe after use.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, 0, b.n*utf8.UTFMax)
	for _, r := range b.data[:b.n] {
		out = utf8.AppendRune(out, r)
	}
	return out
}
