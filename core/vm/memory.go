package vm

import (
	"github.com/Aurorachain/go-opbench/params"
	"github.com/holiman/uint256"
)

// maxMemory bounds the memory a verified program may expand to.
const maxMemory = 1 << 25

// Memory implements a simple memory model for the local verifier.
type Memory struct {
	store []byte
}

func NewMemory() *Memory {
	return &Memory{}
}

// Set sets offset + size to value. The memory must already be large enough.
func (m *Memory) Set(offset, size uint64, value []byte) {
	if size == 0 {
		return
	}
	if offset+size > uint64(len(m.store)) {
		panic("invalid memory: store empty")
	}
	copy(m.store[offset:offset+size], value)
}

// Resize grows the memory to size bytes, rounded up to whole words.
func (m *Memory) Resize(size uint64) {
	size = (size + params.WordSize - 1) / params.WordSize * params.WordSize
	if uint64(m.Len()) < size {
		m.store = append(m.store, make([]byte, size-uint64(m.Len()))...)
	}
}

// GetCopy returns offset + size as a new slice.
func (m *Memory) GetCopy(offset, size uint64) (cpy []byte) {
	if size == 0 {
		return nil
	}
	cpy = make([]byte, size)
	if offset < uint64(len(m.store)) {
		copy(cpy, m.store[offset:])
	}
	return
}

func (m *Memory) Len() int {
	return len(m.store)
}

func (m *Memory) Data() []byte {
	return m.store
}

// expansion validates a memory access of size bytes at offset and returns the
// end of the touched region. A zero size touches nothing.
func expansion(offset, size *uint256.Int) (uint64, error) {
	if size.IsZero() {
		return 0, nil
	}
	off, overflow := offset.Uint64WithOverflow()
	if overflow {
		return 0, ErrMemoryLimitExceeded
	}
	sz, overflow := size.Uint64WithOverflow()
	if overflow {
		return 0, ErrMemoryLimitExceeded
	}
	end := off + sz
	if end < off || end > maxMemory {
		return 0, ErrMemoryLimitExceeded
	}
	return end, nil
}
