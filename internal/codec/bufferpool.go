package codec

import (
	"bytes"
	"sync"
)

// Encode output buffers are pooled: the adaptive search can encode the
// same image a dozen times, and reusing buffers keeps that loop from
// churning the GC.
const (
	initialBufferSize = 512 * 1024
	maxPooledBuffer   = 16 * 1024 * 1024
)

var bufferPool = sync.Pool{
	New: func() any {
		buf := new(bytes.Buffer)
		buf.Grow(initialBufferSize)
		return buf
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
