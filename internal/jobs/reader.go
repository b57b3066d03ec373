package jobs

import (
	"os"
	"sync"
)

const readChunkSize = 4096

// PipeReader forwards what is written to a pipe as string chunks on a
// channel, so that readiness can be awaited in a select together with
// input events and timers.
type PipeReader struct {
	file   *os.File
	chunks chan string
	done   chan struct{}
	once   sync.Once
}

// NewPipeReader starts reading f. The reader owns f and closes it.
func NewPipeReader(f *os.File) *PipeReader {
	r := &PipeReader{
		file:   f,
		chunks: make(chan string, 16),
		done:   make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *PipeReader) loop() {
	defer close(r.chunks)
	buf := make([]byte, readChunkSize)
	for {
		n, err := r.file.Read(buf)
		if n > 0 {
			select {
			case r.chunks <- string(buf[:n]):
			case <-r.done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// Chunks is closed once the writer side is closed everywhere or the
// reader is closed.
func (r *PipeReader) Chunks() <-chan string {
	return r.chunks
}

// Close stops reading and closes the pipe. It is safe to call twice.
func (r *PipeReader) Close() {
	r.once.Do(func() {
		close(r.done)
		_ = r.file.Close()
	})
}
