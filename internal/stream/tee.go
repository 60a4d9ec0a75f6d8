// Package stream provides a broadcast/tee primitive for single-consumption
// response bodies. Upstream provider streams can only be read once; the
// realtime cache needs one copy to retain and one to hand to the caller, so
// every cache write and read forks the stream here.
package stream

import (
	"bytes"
	"io"
	"sync"
)

// readBuffer is chosen to match typical SSE chunk sizes from chat providers.
const readBuffer = 4 << 10

// Tee forks src into two independent ReadClosers. A single goroutine performs
// the only read of src, appending every chunk to both branches, so neither
// branch can starve or block the other regardless of consumption order.
//
// src is closed once it is exhausted, errors, or both branches have been
// closed. Closing one branch discards only that branch's pending data.
func Tee(src io.ReadCloser) (io.ReadCloser, io.ReadCloser) {
	a := newBranch()
	b := newBranch()

	go pump(src, a, b)

	return a, b
}

// pump drains src into both branches. Runs until src is exhausted or both
// consumers have gone away.
func pump(src io.ReadCloser, a, b *branch) {
	defer src.Close()
	buf := make([]byte, readBuffer)
	for {
		if a.isClosed() && b.isClosed() {
			return
		}
		n, err := src.Read(buf)
		if n > 0 {
			a.append(buf[:n])
			b.append(buf[:n])
		}
		if err != nil {
			// io.EOF finishes branches cleanly; any other error is surfaced
			// to both readers after their buffered data is drained.
			if err == io.EOF {
				err = nil
			}
			a.finish(err)
			b.finish(err)
			return
		}
	}
}

// branch is one readable side of a tee. Safe for a single reader concurrent
// with the pump goroutine.
type branch struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    bytes.Buffer
	done   bool  // pump finished; no more appends
	err    error // terminal error, returned after buf drains
	closed bool  // reader went away
}

func newBranch() *branch {
	br := &branch{}
	br.cond = sync.NewCond(&br.mu)
	return br
}

func (br *branch) append(p []byte) {
	br.mu.Lock()
	defer br.mu.Unlock()
	if br.closed {
		return
	}
	br.buf.Write(p)
	br.cond.Signal()
}

func (br *branch) finish(err error) {
	br.mu.Lock()
	defer br.mu.Unlock()
	br.done = true
	br.err = err
	br.cond.Signal()
}

func (br *branch) isClosed() bool {
	br.mu.Lock()
	defer br.mu.Unlock()
	return br.closed
}

// Read blocks until data is buffered, the stream finishes, or the branch is
// closed. After the buffer drains it returns the pump's terminal error, or
// io.EOF on clean completion.
func (br *branch) Read(p []byte) (int, error) {
	br.mu.Lock()
	defer br.mu.Unlock()
	for br.buf.Len() == 0 && !br.done && !br.closed {
		br.cond.Wait()
	}
	if br.closed {
		return 0, io.ErrClosedPipe
	}
	if br.buf.Len() > 0 {
		return br.buf.Read(p)
	}
	if br.err != nil {
		return 0, br.err
	}
	return 0, io.EOF
}

// Close releases the branch; any buffered data is dropped and subsequent
// Reads return io.ErrClosedPipe. Idempotent.
func (br *branch) Close() error {
	br.mu.Lock()
	defer br.mu.Unlock()
	if !br.closed {
		br.closed = true
		br.buf.Reset()
		br.cond.Signal()
	}
	return nil
}
