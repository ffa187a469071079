//go:build linux

package shm

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Publisher writes values to named segments under their semaphores.
// Failures are logged and never returned to the caller of Publish: a
// publish that fails leaves the previous value in place.
type Publisher struct {
	logger      *slog.Logger
	lockTimeout atomic.Int64
}

// NewPublisher returns a publisher that waits at most lockTimeout for a
// segment's semaphore; zero or less waits forever.
func NewPublisher(logger *slog.Logger, lockTimeout time.Duration) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Publisher{logger: logger}
	p.lockTimeout.Store(int64(lockTimeout))
	return p
}

func (p *Publisher) SetLockTimeout(d time.Duration) {
	p.lockTimeout.Store(int64(d))
}

func (p *Publisher) LockTimeout() time.Duration {
	return time.Duration(p.lockTimeout.Load())
}

// Publish writes value to segment.
func (p *Publisher) Publish(segment, value string) {
	if err := p.publish(segment, value); err != nil {
		p.logger.Error("publish failed", "segment", segment, "bytes", len(value), "error", err)
		return
	}
	p.logger.Debug("published", "segment", segment, "bytes", len(value))
}

// publish holds the semaphore for the whole write. Release runs in reverse
// order of acquisition: the segment is unmapped and closed inside
// writeSegment, then the semaphore is posted, then its handle closed.
func (p *Publisher) publish(segment, value string) (err error) {
	if strings.IndexByte(value, 0) >= 0 {
		return ErrEmbeddedNUL
	}
	if _, err := segmentPath(segment); err != nil {
		return err
	}

	sem, err := OpenSemaphore(SemaphoreName(segment), 1)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sem.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", sem.Name(), cerr)
		}
	}()

	if err := sem.Wait(p.LockTimeout()); err != nil {
		return fmt.Errorf("acquire %s: %w", sem.Name(), err)
	}
	defer func() {
		if perr := sem.Post(); perr != nil && err == nil {
			err = fmt.Errorf("release %s: %w", sem.Name(), perr)
		}
	}()

	return writeSegment(segment, []byte(value))
}
