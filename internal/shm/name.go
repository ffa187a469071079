// Package shm publishes strings to named POSIX shared-memory segments, each
// guarded by a named semaphore so readers never observe a partial write.
//
// Segments and semaphores live under /dev/shm with the same layout glibc
// uses for shm_open and sem_open, so C and Python readers (posix_ipc) can
// share them with this package.
package shm

import (
	"errors"
	"strings"
)

const (
	shmDir  = "/dev/shm"
	nameMax = 255
)

var (
	ErrInvalidName = errors.New("shm: invalid name")
	ErrTimeout     = errors.New("shm: timed out waiting for semaphore")
	ErrOverflow    = errors.New("shm: semaphore value overflow")
	ErrEmbeddedNUL = errors.New("shm: value contains NUL byte")
)

// SemaphoreName returns the name of the semaphore guarding segment:
// "/semaphore_" followed by the segment name without its leading slashes.
func SemaphoreName(segment string) string {
	return "/semaphore_" + strings.TrimLeft(segment, "/")
}

// objectName validates a POSIX object name and returns it without leading
// slashes.
func objectName(name string) (string, error) {
	trimmed := strings.TrimLeft(name, "/")
	if trimmed == "" || len(trimmed) > nameMax || strings.ContainsRune(trimmed, '/') {
		return "", ErrInvalidName
	}
	if trimmed == "." || trimmed == ".." || strings.IndexByte(trimmed, 0) >= 0 {
		return "", ErrInvalidName
	}
	return trimmed, nil
}
