//go:build linux

package shm

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

func segmentPath(name string) (string, error) {
	obj, err := objectName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(shmDir, obj), nil
}

// writeSegment replaces the contents of the named segment with value and a
// trailing NUL. The caller holds the segment's semaphore.
func writeSegment(name string, value []byte) error {
	path, err := segmentPath(name)
	if err != nil {
		return err
	}

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_CLOEXEC|unix.O_NOFOLLOW, 0o666)
	if err != nil {
		return fmt.Errorf("open segment %s: %w", name, err)
	}
	defer unix.Close(fd)

	size := len(value) + 1
	if err := unix.Ftruncate(fd, 0); err != nil {
		return fmt.Errorf("truncate segment %s: %w", name, err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		return fmt.Errorf("resize segment %s: %w", name, err)
	}

	mem, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("map segment %s: %w", name, err)
	}
	defer unix.Munmap(mem)

	copy(mem, value)
	mem[len(value)] = 0
	return nil
}

// readSegment returns the segment's contents up to the first NUL. The caller
// holds the segment's semaphore.
func readSegment(name string) ([]byte, error) {
	path, err := segmentPath(name)
	if err != nil {
		return nil, err
	}

	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC|unix.O_NOFOLLOW, 0)
	if err != nil {
		return nil, fmt.Errorf("open segment %s: %w", name, err)
	}
	defer unix.Close(fd)

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, fmt.Errorf("stat segment %s: %w", name, err)
	}
	if st.Size == 0 {
		return []byte{}, nil
	}

	mem, err := unix.Mmap(fd, 0, int(st.Size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("map segment %s: %w", name, err)
	}
	defer unix.Munmap(mem)

	end := bytes.IndexByte(mem, 0)
	if end < 0 {
		end = len(mem)
	}
	out := make([]byte, end)
	copy(out, mem[:end])
	return out, nil
}

// Read acquires the segment's semaphore and returns the last published value.
// A timeout of zero or less waits for the semaphore forever.
func Read(segment string, timeout time.Duration) ([]byte, error) {
	sem, err := OpenSemaphore(SemaphoreName(segment), 1)
	if err != nil {
		return nil, err
	}
	defer sem.Close()

	if err := sem.Wait(timeout); err != nil {
		return nil, fmt.Errorf("acquire %s: %w", sem.Name(), err)
	}
	data, readErr := readSegment(segment)
	if err := sem.Post(); err != nil && readErr == nil {
		readErr = fmt.Errorf("release %s: %w", sem.Name(), err)
	}
	return data, readErr
}

// Unlink removes a segment and its semaphore. Missing objects are ignored.
func Unlink(segment string) error {
	path, err := segmentPath(segment)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := UnlinkSemaphore(SemaphoreName(segment)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
