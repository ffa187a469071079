//go:build linux

package shm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Layout of glibc's sem_t on 64-bit Linux: a 64-bit data word holding the
// value in the low half and the waiter count in the high half, then the
// futex private flag. The futex word is the low half, which sits first on
// little-endian machines.
const (
	semSize        = 32
	valueMask      = uint64(0xffffffff)
	valueMax       = 0x7fffffff
	nwaitersShift  = 32
	oneWaiter      = uint64(1) << nwaitersShift
	futexShared    = 128
	futexWaitOp    = 0
	futexWakeOp    = 1
	maxOpenRetries = 8
)

// Semaphore is an open handle to a named semaphore. Handles are not safe for
// concurrent Close; the counting operations are.
type Semaphore struct {
	name string
	path string
	mem  []byte
}

func semaphorePath(name string) (string, error) {
	obj, err := objectName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(shmDir, "sem."+obj), nil
}

// OpenSemaphore opens the named semaphore, creating it with mode 0666 and
// the given initial value when it does not exist yet.
func OpenSemaphore(name string, value uint32) (*Semaphore, error) {
	if value > valueMax {
		return nil, ErrOverflow
	}
	path, err := semaphorePath(name)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxOpenRetries; attempt++ {
		mem, err := mapExistingSemaphore(path)
		if err == nil {
			return &Semaphore{name: name, path: path, mem: mem}, nil
		}
		if !errors.Is(err, unix.ENOENT) {
			return nil, fmt.Errorf("open semaphore %s: %w", name, err)
		}

		mem, err = createSemaphore(path, value)
		if err == nil {
			return &Semaphore{name: name, path: path, mem: mem}, nil
		}
		if !errors.Is(err, unix.EEXIST) {
			return nil, fmt.Errorf("create semaphore %s: %w", name, err)
		}
		// Lost the creation race; open the winner's semaphore.
	}
	return nil, fmt.Errorf("open semaphore %s: %w", name, unix.EAGAIN)
}

func mapExistingSemaphore(path string) ([]byte, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC|unix.O_NOFOLLOW, 0)
	if err != nil {
		return nil, err
	}
	defer unix.Close(fd)

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, err
	}
	if st.Size < semSize {
		return nil, fmt.Errorf("semaphore file %s is %d bytes: %w", path, st.Size, unix.EINVAL)
	}
	return unix.Mmap(fd, 0, semSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

// createSemaphore initialises a temporary file and links it into place, so
// no process can open a half-written semaphore.
func createSemaphore(path string, value uint32) ([]byte, error) {
	tmp, err := os.CreateTemp(shmDir, "sem.tmp-*")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	var buf [semSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(value))
	binary.LittleEndian.PutUint32(buf[8:12], futexShared)
	if _, err := tmp.Write(buf[:]); err != nil {
		return nil, err
	}
	if err := tmp.Chmod(0o666); err != nil {
		return nil, err
	}

	mem, err := unix.Mmap(int(tmp.Fd()), 0, semSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	if err := unix.Link(tmp.Name(), path); err != nil {
		unix.Munmap(mem)
		return nil, err
	}
	return mem, nil
}

func (s *Semaphore) Name() string { return s.name }

func (s *Semaphore) data() *uint64 {
	return (*uint64)(unsafe.Pointer(&s.mem[0]))
}

func (s *Semaphore) word() *uint32 {
	return (*uint32)(unsafe.Pointer(&s.mem[0]))
}

// Value returns the current count.
func (s *Semaphore) Value() int {
	return int(atomic.LoadUint64(s.data()) & valueMask)
}

// TryWait decrements the semaphore if it is positive and reports whether it
// did.
func (s *Semaphore) TryWait() bool {
	for {
		d := atomic.LoadUint64(s.data())
		if d&valueMask == 0 {
			return false
		}
		if atomic.CompareAndSwapUint64(s.data(), d, d-1) {
			return true
		}
	}
}

// Wait decrements the semaphore, blocking while it is zero. A timeout of
// zero or less waits forever; otherwise ErrTimeout is returned once it
// elapses.
func (s *Semaphore) Wait(timeout time.Duration) error {
	if s.TryWait() {
		return nil
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	d := atomic.AddUint64(s.data(), oneWaiter)
	for {
		if d&valueMask != 0 {
			if atomic.CompareAndSwapUint64(s.data(), d, d-1-oneWaiter) {
				return nil
			}
			d = atomic.LoadUint64(s.data())
			continue
		}

		var remaining time.Duration
		if !deadline.IsZero() {
			remaining = time.Until(deadline)
			if remaining <= 0 {
				s.dropWaiter()
				return ErrTimeout
			}
		}
		switch err := futexWait(s.word(), 0, remaining); err {
		case nil, unix.EAGAIN, unix.EINTR:
		case unix.ETIMEDOUT:
			s.dropWaiter()
			return ErrTimeout
		default:
			s.dropWaiter()
			return fmt.Errorf("wait semaphore %s: %w", s.name, err)
		}
		d = atomic.LoadUint64(s.data())
	}
}

func (s *Semaphore) dropWaiter() {
	atomic.AddUint64(s.data(), ^(oneWaiter - 1))
}

// Post increments the semaphore and wakes one waiter if any are blocked.
func (s *Semaphore) Post() error {
	for {
		d := atomic.LoadUint64(s.data())
		if d&valueMask == valueMax {
			return ErrOverflow
		}
		if atomic.CompareAndSwapUint64(s.data(), d, d+1) {
			if d>>nwaitersShift > 0 {
				if err := futexWake(s.word(), 1); err != nil {
					return fmt.Errorf("wake semaphore %s: %w", s.name, err)
				}
			}
			return nil
		}
	}
}

// Close releases this handle. The semaphore itself persists until unlinked.
func (s *Semaphore) Close() error {
	if s.mem == nil {
		return nil
	}
	err := unix.Munmap(s.mem)
	s.mem = nil
	return err
}

// UnlinkSemaphore removes a named semaphore. Open handles keep working.
func UnlinkSemaphore(name string) error {
	path, err := semaphorePath(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

func futexWait(addr *uint32, val uint32, timeout time.Duration) error {
	var ts *unix.Timespec
	if timeout > 0 {
		t := unix.NsecToTimespec(timeout.Nanoseconds())
		ts = &t
	}
	_, _, errno := unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)), futexWaitOp, uintptr(val), uintptr(unsafe.Pointer(ts)), 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

func futexWake(addr *uint32, n int) error {
	_, _, errno := unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)), futexWakeOp, uintptr(n), 0, 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}
