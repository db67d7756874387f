// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package lock provides a file lock that keeps two explorer processes from
// downloading into the same data directory at once.
//
// The lock file is created with O_EXCL and holds the owner's hostname, PID,
// a per-lock token and a timestamp that the owner refreshes while it holds the
// lock. A lock whose timestamp is older than the stale timeout is taken over.
// A lock file that cannot be parsed is judged by its modification time.
//
// Stale locks are only removed while holding a short-lived "<path>.takeover"
// guard, and only if the file is unchanged since it was judged stale, so two
// waiters that see the same stale lock cannot both end up holding it.
//
//	l := lock.New(filepath.Join(dataDir, ".download.lock"))
//	if err := l.Acquire(ctx); err != nil {
//		return err
//	}
//	defer l.Release()
package lock

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"
)

const (
	lockFilePermissions = 0o644
	takeoverSuffix      = ".takeover"
)

var (
	ErrLockHeld         = errors.New("lock is held by another process")
	ErrLockCorrupt      = errors.New("corrupt lock file")
	ErrMaxRetryExceeded = errors.New("failed to acquire lock, max retries exceeded")

	DefaultStaleTimeout    = 30 * time.Second
	DefaultRefreshInterval = 10 * time.Second
	DefaultRetryInterval   = time.Second
	DefaultMaxRetry        = 10
)

// Lock is a file lock. It is safe for use by multiple goroutines.
type Lock struct {
	path            string
	staleTimeout    time.Duration
	refreshInterval time.Duration
	retryInterval   time.Duration
	maxRetry        int

	hostname string
	pid      int
	token    string

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*Lock)

// WithStaleTimeout sets how old a lock's timestamp must be before it is
// taken over. It should be well above the refresh interval.
func WithStaleTimeout(d time.Duration) Option {
	return func(l *Lock) { l.staleTimeout = d }
}

func WithRefreshInterval(d time.Duration) Option {
	return func(l *Lock) { l.refreshInterval = d }
}

func WithRetryInterval(d time.Duration) Option {
	return func(l *Lock) { l.retryInterval = d }
}

// WithMaxRetry sets how many times a held lock is retried before giving up.
func WithMaxRetry(n int) Option {
	return func(l *Lock) { l.maxRetry = n }
}

type owner struct {
	Hostname  string    `json:"hostname"`
	PID       int       `json:"pid"`
	Token     string    `json:"token"`
	Timestamp time.Time `json:"timestamp"`
}

// New returns an unacquired lock on path.
func New(path string, opts ...Option) *Lock {
	hostname, _ := os.Hostname()
	l := &Lock{
		path:            path,
		staleTimeout:    DefaultStaleTimeout,
		refreshInterval: DefaultRefreshInterval,
		retryInterval:   DefaultRetryInterval,
		maxRetry:        DefaultMaxRetry,
		hostname:        hostname,
		pid:             os.Getpid(),
		token:           newToken(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire takes the lock, waiting for a live owner to release it and taking
// over a stale one. The lock is refreshed in the background until Release.
func (l *Lock) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := l.create()
		if err == nil {
			refreshCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
			l.cancel = cancel
			l.wg.Add(1)
			go func() {
				defer l.wg.Done()
				l.refresh(refreshCtx)
			}()
			return nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("create lock %s: %w", l.path, err)
		}

		snap, err := l.snapshot()
		if errors.Is(err, fs.ErrNotExist) {
			// Released between our create and read.
			continue
		}
		if err != nil {
			return err
		}
		if l.isStale(snap) {
			cleared, err := l.takeOver(snap)
			if err != nil {
				return err
			}
			if cleared {
				continue
			}
		}

		// Held by a live owner, or being written right now.
		if attempt >= l.maxRetry {
			return fmt.Errorf("%w: %s", ErrMaxRetryExceeded, l.path)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}
}

// Release stops the refresh and removes the lock file if this lock still
// owns it.
func (l *Lock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
		l.wg.Wait()
	}

	if !l.owns() {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return nil
}

// fileState is what a waiter saw when it judged a lock file.
type fileState struct {
	data    []byte
	modTime time.Time
}

func (l *Lock) snapshot() (*fileState, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	return &fileState{data: data, modTime: info.ModTime()}, nil
}

func (s *fileState) equal(other *fileState) bool {
	return bytes.Equal(s.data, other.data) && s.modTime.Equal(other.modTime)
}

// isStale judges a lock by its owner timestamp, or by its modification time
// when the content is empty or not JSON.
func (l *Lock) isStale(s *fileState) bool {
	var o owner
	if err := json.Unmarshal(s.data, &o); err != nil || o.Timestamp.IsZero() {
		return time.Since(s.modTime) >= l.staleTimeout
	}
	return time.Since(o.Timestamp) >= l.staleTimeout
}

// takeOver removes the lock file if it is still exactly what the caller saw.
// It reports false when another waiter holds the guard, so the caller backs
// off instead of spinning.
func (l *Lock) takeOver(seen *fileState) (bool, error) {
	guard := l.path + takeoverSuffix
	file, err := os.OpenFile(guard, os.O_CREATE|os.O_EXCL|os.O_WRONLY, lockFilePermissions)
	if errors.Is(err, fs.ErrExist) {
		// A guard left behind by a crashed waiter is cleared once it is stale.
		if info, statErr := os.Stat(guard); statErr == nil && time.Since(info.ModTime()) >= l.staleTimeout {
			_ = os.Remove(guard)
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create takeover guard %s: %w", guard, err)
	}
	file.Close()
	defer os.Remove(guard)

	current, err := l.snapshot()
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if !current.equal(seen) {
		// Refreshed or replaced since it was judged; judge it again.
		return true, nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("remove stale lock %s: %w", l.path, err)
	}
	return true, nil
}

func (l *Lock) create() error {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, lockFilePermissions)
	if err != nil {
		return err
	}
	if err := l.write(file); err != nil {
		file.Close()
		os.Remove(l.path)
		return err
	}
	return file.Close()
}

func (l *Lock) write(file *os.File) error {
	return json.NewEncoder(file).Encode(owner{Hostname: l.hostname, PID: l.pid, Token: l.token, Timestamp: time.Now()})
}

func (l *Lock) owns() bool {
	current, err := l.read()
	return err == nil && current.Token == l.token
}

func newToken() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func (l *Lock) read() (*owner, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	var o owner
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLockCorrupt, l.path)
	}
	return &o, nil
}

// refresh rewrites the timestamp until ctx is done, as long as we still own
// the file.
func (l *Lock) refresh(ctx context.Context) {
	ticker := time.NewTicker(l.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !l.owns() {
				return
			}
			file, err := os.OpenFile(l.path, os.O_WRONLY|os.O_TRUNC, lockFilePermissions)
			if err != nil {
				return
			}
			_ = l.write(file)
			file.Close()
		}
	}
}
