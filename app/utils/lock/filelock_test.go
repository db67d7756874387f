// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package lock_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudzero/broadband-explorer/app/utils/lock"
)

func TestLock_AcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".download.lock")
	l := lock.New(path)

	require.NoError(t, l.Acquire(context.Background()))
	assert.FileExists(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var content map[string]any
	require.NoError(t, json.Unmarshal(data, &content))
	assert.EqualValues(t, os.Getpid(), content["pid"])

	require.NoError(t, l.Release())
	assert.NoFileExists(t, path)
}

func TestLock_HeldByLiveOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".download.lock")
	first := lock.New(path)
	require.NoError(t, first.Acquire(context.Background()))
	defer first.Release()

	second := lock.New(path, lock.WithMaxRetry(2), lock.WithRetryInterval(10*time.Millisecond))
	err := second.Acquire(context.Background())
	assert.ErrorIs(t, err, lock.ErrMaxRetryExceeded)
}

func TestLock_TakesOverStaleLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".download.lock")
	stale := `{"hostname":"gone","pid":1,"timestamp":"2001-01-01T00:00:00Z"}`
	require.NoError(t, os.WriteFile(path, []byte(stale), 0o644))

	l := lock.New(path, lock.WithStaleTimeout(time.Second))
	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Release())
}

func TestLock_WaitsForRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".download.lock")
	first := lock.New(path)
	require.NoError(t, first.Acquire(context.Background()))

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = first.Release()
	}()

	second := lock.New(path, lock.WithRetryInterval(20*time.Millisecond), lock.WithMaxRetry(100))
	require.NoError(t, second.Acquire(context.Background()))
	require.NoError(t, second.Release())
}

func TestLock_ContextCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".download.lock")
	first := lock.New(path)
	require.NoError(t, first.Acquire(context.Background()))
	defer first.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	second := lock.New(path, lock.WithRetryInterval(time.Second))
	assert.ErrorIs(t, second.Acquire(ctx), context.DeadlineExceeded)
}

func TestLock_MissingDirectory(t *testing.T) {
	l := lock.New(filepath.Join(t.TempDir(), "absent", ".download.lock"))
	assert.Error(t, l.Acquire(context.Background()))
}

func TestLock_TakesOverOldEmptyLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".download.lock")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	old := time.Now().Add(-24 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	l := lock.New(path, lock.WithStaleTimeout(time.Millisecond), lock.WithMaxRetry(3))
	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Release())
}

func TestLock_KeepsFreshCorruptLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".download.lock")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	l := lock.New(path,
		lock.WithStaleTimeout(time.Minute),
		lock.WithMaxRetry(2),
		lock.WithRetryInterval(time.Millisecond),
	)
	assert.ErrorIs(t, l.Acquire(context.Background()), lock.ErrMaxRetryExceeded)
	assert.FileExists(t, path)
}

func TestLock_ConcurrentStaleTakeover(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".download.lock")
	stale := `{"hostname":"gone","pid":1,"timestamp":"2001-01-01T00:00:00Z"}`
	require.NoError(t, os.WriteFile(path, []byte(stale), 0o644))

	const waiters = 8
	var (
		holders    atomic.Int32
		maxHolders atomic.Int32
		wg         sync.WaitGroup
		errs       = make(chan error, waiters)
	)
	start := make(chan struct{})
	for range waiters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l := lock.New(path,
				lock.WithStaleTimeout(time.Minute),
				lock.WithRetryInterval(time.Millisecond),
				lock.WithMaxRetry(10000),
			)
			<-start
			if err := l.Acquire(context.Background()); err != nil {
				errs <- err
				return
			}
			n := holders.Add(1)
			for {
				m := maxHolders.Load()
				if n <= m || maxHolders.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			holders.Add(-1)
			errs <- l.Release()
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.EqualValues(t, 1, maxHolders.Load())
	assert.NoFileExists(t, path)
}

func TestLock_ReleaseLeavesForeignLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".download.lock")
	l := lock.New(path)
	require.NoError(t, l.Acquire(context.Background()))

	foreign := `{"hostname":"other","pid":2,"token":"abc","timestamp":"2030-01-01T00:00:00Z"}`
	require.NoError(t, os.WriteFile(path, []byte(foreign), 0o644))

	require.NoError(t, l.Release())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, foreign, string(data))
}
