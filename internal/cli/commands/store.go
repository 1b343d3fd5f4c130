// Copyright 2025 VerFS Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"verfs/internal/storage"
)

// lockTimeout bounds how long a command waits for another process to
// release the store.
const lockTimeout = 10 * time.Second

// openStore opens the configured store for read-only commands.
func openStore() (*storage.Store, error) {
	s, err := storage.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return s, nil
}

// withStore runs fn against the configured store. Mutating commands set
// exclusive, which takes an advisory flock on <store>.lock so concurrent
// verfs invocations serialize on the file.
func withStore(exclusive bool, fn func(ctx context.Context, s *storage.Store) error) error {
	ctx := context.Background()

	if exclusive {
		lk := flock.New(cfg.Store + ".lock")
		lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
		defer cancel()
		locked, err := lk.TryLockContext(lockCtx, 250*time.Millisecond)
		if err != nil {
			return fmt.Errorf("failed to acquire lock on %s: %w", cfg.Store, err)
		}
		if !locked {
			return fmt.Errorf("store %s is locked by another process", cfg.Store)
		}
		defer lk.Unlock()
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(ctx, s)
}

// fileRef splits a command argument into an id or a path reference.
// Arguments starting with "/" are paths; everything else is a file id.
func fileRef(arg string) (fid, path string) {
	if strings.HasPrefix(arg, "/") {
		return "", arg
	}
	return arg, ""
}
