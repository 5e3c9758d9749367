// Copyright (c) The sccompress Authors
// SPDX-License-Identifier: MPL-2.0

package sccompress

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"sync"
	"time"
)

// TargetMemory stores decompressed output in memory. It is safe for
// concurrent use and mainly useful in tests and for callers that want to
// avoid filesystem access.
type TargetMemory struct {
	mu    sync.Mutex
	files map[string]*memoryFile
}

// memoryFile is a single file stored in a TargetMemory
type memoryFile struct {
	name    string
	content []byte
	mode    fs.FileMode
	modTime time.Time
}

// NewTargetMemory creates a new TargetMemory
func NewTargetMemory() *TargetMemory {
	return &TargetMemory{files: make(map[string]*memoryFile)}
}

// CreateFile stores a file at the specified path with src as content. If the
// file already exists and overwrite is false, an error is returned. The size
// of the file should not exceed maxSize; if maxSize < 0, the file size is
// not limited.
func (t *TargetMemory) CreateFile(path string, src io.Reader, mode fs.FileMode, overwrite bool, maxSize int64) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// check for overwrite
	if _, ok := t.files[path]; ok && !overwrite {
		return 0, fmt.Errorf("file already exists")
	}

	// write data to memory
	var buf bytes.Buffer
	n, err := io.Copy(limitWriter(&buf, maxSize), src)
	if err != nil {
		return n, fmt.Errorf("failed to write file: %w", err)
	}

	t.files[path] = &memoryFile{
		name:    path,
		content: buf.Bytes(),
		mode:    mode.Perm(),
		modTime: time.Now(),
	}
	return n, nil
}

// Stat returns the FileInfo structure describing the stored file.
func (t *TargetMemory) Stat(name string) (fs.FileInfo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, ok := t.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return &memoryFileInfo{f: f}, nil
}

// ReadFile returns the content of the stored file.
func (t *TargetMemory) ReadFile(name string) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, ok := t.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	content := make([]byte, len(f.content))
	copy(content, f.content)
	return content, nil
}

// memoryFileInfo implements fs.FileInfo for a memoryFile
type memoryFileInfo struct {
	f *memoryFile
}

// Name returns the name of the file
func (fi *memoryFileInfo) Name() string { return fi.f.name }

// Size returns the size of the file
func (fi *memoryFileInfo) Size() int64 { return int64(len(fi.f.content)) }

// Mode returns the mode of the file
func (fi *memoryFileInfo) Mode() fs.FileMode { return fi.f.mode }

// ModTime returns the modification time of the file
func (fi *memoryFileInfo) ModTime() time.Time { return fi.f.modTime }

// IsDir returns false, a TargetMemory only stores files
func (fi *memoryFileInfo) IsDir() bool { return false }

// Sys returns nil
func (fi *memoryFileInfo) Sys() any { return nil }
