// Copyright (c) The sccompress Authors
// SPDX-License-Identifier: MPL-2.0

package sccompress

import (
	"io"
	"io/fs"
)

// Target specifies all functions that are needed to be implemented to store
// decompressed output.
type Target interface {
	// CreateFile creates a file at the specified path with src as content.
	// The mode parameter is the file mode that should be set on the file. If
	// the file already exists and overwrite is false, an error should be
	// returned. The size of the file should not exceed maxSize; if
	// maxSize < 0, the file size is not limited. If the file is created
	// successfully, the number of bytes written should be returned along
	// with any error that occurred.
	CreateFile(path string, src io.Reader, mode fs.FileMode, overwrite bool, maxSize int64) (int64, error)

	// Stat see docs for os.Stat. Main purpose is to check if an output file
	// already exists.
	Stat(path string) (fs.FileInfo, error)
}
