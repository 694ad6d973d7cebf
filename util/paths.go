// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"os"
	"path/filepath"
)

// EnsureAbsolute - ensure the path is absolute
// if not, prepend the directory to make absolute path
func EnsureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}

// EnsureFileExists - check if file exists
func EnsureFileExists(name string) bool {
	_, err := os.Stat(name)
	return nil == err
}

// WriteFileAtomically - write to a temporary file in the same
// directory then rename over the target
func WriteFileAtomically(name string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(name), filepath.Base(name)+".*.tmp")
	if nil != err {
		return err
	}
	tmp := f.Name()

	_, err = f.Write(data)
	if nil == err {
		err = f.Sync()
	}
	if closeErr := f.Close(); nil == err {
		err = closeErr
	}
	if nil != err {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, name)
}
