// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gradient

import (
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the table as a flat headerless file.
//
// The data is written to a temporary file in the same directory then renamed,
// so path either holds the complete table or is left untouched.
func Save(path string, t Table) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("gradient: %w", err)
	}
	tmp := f.Name()
	_, err = f.Write(t)
	if err2 := f.Close(); err == nil {
		err = err2
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("gradient: writing %s: %w", path, err)
	}
	return nil
}

// Load reads a table written by Save.
func Load(path string) (Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gradient: %w", err)
	}
	if len(b)%3 != 0 || len(b) < 6 {
		return nil, fmt.Errorf("gradient: %s: invalid size %d; expected at least 2 RGB triples", path, len(b))
	}
	return Table(b), nil
}
