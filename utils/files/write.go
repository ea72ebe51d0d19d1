// Package files keeps helpers for producing output files.
package files

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// WriteFile replaces destination atomically: data goes to a temporary file
// in the same directory first.
func WriteFile(dst string, data []byte, overwrite bool, log *zap.Logger) (err error) {
	if _, err := os.Stat(dst); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", dst)
		}
		log.Debug("Overwriting existing file", zap.String("file", dst))
	} else if !os.IsNotExist(err) {
		return err
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("unable to set output file mode: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("unable to replace output file: %w", err)
	}
	return nil
}
