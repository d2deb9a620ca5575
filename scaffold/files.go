package scaffold

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type WriteHook func(io.Writer) error

func WriteToFile(dir, name string, hook WriteHook) (err error) {
	fd, err := os.Create(filepath.Clean(filepath.Join(dir, name)))
	if err != nil {
		return fmt.Errorf("failed to create %q file: %w", name, err)
	}

	err = hook(fd)
	if err != nil {
		_ = fd.Close()

		return fmt.Errorf("failed to write to %q: %w", name, err)
	}

	err = fd.Close()
	if err != nil {
		return fmt.Errorf("failed to close %q after writing: %w", name, err)
	}

	return nil
}

func BytesHook(contents []byte) WriteHook {
	return func(fd io.Writer) error {
		_, err := fd.Write(contents)

		return err
	}
}

// exists reports whether path is present, without following a final symlink.
func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	} else if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}
