package daemon

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/logging"
)

// OpenLog points the process logger at a size-rotated file at path. The
// returned closer flushes and closes the file.
func OpenLog(path string, asJSON, debug bool) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	w := logging.NewFileWriter(logging.DefaultFileConfig(path))

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logging.Init(logging.Config{Level: level, JSON: asJSON, Output: w, AddSource: debug})
	return w, nil
}
