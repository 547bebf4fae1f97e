// Package push uploads local files to the remote tree.
package push

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bayside-church/magnus-cli/internal/logging"
)

// ErrFileNotFound is returned when the local file does not exist.
var ErrFileNotFound = errors.New("file not found")

// Saver writes remote file content.
type Saver interface {
	SaveContent(ctx context.Context, fileName string, content []byte) error
}

// File uploads localPath to target. An empty target uses the local base
// name. It returns the remote name written.
func File(ctx context.Context, remote Saver, localPath, target string) (string, error) {
	content, err := os.ReadFile(localPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, localPath)
		}
		return "", fmt.Errorf("read %s: %w", localPath, err)
	}

	if target == "" {
		target = filepath.Base(localPath)
	}

	if err := remote.SaveContent(ctx, target, content); err != nil {
		return "", fmt.Errorf("push %s: %w", target, err)
	}

	logging.Info("pushed file",
		zap.String("file", localPath),
		zap.String("target", target),
		zap.Int("bytes", len(content)))
	return target, nil
}
