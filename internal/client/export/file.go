package export

import (
	"context"

	"github.com/covyhq/covy/internal/client/models"
	"github.com/covyhq/covy/internal/filex"
)

type FileExporter struct {
	dir string
}

func NewFileExporter(dir string) *FileExporter {
	return &FileExporter{dir: dir}
}

// Export writes the letter content to a new file in the export directory.
// An existing file with the same name is never overwritten.
func (e *FileExporter) Export(_ context.Context, letter models.CoverLetter) (string, error) {
	if letter.Content == "" {
		return "", ErrEmptyLetter
	}

	dir, err := filex.EnsureDir(e.dir)
	if err != nil {
		return "", err
	}

	path := filex.UniquePath(dir, FileName(letter))
	if err := filex.WriteFile(path, []byte(letter.Content)); err != nil {
		return "", err
	}
	return path, nil
}
