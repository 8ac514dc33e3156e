// Package export writes cover letters outside the application: to a local
// directory or to an S3-compatible bucket.
package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/covyhq/covy/internal/client/models"
)

const (
	TargetFile = "file"
	TargetS3   = "s3"
)

var (
	ErrUnknownTarget = errors.New("unknown export target")
	ErrEmptyLetter   = errors.New("cover letter has no content")
)

// Exporter stores a letter and returns where it can be found: a file path
// or a URL.
type Exporter interface {
	Export(ctx context.Context, letter models.CoverLetter) (string, error)
}

// New returns the exporter for target.
func New(target, dir string, s3cfg S3Config) (Exporter, error) {
	switch target {
	case "", TargetFile:
		return NewFileExporter(dir), nil
	case TargetS3:
		if s3cfg.Bucket == "" {
			return nil, fmt.Errorf("s3 export: bucket is not configured")
		}
		return NewS3Exporter(s3cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
}

// FileName is the sanitized title of the letter with a .txt extension.
func FileName(letter models.CoverLetter) string {
	title := letter.Title
	if title == "" {
		title = models.LetterTitle(letter.JobTitle, letter.CompanyName)
	}
	return models.SanitizeFilename(title) + ".txt"
}
