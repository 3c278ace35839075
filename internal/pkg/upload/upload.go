// Package upload reads multipart uploads into memory after checking their
// size and sniffed content type.
package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"slices"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/yigit/unitrack/internal/pkg/apperrors"
)

// MaxSize is the upload limit for documents sent to the advisor.
const MaxSize = 10 << 20

// Accepted content types
var (
	ImageTypes    = []string{"image/jpeg", "image/png", "image/webp"}
	DocumentTypes = append(slices.Clone(ImageTypes), "application/pdf")
)

// File is an upload held in memory.
type File struct {
	Name string
	MIME string
	Data []byte
}

// Reader validates uploads against a size limit and a type allow-list
type Reader struct {
	maxSize int64
	allowed []string
	logger  zerolog.Logger
}

// NewReader creates a reader accepting the given MIME types.
func NewReader(maxSize int64, allowed []string, lgr zerolog.Logger) *Reader {
	return &Reader{
		maxSize: maxSize,
		allowed: allowed,
		logger:  lgr,
	}
}

// Transcripts accepts images only.
func Transcripts(lgr zerolog.Logger) *Reader {
	return NewReader(MaxSize, ImageTypes, lgr)
}

// Documents accepts images and PDF.
func Documents(lgr zerolog.Logger) *Reader {
	return NewReader(MaxSize, DocumentTypes, lgr)
}

// ReadHeader opens and reads a multipart file.
func (r *Reader) ReadHeader(fileHeader *multipart.FileHeader) (File, error) {
	if fileHeader == nil {
		return File{}, apperrors.NewCustomError(apperrors.ErrBadRequest, "no file uploaded")
	}
	if fileHeader.Size > r.maxSize {
		return File{}, fmt.Errorf("%w: %d bytes", apperrors.ErrFileTooLarge, fileHeader.Size)
	}

	file, err := fileHeader.Open()
	if err != nil {
		r.logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return File{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	return r.Read(fileHeader.Filename, file)
}

// Read reads at most the size limit from src and checks the content type.
func (r *Reader) Read(name string, src io.Reader) (File, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(src, r.maxSize+1))
	if err != nil {
		return File{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if n > r.maxSize {
		return File{}, fmt.Errorf("%w: more than %d bytes", apperrors.ErrFileTooLarge, r.maxSize)
	}
	if n == 0 {
		return File{}, apperrors.NewCustomError(apperrors.ErrBadRequest, "uploaded file is empty")
	}

	mtype := mimetype.Detect(buf.Bytes())
	if !mimetype.EqualsAny(mtype.String(), r.allowed...) {
		r.logger.Warn().Str("filename", name).Str("mime", mtype.String()).Msg("Rejected upload type")
		return File{}, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFile, mtype.String())
	}

	r.logger.Debug().Str("filename", name).Str("mime", mtype.String()).Int64("size", n).Msg("Upload accepted")
	return File{Name: name, MIME: mtype.String(), Data: buf.Bytes()}, nil
}
