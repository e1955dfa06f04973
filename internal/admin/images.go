package admin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/mind-engage/examdesk/internal/quiz"
)

const (
	DefaultImageBucket = "exam-images"
	DefaultImageMaxDim = 1600
)

// ErrUpload marks any failure while storing a question image.
var ErrUpload = errors.New("image upload failed")

type ImageOptions struct {
	Bucket string
	MaxDim int // longest side after normalization; 0 keeps the original size
}

// UploadQuestionImage stores the image and points the question at its public
// URL. On failure the question is left as it was; a stored file whose URL
// could not be resolved is not cleaned up.
func (s *Service) UploadQuestionImage(ctx context.Context, setID, qid, filename, contentType string, r io.Reader) (quiz.Question, error) {
	set, err := s.GetSet(ctx, setID)
	if err != nil {
		return quiz.Question{}, err
	}
	if _, err := quiz.FindQuestion(set, qid); err != nil {
		return quiz.Question{}, err
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return quiz.Question{}, fmt.Errorf("%w: read: %v", ErrUpload, err)
	}
	data, ext, ctype := NormalizeImage(raw, filename, contentType, s.images.MaxDim)

	key := fmt.Sprintf("%d-%s%s", quiz.Now().UnixMilli(), uuid.NewString(), ext)
	stored, err := s.blobs.Upload(ctx, s.images.Bucket, key, bytes.NewReader(data), ctype)
	if err != nil {
		return quiz.Question{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	url, err := s.blobs.PublicURL(s.images.Bucket, stored)
	if err != nil {
		return quiz.Question{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	return s.UpdateQuestion(ctx, setID, qid, QuestionPatch{ImageURL: &url})
}

// NormalizeImage shrinks decodable images so their longest side is at most
// maxDim and re-encodes them in their own format. Anything that does not
// decode is passed through untouched.
func NormalizeImage(raw []byte, filename, contentType string, maxDim int) ([]byte, string, string) {
	ext := strings.ToLower(filepath.Ext(filename))
	if maxDim <= 0 {
		return raw, ext, contentType
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return raw, ext, contentType
	}
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return raw, ext, contentType
	}

	outExt := ext
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		format, outExt = imaging.JPEG, ".jpg"
	}
	var out bytes.Buffer
	if err := imaging.Encode(&out, fit(img, maxDim), format); err != nil {
		return raw, ext, contentType
	}
	return out.Bytes(), outExt, mimeFor(format)
}

func fit(img image.Image, maxDim int) image.Image {
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
}

func mimeFor(f imaging.Format) string {
	switch f {
	case imaging.PNG:
		return "image/png"
	case imaging.GIF:
		return "image/gif"
	case imaging.BMP:
		return "image/bmp"
	case imaging.TIFF:
		return "image/tiff"
	default:
		return "image/jpeg"
	}
}
