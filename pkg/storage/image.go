package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrCorruptImage     = errors.New("image cannot be decoded")
)

// AllowedImageTypes lists the thumbnail formats accepted on upload.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif"}

// Image is an upload that passed InspectImage.
type Image struct {
	Data      []byte
	MIME      string
	Extension string
	Width     int
	Height    int
}

// InspectImage reads at most maxBytes+1 bytes from r and checks that the
// content sniffs as an allowed type, fits in maxBytes and decodes.
func InspectImage(r io.Reader, maxBytes int64) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), AllowedImageTypes...) {
		return nil, ErrUnsupportedImage
	}

	if int64(len(data)) > maxBytes {
		return nil, ErrFileTooLarge
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}

	bounds := img.Bounds()
	return &Image{
		Data:      data,
		MIME:      mtype.String(),
		Extension: mtype.Extension(),
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}, nil
}
