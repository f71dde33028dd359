package attachments

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"

	"github.com/hoaxify/hoax/internal/blob"
	"github.com/hoaxify/hoax/internal/uid"
)

// maxProfileDim bounds the longest edge of a stored profile image.
const maxProfileDim = 512

// StoreProfileImage writes a profile image to the profile bucket and returns
// its generated filename. Decodable images larger than maxProfileDim are
// downscaled before storage; content that does not decode as an image is
// stored as-is.
func (s *Service) StoreProfileImage(ctx context.Context, buf []byte) (string, error) {
	filename, err := uid.RandomString(filenameLength)
	if err != nil {
		return "", err
	}
	if scaled, err := scaleProfileImage(buf); err == nil {
		buf = scaled
	}
	if err := s.blobs.Write(blob.Profile, filename, buf); err != nil {
		return "", err
	}
	return filename, nil
}

// DeleteProfileImage removes a previously stored profile image.
func (s *Service) DeleteProfileImage(ctx context.Context, filename string) error {
	return s.blobs.Delete(blob.Profile, filename)
}

func scaleProfileImage(buf []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() <= maxProfileDim && b.Dy() <= maxProfileDim {
		return buf, nil
	}
	img = resize.Thumbnail(maxProfileDim, maxProfileDim, img, resize.Lanczos3)

	var out bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&out, img, nil)
	default:
		err = png.Encode(&out, img)
	}
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
