package pdf

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Assets holds the raster artwork composited onto documents. Any member may
// be nil: a missing logo falls back to the text masthead and a missing stamp
// is skipped.
type Assets struct {
	Logo          *Image
	StampOriginal *Image
	StampCIT      *Image
}

// Image pairs raw bytes with the format tag gofpdf expects.
type Image struct {
	Data   []byte
	Format string
}

var assetFilenames = map[string][]string{
	"logo":           {"logo.png", "logo.jpg", "logo.jpeg"},
	"stamp_original": {"stamp_original.png"},
	"stamp_cit":      {"stamp_cit.png"},
}

// LoadAssets reads the known artwork files from dir. Files that do not exist
// are left nil; unreadable or non-image files are an error.
func LoadAssets(dir string) (*Assets, error) {
	assets := &Assets{}
	var err error
	if assets.Logo, err = loadFirst(dir, assetFilenames["logo"]); err != nil {
		return nil, err
	}
	if assets.StampOriginal, err = loadFirst(dir, assetFilenames["stamp_original"]); err != nil {
		return nil, err
	}
	if assets.StampCIT, err = loadFirst(dir, assetFilenames["stamp_cit"]); err != nil {
		return nil, err
	}
	return assets, nil
}

func loadFirst(dir string, names []string) (*Image, error) {
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return ImageFromBytes(data)
	}
	return nil, nil
}

// ImageFromBytes sniffs the payload and maps it onto a gofpdf format tag.
func ImageFromBytes(data []byte) (*Image, error) {
	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is("image/png"):
		return &Image{Data: data, Format: "PNG"}, nil
	case mtype.Is("image/jpeg"):
		return &Image{Data: data, Format: "JPG"}, nil
	default:
		return nil, &UnsupportedImageError{MimeType: mtype.String()}
	}
}

// UnsupportedImageError reports artwork in a format gofpdf cannot embed.
type UnsupportedImageError struct {
	MimeType string
}

func (e *UnsupportedImageError) Error() string {
	return "unsupported image format " + strings.TrimSpace(e.MimeType)
}
