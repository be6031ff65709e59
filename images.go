package sitekit

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
)

// ImageStore keeps processed thumbnail assets in a directory. Posts refer
// to them by the filename returned from Save.
type ImageStore struct {
	dir string
}

// NewImageStore returns a store rooted at dir. The directory is created on
// first save.
func NewImageStore(dir string) *ImageStore {
	return &ImageStore{dir: dir}
}

// Dir returns the asset directory.
func (s *ImageStore) Dir() string { return s.dir }

// Path returns the on-disk path for a stored filename.
func (s *ImageStore) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Save processes the image from src and writes it into the store under a
// unique slugified filename. The returned Image carries the reference a
// post stores in its Thumbnail field.
func (s *ImageStore) Save(src io.Reader, originalName string) (Image, error) {
	img, data, err := processImage(src, originalName)
	if err != nil {
		return Image{}, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Image{}, err
	}
	img.Filename = s.uniqueFilename(img.Filename)
	if err := os.WriteFile(s.Path(img.Filename), data, 0o644); err != nil {
		return Image{}, err
	}
	return img, nil
}

// List returns the stored images sorted by filename.
func (s *ImageStore) List() ([]Image, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []Image
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jpg") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Image{
			Filename:   e.Name(),
			Size:       int(info.Size()),
			UploadedAt: info.ModTime().UTC().Format(time.RFC3339),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

// Delete removes a stored image by filename.
func (s *ImageStore) Delete(filename string) error {
	return os.Remove(s.Path(filename))
}

// processImage decodes an image from src, downscales it to maxImageWidth
// when wider, and re-encodes it as JPEG.
func processImage(src io.Reader, originalName string) (Image, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return Image{
		Filename:     slugifyFilename(originalName) + ".jpg",
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
	}, buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	slug := Slugify(base)
	if slug == "" {
		slug = "image"
	}
	return slug
}

// uniqueFilename appends a counter while the filename exists on disk.
func (s *ImageStore) uniqueFilename(filename string) string {
	base := strings.TrimSuffix(filename, ".jpg")
	candidate := filename
	counter := 1
	for {
		if _, err := os.Stat(s.Path(candidate)); os.IsNotExist(err) {
			return candidate
		}
		counter++
		candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
	}
}
