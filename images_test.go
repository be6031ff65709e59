package sitekit

import (
	"bytes"
	"image"
	"image/png"
	"path/filepath"
	"testing"
)

func pngReader(t *testing.T, w, h int) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestImageSave(t *testing.T) {
	store := NewImageStore(filepath.Join(t.TempDir(), "uploads"))
	img, err := store.Save(pngReader(t, 100, 50), "My Photo.png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if img.Filename != "my-photo.jpg" {
		t.Errorf("filename = %q", img.Filename)
	}
	if img.Width != 100 || img.Height != 50 {
		t.Errorf("size = %dx%d", img.Width, img.Height)
	}
	if img.OriginalName != "My Photo.png" {
		t.Errorf("original = %q", img.OriginalName)
	}

	list, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Filename != "my-photo.jpg" {
		t.Errorf("list = %+v", list)
	}
}

func TestImageDownscale(t *testing.T) {
	store := NewImageStore(t.TempDir())
	img, err := store.Save(pngReader(t, 1600, 400), "wide.png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if img.Width != 800 || img.Height != 200 {
		t.Errorf("downscaled to %dx%d, want 800x200", img.Width, img.Height)
	}
}

func TestImageUniqueFilename(t *testing.T) {
	store := NewImageStore(t.TempDir())
	first, _ := store.Save(pngReader(t, 10, 10), "dup.png")
	second, err := store.Save(pngReader(t, 10, 10), "dup.png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first.Filename != "dup.jpg" || second.Filename != "dup-2.jpg" {
		t.Errorf("filenames = %q, %q", first.Filename, second.Filename)
	}
}

func TestImageDelete(t *testing.T) {
	store := NewImageStore(t.TempDir())
	img, _ := store.Save(pngReader(t, 10, 10), "gone.png")
	if err := store.Delete(img.Filename); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, _ := store.List()
	if len(list) != 0 {
		t.Errorf("list after delete = %+v", list)
	}
}

func TestImageBadInput(t *testing.T) {
	store := NewImageStore(t.TempDir())
	if _, err := store.Save(bytes.NewReader([]byte("not an image")), "x.png"); err == nil {
		t.Fatal("Save accepted garbage input")
	}
}

func TestImageListEmptyDir(t *testing.T) {
	store := NewImageStore(filepath.Join(t.TempDir(), "never-created"))
	list, err := store.List()
	if err != nil || list != nil {
		t.Errorf("List = %v, %v", list, err)
	}
}

func TestSlugifyFilename(t *testing.T) {
	cases := []struct{ in, want string }{
		{"My Photo.PNG", "my-photo"},
		{"weird!!name.jpg", "weird-name"},
		{"....", "image"},
		{"no-extension", "no-extension"},
	}
	for _, c := range cases {
		if got := slugifyFilename(c.in); got != c.want {
			t.Errorf("slugifyFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
