package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestBucketSaveGetDelete(t *testing.T) {
	b, err := NewBucket(t.TempDir(), BucketCovers)
	if err != nil {
		t.Fatalf("new bucket: %v", err)
	}

	data := []byte("image bytes")
	if err := b.Save("art-1.jpg", data); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !b.Exists("art-1.jpg") {
		t.Error("expected file to exist")
	}

	got, err := b.Get("art-1.jpg")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("got %q, want %q", got, data)
	}

	if err := b.Delete("art-1.jpg"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if b.Exists("art-1.jpg") {
		t.Error("expected file removed")
	}

	// Deleting again is a no-op.
	if err := b.Delete("art-1.jpg"); err != nil {
		t.Errorf("repeat delete: %v", err)
	}
}

func TestBucketRejectsPathTraversal(t *testing.T) {
	b, err := NewBucket(t.TempDir(), BucketAvatars)
	if err != nil {
		t.Fatalf("new bucket: %v", err)
	}

	for _, key := range []string{"", "..", "a/b.jpg", `a\b.jpg`} {
		if err := b.Save(key, []byte("x")); err == nil {
			t.Errorf("expected key %q to be rejected", key)
		}
	}
}

func TestStoragePathAndPublicURL(t *testing.T) {
	b, err := NewBucket(t.TempDir(), BucketEbooks)
	if err != nil {
		t.Fatalf("new bucket: %v", err)
	}

	path := b.StoragePath("ebk-1.epub")
	if path != "ebooks/ebk-1.epub" {
		t.Errorf("got storage path %q", path)
	}

	url := PublicURL("https://inkwell.example/", path)
	if url != "https://inkwell.example/files/ebooks/ebk-1.epub" {
		t.Errorf("got url %q", url)
	}

	if PublicURL("https://inkwell.example", "") != "" {
		t.Error("empty storage path should resolve to empty URL")
	}
}

func TestComputeBlurHash(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 80))
	for y := range 80 {
		for x := range 100 {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	hash, err := ComputeBlurHash(buf.Bytes())
	if err != nil {
		t.Fatalf("compute blurhash: %v", err)
	}
	if hash == "" {
		t.Error("expected non-empty hash")
	}
}

func TestComputeBlurHashRejectsGarbage(t *testing.T) {
	if _, err := ComputeBlurHash([]byte("not an image")); err == nil {
		t.Error("expected decode error")
	}
}
