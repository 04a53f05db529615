package stream

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sortir/internal/media"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	renderer := media.NewRenderer(nil)
	cache := media.NewThumbnailCache(renderer, 16)
	return New(cache, DefaultPort)
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func get(handler http.HandlerFunc, rawQuery string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/?"+rawQuery, nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestViewServesFileBytes(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	path := writePNG(t, dir, "photo.png", 10, 10)
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	rec := get(s.View, "path="+url.QueryEscape(path))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), want) {
		t.Error("response body does not match file bytes")
	}
}

func TestViewRejectsBadPaths(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		query string
		code  int
	}{
		{"missing param", "", http.StatusBadRequest},
		{"relative path", "path=photos%2Fcat.jpg", http.StatusBadRequest},
		{"nonexistent file", "path=%2Fno%2Fsuch%2Ffile.jpg", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(s.View, tt.query)
			if rec.Code != tt.code {
				t.Errorf("status = %d, want %d", rec.Code, tt.code)
			}
		})
	}
}

func TestViewRejectsDirectory(t *testing.T) {
	s := newTestServer(t)
	rec := get(s.View, "path="+url.QueryEscape(t.TempDir()))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestThumbnailReturnsJPEG(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	path := writePNG(t, dir, "photo.png", 400, 300)

	rec := get(s.Thumbnail, "path="+url.QueryEscape(path))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q, want image/jpeg", ct)
	}
	img, err := jpeg.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a decodable JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() > 150 || b.Dy() > 150 {
		t.Errorf("thumbnail is %dx%d, exceeds the 150px bounding box", b.Dx(), b.Dy())
	}
}

func TestThumbnailBadInputThenRecovers(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()

	// A corrupt asset must yield an error response without wedging the
	// handler for later requests.
	corrupt := filepath.Join(dir, "broken.jpg")
	if err := os.WriteFile(corrupt, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := get(s.Thumbnail, "path="+url.QueryEscape(corrupt))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("corrupt asset: status = %d, want 500", rec.Code)
	}

	rec = get(s.Thumbnail, "path="+url.QueryEscape("/no/such/file.png"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing asset: status = %d, want 404", rec.Code)
	}

	good := writePNG(t, dir, "good.png", 50, 50)
	rec = get(s.Thumbnail, "path="+url.QueryEscape(good))
	if rec.Code != http.StatusOK {
		t.Errorf("good asset after failures: status = %d, want 200", rec.Code)
	}
}

func TestViewURL(t *testing.T) {
	s := newTestServer(t)
	got := s.ViewURL("/photos/family vacation/clip.mp4")
	if !strings.HasPrefix(got, "http://127.0.0.1:23456/view?path=") {
		t.Errorf("ViewURL = %q, want loopback /view URL", got)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("ViewURL produced an unparsable URL: %v", err)
	}
	if p := u.Query().Get("path"); p != "/photos/family vacation/clip.mp4" {
		t.Errorf("round-tripped path = %q", p)
	}
}
