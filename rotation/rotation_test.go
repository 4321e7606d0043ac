package rotation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		token   string
		want    Direction
		wantErr bool
	}{
		{token: "l", want: Left},
		{token: "r", want: Right},
		{token: "f", want: Flip},
		{token: "L", want: Left},
		{token: "R", want: Right},
		{token: "F", want: Flip},
		{token: " r ", want: Right},
		{token: "x", wantErr: true},
		{token: "", wantErr: true},
		{token: "right", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseDirection(tt.token)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDirection) {
					t.Fatalf("ParseDirection(%q) error = %v, want ErrInvalidDirection", tt.token, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDirection(%q) error = %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("ParseDirection(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestDirectionAngles(t *testing.T) {
	if got := Left.Angle(); got != 270 {
		t.Errorf("Left.Angle() = %d, want 270", got)
	}
	if got := Right.Angle(); got != 90 {
		t.Errorf("Right.Angle() = %d, want 90", got)
	}
	if got := Flip.Angle(); got != 180 {
		t.Errorf("Flip.Angle() = %d, want 180", got)
	}
}

func TestKindForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Kind
		wantErr bool
	}{
		{path: "photo.jpg", want: JPEG},
		{path: "photo.jpeg", want: JPEG},
		{path: "photo.JPG", want: JPEG},
		{path: "photo.JPeG", want: JPEG},
		{path: "icon.png", want: PNG},
		{path: "icon.PNG", want: PNG},
		{path: "doc.pdf", wantErr: true},
		{path: "archive.tar.gz", wantErr: true},
		{path: "noext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := KindForPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedType) {
					t.Fatalf("KindForPath(%q) error = %v, want ErrUnsupportedType", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("KindForPath(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("KindForPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	jpg := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(jpg, []byte("jpeg"), 0644); err != nil {
		t.Fatal(err)
	}

	req, err := Resolve(jpg, "r")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if req.Path != jpg {
		t.Errorf("Path = %q, want %q", req.Path, jpg)
	}
	if req.Direction != Right {
		t.Errorf("Direction = %v, want Right", req.Direction)
	}
	if req.Kind != JPEG {
		t.Errorf("Kind = %v, want JPEG", req.Kind)
	}
	if req.Angle() != 90 {
		t.Errorf("Angle() = %d, want 90", req.Angle())
	}
}

func TestResolveMissingFile(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "missing.png"), "l")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Resolve() error = %v, want ErrFileNotFound", err)
	}
}

func TestResolveDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "album.jpg")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}

	_, err := Resolve(sub, "r")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Resolve() on directory error = %v, want ErrFileNotFound", err)
	}
}

func TestResolveBadDirectionBeforeStat(t *testing.T) {
	// An invalid token is reported even when the file is also missing.
	_, err := Resolve("/nonexistent/photo.jpg", "z")
	if !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("Resolve() error = %v, want ErrInvalidDirection", err)
	}
}

func TestResolveUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	gif := filepath.Join(dir, "anim.gif")
	if err := os.WriteFile(gif, []byte("gif"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Resolve(gif, "f")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Resolve() error = %v, want ErrUnsupportedType", err)
	}
}
