// Package rotation resolves a rotate request from user input: it maps a
// direction token to a clockwise angle, determines the image kind from the
// file extension, and verifies the target is an existing regular file.
// It performs no side effects.
package rotation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolution errors. Callers match with errors.Is.
var (
	// ErrInvalidDirection indicates the direction token is not l, r, or f.
	ErrInvalidDirection = errors.New("invalid direction")

	// ErrFileNotFound indicates the path does not reference an existing regular file.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedType indicates the file extension is not a supported image type.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Direction is a requested rotation direction.
type Direction int

const (
	// Left rotates 90 degrees counter-clockwise.
	Left Direction = iota
	// Right rotates 90 degrees clockwise.
	Right
	// Flip rotates 180 degrees.
	Flip
)

// Angle returns the clockwise rotation angle in degrees.
// A 90-degree counter-clockwise rotation is expressed as 270 clockwise,
// which is the convention jpegtran and ImageMagick share.
func (d Direction) Angle() int {
	switch d {
	case Left:
		return 270
	case Flip:
		return 180
	default:
		return 90
	}
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Flip:
		return "flip"
	default:
		return "right"
	}
}

// ParseDirection parses a single-character direction token, case-insensitive.
func ParseDirection(token string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "l":
		return Left, nil
	case "r":
		return Right, nil
	case "f":
		return Flip, nil
	default:
		return 0, fmt.Errorf("%w: %q (use 'l', 'r', or 'f')", ErrInvalidDirection, token)
	}
}

// Kind identifies the image encoding, derived from the file extension.
type Kind int

const (
	// JPEG covers .jpg and .jpeg files, rotated losslessly with jpegtran.
	JPEG Kind = iota
	// PNG covers .png files, rotated with ImageMagick.
	PNG
)

func (k Kind) String() string {
	if k == PNG {
		return "png"
	}
	return "jpeg"
}

// KindForPath determines the image kind from the path's extension,
// case-insensitive.
func KindForPath(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".png":
		return PNG, nil
	default:
		return 0, fmt.Errorf("%w: only jpeg and png files are supported", ErrUnsupportedType)
	}
}

// Request describes one fully-resolved rotation. It is immutable and
// discarded after the operation completes.
type Request struct {
	// Path is the absolute path to the source image.
	Path string
	// Direction is the requested rotation direction.
	Direction Direction
	// Kind is the image encoding derived from the extension.
	Kind Kind
}

// Angle returns the clockwise rotation angle for the request.
func (r Request) Angle() int {
	return r.Direction.Angle()
}

// Resolve validates path and token and builds a Request. The direction is
// checked first so a bad token is reported even for a missing file.
func Resolve(path, token string) (Request, error) {
	dir, err := ParseDirection(token)
	if err != nil {
		return Request{}, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return Request{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	kind, err := KindForPath(abs)
	if err != nil {
		return Request{}, err
	}

	return Request{Path: abs, Direction: dir, Kind: kind}, nil
}
