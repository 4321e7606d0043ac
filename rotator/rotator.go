// Package rotator chains the three stages of a rotation: resolve the
// request, run the external transform into a temp file, then back up and
// replace the original. It owns no policy of its own; each stage keeps
// its own failure contract.
package rotator

import (
	"context"
	"os"

	"github.com/picsafe/rotate/logutil"
	"github.com/picsafe/rotate/rotation"
)

// Transformer produces a rotated temporary file for a request.
type Transformer interface {
	Transform(ctx context.Context, req rotation.Request) (tmpPath string, err error)
}

// Replacer backs up the original and swaps the temp file into place.
type Replacer interface {
	Replace(srcPath, tmpPath string) (backupPath string, err error)
}

// Result describes one completed rotation.
type Result struct {
	// Path is the absolute path of the rotated file.
	Path string
	// Direction is the rotation that was applied.
	Direction rotation.Direction
	// Angle is the clockwise angle in degrees.
	Angle int
	// BackupPath is where the pre-rotation original was copied.
	BackupPath string
}

// Rotator performs rotations one at a time.
type Rotator struct {
	transformer Transformer
	replacer    Replacer
	log         *logutil.ComponentLogger
}

// New creates a Rotator.
func New(transformer Transformer, replacer Replacer) *Rotator {
	return &Rotator{
		transformer: transformer,
		replacer:    replacer,
		log:         logutil.NewLogger("rotator"),
	}
}

// Rotate resolves and executes one rotation. The original file is replaced
// only if the external tool succeeded, its output is non-empty, and the
// backup copy was written; any failure leaves the original untouched with
// no temporary artifacts behind.
func (r *Rotator) Rotate(ctx context.Context, path, token string) (Result, error) {
	req, err := rotation.Resolve(path, token)
	if err != nil {
		return Result{}, err
	}

	log := r.log.WithFields("path", req.Path, "direction", req.Direction.String())
	log.Debug("rotation resolved", "angle", req.Angle(), "kind", req.Kind.String())

	tmpPath, err := r.transformer.Transform(ctx, req)
	if err != nil {
		return Result{}, err
	}

	backupPath, err := r.replacer.Replace(req.Path, tmpPath)
	if err != nil {
		// Replace removes the temp file on its own failure paths; this is
		// a second line of defense should it ever not.
		_ = os.Remove(tmpPath)
		return Result{}, err
	}

	log.Info("rotated", "angle", req.Angle(), "backup", backupPath)

	return Result{
		Path:       req.Path,
		Direction:  req.Direction,
		Angle:      req.Angle(),
		BackupPath: backupPath,
	}, nil
}
