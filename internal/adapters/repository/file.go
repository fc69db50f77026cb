package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/okian/typerank/internal/domain/score"
	"github.com/okian/typerank/pkg/logger"
)

const defaultFileMode fs.FileMode = 0o644

// FileTier stores the collection as one indented JSON document.
type FileTier struct {
	path   string
	perm   fs.FileMode
	logger logger.Logger
}

// NewFileTier returns a tier backed by the file at path.
func NewFileTier(path string, perm fs.FileMode) *FileTier {
	if perm == 0 {
		perm = defaultFileMode
	}
	return &FileTier{path: path, perm: perm, logger: logger.Nop()}
}

// Name implements Tier.
func (f *FileTier) Name() string { return "file" }

// Path returns the document location.
func (f *FileTier) Path() string { return f.path }

// Load implements Store. A missing file yields ErrNotFound and an unparsable
// document yields ErrCorrupt.
func (f *FileTier) Load(ctx context.Context) (Collection, error) {
	if err := ctx.Err(); err != nil {
		return Collection{}, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Collection{}, fmt.Errorf("%s: %w", f.path, ErrNotFound)
		}
		return Collection{}, fmt.Errorf("read %s: %w", f.path, err)
	}
	return decodeDocument(ctx, f.logger, f.Name(), data)
}

// Save implements Store. The document is written to a temp file in the same
// directory and renamed over the target, so readers never see a partial file.
func (f *FileTier) Save(ctx context.Context, c Collection) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c.Clone(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), f.perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("rename to %s: %w", f.path, err)
	}
	return nil
}

// decodeDocument parses a stored document and drops the records that break
// the record invariants, logging each one. Shared by the file and Redis tiers
// so both accept exactly the same shape. Only an unparsable document is
// ErrCorrupt; one bad record must not cost the rest of the leaderboard.
func decodeDocument(ctx context.Context, l logger.Logger, tier string, data []byte) (Collection, error) {
	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return Collection{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	kept, rejected := c.Sanitize()
	for _, r := range rejected {
		fields := []logger.Field{
			logger.String("tier", tier),
			logger.Int("index", r.Index),
			logger.String("id", r.ID),
			logger.Error(r.Err),
		}
		var verr *score.ValidationError
		if errors.As(r.Err, &verr) {
			fields = append(fields, logger.String("field", verr.Field))
		}
		l.Warn(ctx, "dropping invalid stored record", fields...)
	}
	return kept.Clone(), nil
}
