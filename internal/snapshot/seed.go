package snapshot

import (
	"context"
	"io"
	"os"
	"path/filepath"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/vytor/hvladder/internal/logger"
)

// copySeed replaces dst with a byte copy of src. The copy is written next to
// dst and renamed into place, so dst is never left half written.
func copySeed(ctx context.Context, src, dst string) error {
	log := logger.FromContext(ctx)

	id, err := gonanoid.New(8)
	if err != nil {
		return err
	}
	tmp := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+"."+id+".tmp")

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	n, err := io.Copy(out, in)
	if err == nil {
		err = out.Sync()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, dst)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}

	log.Debug("seeded %s from %s (%d bytes)", dst, src, n)
	return nil
}
