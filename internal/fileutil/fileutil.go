package fileutil

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CopyFile streams src to dst, truncating any existing file at dst. The copy
// stops with ctx.Err() if ctx is cancelled part way; dst is then removed.
func CopyFile(ctx context.Context, src, dst string) error {
	_, _, err := copyHashed(ctx, src, dst, false)
	return err
}

// CopyFileVerified copies src over dst and confirms the bytes written match the
// bytes read by size and SHA256. On mismatch dst is removed.
func CopyFileVerified(ctx context.Context, src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("source %q is a directory", src)
	}
	written, match, err := copyHashed(ctx, src, dst, true)
	if err != nil {
		return err
	}
	if written != info.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	}
	if !match {
		_ = os.Remove(dst)
		return errors.New("copy hash mismatch: file corrupted during copy")
	}
	return nil
}

// ReplaceFileVerified copies src into a temporary file beside dst, verifies
// it, and renames it over dst. dst is either fully replaced or left as it was.
func ReplaceFileVerified(ctx context.Context, src, dst string) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.partial")
	if err != nil {
		return fmt.Errorf("create temporary destination: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temporary destination: %w", err)
	}
	if err := CopyFileVerified(ctx, src, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temporary destination: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace destination: %w", err)
	}
	return nil
}

// RemoveIfExists deletes path and treats a missing file as success.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func copyHashed(ctx context.Context, src, dst string, verify bool) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	in, err := os.Open(src)
	if err != nil {
		return 0, false, fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, false, fmt.Errorf("open destination: %w", err)
	}

	var reader io.Reader = ctxReader{ctx: ctx, r: in}
	var writer io.Writer = out
	srcHasher := sha256.New()
	dstHasher := sha256.New()
	if verify {
		reader = io.TeeReader(reader, srcHasher)
		writer = io.MultiWriter(out, dstHasher)
	}

	written, err := io.Copy(writer, reader)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close destination: %w", closeErr)
	}
	if err != nil {
		_ = os.Remove(dst)
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return written, false, ctxErr
		}
		return written, false, fmt.Errorf("copy data: %w", err)
	}
	return written, bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)), nil
}

// ctxReader fails reads once ctx is done so long copies honour cancellation.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
