package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

// ErrCopyMismatch reports a copy whose bytes on disk differ from the source.
var ErrCopyMismatch = errors.New("copy verification failed")

// Move renames src to dst, falling back to a verified copy plus removal when
// the two paths are on different filesystems.
func Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := CopyFileVerified(src, dst); err != nil {
		return fmt.Errorf("cross-device copy: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// CopyFileVerified copies src to dst, then reads dst back and compares its
// size and SHA-256 with what was read from src. dst is removed when they
// differ. The source file mode is kept.
func CopyFileVerified(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	digest := sha256.New()
	written, err := io.Copy(out, io.TeeReader(in, digest))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err == nil && written != info.Size() {
		err = fmt.Errorf("%w: source %d bytes, copied %d bytes", ErrCopyMismatch, info.Size(), written)
	}
	if err == nil {
		err = verifyCopy(dst, written, digest.Sum(nil))
	}
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}

// verifyCopy re-reads path from disk and checks it against the expected
// size and digest.
func verifyCopy(path string, size int64, sum []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reopen copy: %w", err)
	}
	defer f.Close()

	digest := sha256.New()
	n, err := io.Copy(digest, f)
	if err != nil {
		return fmt.Errorf("read back copy: %w", err)
	}
	if n != size {
		return fmt.Errorf("%w: expected %d bytes on disk, found %d", ErrCopyMismatch, size, n)
	}
	if !bytes.Equal(digest.Sum(nil), sum) {
		return fmt.Errorf("%w: %s checksum differs from source", ErrCopyMismatch, path)
	}
	return nil
}
