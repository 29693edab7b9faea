package image

import (
	"bytes"
	"io"
	"os"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrStaleSource is returned when the bytes at the recorded Orientation
// offset no longer hold the decoded value, e.g. because the source file
// changed after it was decoded.
var ErrStaleSource = errors.New("image: orientation bytes do not match decoded value")

// SetOrientation writes a copy of m's file to target with the 2-byte
// Orientation value replaced by value, encoded in the file's Exif byte
// order. No other byte changes and the file size is preserved. The
// target gets the source's permission bits and modification time.
//
// Preconditions that do not hold are reported as an outcome, not an
// error; errors are I/O failures only.
func SetOrientation(m *Metadata, value uint16, target string) (core.OrientOutcome, error) {
	return setOrientation(m, value, target, false)
}

func setOrientation(m *Metadata, value uint16, target string, dryRun bool) (core.OrientOutcome, error) {
	if value < 1 || value > 8 {
		return 0, errors.Errorf("image: orientation %d out of range 1-8", value)
	}
	if m.Exif == nil {
		return core.OrientNoExif, nil
	}
	v, ok := m.Orientation()
	if !ok {
		return core.OrientNoTag, nil
	}
	current := v.Shorts[0]
	if current == value {
		return core.OrientUnchanged, nil
	}
	if _, err := os.Lstat(target); err == nil {
		return core.OrientTargetExists, nil
	} else if !os.IsNotExist(err) {
		return 0, err
	}
	if m.Format != core.FmtJPEG || core.FormatForExt(target) != core.FmtJPEG {
		return core.OrientBadExtension, nil
	}
	if m.Path == "" {
		return 0, errors.New("image: metadata was not decoded from a file")
	}

	off := m.ExifOffset + int64(v.Offset)
	l := log.With().Str("path", m.Path).Str("target", target).Int64("offset", off).Logger()
	if dryRun {
		l.Info().Uint16("from", current).Uint16("to", value).Msg("image: dry run")
		return core.OrientDryRun, nil
	}

	old, repl := m.ByteOrder.PutUint16(current), m.ByteOrder.PutUint16(value)
	if err := copyPatched(m.Path, target, off, old, repl); err != nil {
		if errors.Is(err, os.ErrExist) {
			return core.OrientTargetExists, nil
		}
		return 0, err
	}
	l.Debug().Uint16("from", current).Uint16("to", value).Msg("image: orientation written")
	return core.OrientWritten, nil
}

// copyPatched copies src to the new file dst, replacing the len(old)
// bytes at off with repl after checking they equal old. dst is removed
// again if anything fails after it was created.
func copyPatched(src, dst string, off int64, old, repl []byte) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	st, err := in.Stat()
	if err != nil {
		return err
	}
	if off < 0 || off+int64(len(old)) > st.Size() {
		return errors.Errorf("image: orientation offset %#x outside %d-byte file", off, st.Size())
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, st.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(dst)
		}
	}()

	if _, err = io.CopyN(out, in, off); err != nil {
		return errors.Wrap(err, "image: copying head")
	}
	cur := make([]byte, len(old))
	if _, err = io.ReadFull(in, cur); err != nil {
		return errors.Wrap(err, "image: reading orientation bytes")
	}
	if !bytes.Equal(cur, old) {
		return errors.Wrapf(ErrStaleSource, "found % X at offset %#x, want % X", cur, off, old)
	}
	if _, err = out.Write(repl); err != nil {
		return errors.Wrap(err, "image: writing orientation bytes")
	}
	if _, err = io.Copy(out, in); err != nil {
		return errors.Wrap(err, "image: copying tail")
	}
	if err = out.Chmod(st.Mode().Perm()); err != nil {
		return err
	}
	if err = out.Sync(); err != nil {
		return err
	}
	return os.Chtimes(dst, st.ModTime(), st.ModTime())
}
