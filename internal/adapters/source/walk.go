package source

import (
	"archive/tar"
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	"github.com/aneoconsulting/logship/internal/domain"
)

// Kind classifies a local input.
type Kind int

const (
	KindText Kind = iota
	KindZip
	KindTarGz
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindZip:
		return "zip"
	case KindTarGz:
		return "tar.gz"
	default:
		return "unknown"
	}
}

// DetectKind classifies path by its name.
// Gzip-compressed text is detected from content when opened, not here.
func DetectKind(path string) Kind {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return KindZip
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return KindTarGz
	default:
		return KindText
	}
}

// EntryFunc receives one text stream. r is only valid during the call.
type EntryFunc func(name string, r io.Reader) error

// Walk calls fn for every text stream held by the input at path, in order.
// It stops at the first error returned by fn.
func Walk(path string, services []string, fn EntryFunc) error {
	switch DetectKind(path) {
	case KindZip:
		return walkZip(path, services, fn)
	case KindTarGz:
		return walkTarGz(path, services, fn)
	default:
		return walkText(path, fn)
	}
}

// SelectEntry reports whether an archive entry should be forwarded.
// An empty services list selects every .log entry.
func SelectEntry(name string, services []string) bool {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".json") {
		return true
	}
	if !strings.HasSuffix(lower, ".log") {
		return false
	}
	if len(services) == 0 {
		return true
	}

	segments := strings.Split(strings.TrimPrefix(name, "/"), "/")
	if len(segments) < 2 {
		return false
	}
	for _, s := range services {
		if segments[1] == s {
			return true
		}
	}
	return false
}

// SelectTarEntry reports whether a tarball entry should be forwarded.
// Every entry is, except .log entries rejected by SelectEntry.
func SelectTarEntry(name string, services []string) bool {
	if strings.HasSuffix(strings.ToLower(name), ".log") {
		return SelectEntry(name, services)
	}
	return true
}

// OpenText opens a text file, transparently decompressing gzip content.
func OpenText(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(f)
	r, err := maybeGunzip(br)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &readCloser{Reader: r, closers: []io.Closer{r, f}}, nil
}

var gzipMagic = []byte{0x1f, 0x8b}

// maybeGunzip wraps br in a gzip reader when the stream starts with the gzip
// magic number.
func maybeGunzip(br *bufio.Reader) (io.ReadCloser, error) {
	head, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if !bytes.Equal(head, gzipMagic) {
		return io.NopCloser(br), nil
	}
	gz, err := gzip.NewReader(br)
	if err != nil {
		return nil, err
	}
	return gz, nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var errs []error
	for _, c := range rc.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func walkText(path string, fn EntryFunc) error {
	rc, err := OpenText(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return fn(path, rc)
}

func walkZip(path string, services []string, fn EntryFunc) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || !SelectEntry(entry.Name, services) {
			continue
		}
		if err := walkZipEntry(path, entry, fn); err != nil {
			return err
		}
	}
	return nil
}

func walkZipEntry(path string, entry *zip.File, fn EntryFunc) error {
	r, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open %s in %s: %w", entry.Name, path, err)
	}
	defer r.Close()
	return fn(path+":"+entry.Name, r)
}

// walkTarGz forwards the selected regular entries of a gzip-compressed
// tarball. A file named like a tarball that holds no tar stream, such as
// gzip-compressed text, is read as text instead.
func walkTarGz(path string, services []string, fn EntryFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		return walkText(path, fn)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	hdr, err := tr.Next()
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return walkText(path, fn)
	}

	for {
		if hdr.Typeflag == tar.TypeReg && SelectTarEntry(hdr.Name, services) {
			if err := fn(path+":"+hdr.Name, tr); err != nil {
				return err
			}
		}

		hdr, err = tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
	}
}

// ErrNotRegular is returned for inputs that are neither files nor archives.
var ErrNotRegular = fmt.Errorf("%w: not a regular file", domain.ErrUnsupportedSource)

// Check verifies that path names a regular file.
func Check(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	return nil
}
