package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Writer sends rendered documents to a stream, a single file or a
// directory (one file per document).
type Writer struct {
	out       io.Writer
	file      *os.File
	dir       string
	separator string
	written   int
}

type WriterOptions struct {
	// Target is a file path, a directory (existing or ending in a path
	// separator), or "" for Stdout.
	Target string
	Stdout io.Writer
	// Separator goes between documents written to a stream or file.
	Separator string
	// NullSeparator uses a NUL byte instead of Separator (for xargs -0).
	NullSeparator bool
}

func NewWriter(opts WriterOptions) (*Writer, error) {
	w := &Writer{out: opts.Stdout, separator: "\n" + opts.Separator + "\n"}
	if opts.NullSeparator {
		w.separator = "\x00"
	}
	if w.out == nil {
		w.out = os.Stdout
	}
	if opts.Target == "" {
		return w, nil
	}

	info, err := os.Stat(opts.Target)
	if (err == nil && info.IsDir()) || strings.HasSuffix(opts.Target, "/") || strings.HasSuffix(opts.Target, string(os.PathSeparator)) {
		if err := os.MkdirAll(opts.Target, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		w.dir = opts.Target
		return w, nil
	}

	f, err := os.Create(opts.Target)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", opts.Target, err)
	}
	w.file = f
	w.out = f
	return w, nil
}

// IsDir reports whether documents are written to separate files.
func (w *Writer) IsDir() bool {
	return w.dir != ""
}

// Write emits one document. In directory mode it is stored under name
// (suffixed when the name is taken) and the path is returned.
func (w *Writer) Write(name string, data []byte) (string, error) {
	if w.dir != "" {
		path := uniquePath(filepath.Join(w.dir, name))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return "", fmt.Errorf("failed to write file %s: %w", path, err)
		}
		w.written++
		return path, nil
	}

	if w.written > 0 {
		if _, err := io.WriteString(w.out, w.separator); err != nil {
			return "", fmt.Errorf("failed to write separator: %w", err)
		}
	}
	if _, err := w.out.Write(data); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	w.written++
	if w.file != nil {
		return w.file.Name(), nil
	}
	return "", nil
}

func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	return w.file.Close()
}

// uniquePath appends _2, _3, ... before the extension until path is free.
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
