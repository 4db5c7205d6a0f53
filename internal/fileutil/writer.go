package fileutil

import (
	"bufio"
	"fmt"
	"os"
)

// LineWriter buffers newline-terminated records into a file.
type LineWriter struct {
	path   string
	file   *os.File
	buf    *bufio.Writer
	lines  int
	closed bool
}

// CreateLineWriter opens path for writing, truncating any existing file.
func CreateLineWriter(path string) (*LineWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return &LineWriter{
		path: path,
		file: file,
		buf:  bufio.NewWriterSize(file, 64*1024),
	}, nil
}

// WriteLine writes s followed by a single '\n'.
func (w *LineWriter) WriteLine(s string) error {
	if w.closed {
		return fmt.Errorf("write %s: writer closed", w.path)
	}
	if _, err := w.buf.WriteString(s); err != nil {
		return err
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return err
	}
	w.lines++
	return nil
}

// Path returns the file path the writer was opened on.
func (w *LineWriter) Path() string { return w.path }

// Lines returns the number of records written so far.
func (w *LineWriter) Lines() int { return w.lines }

// Close flushes buffered data and closes the file. Calling Close again is a no-op.
func (w *LineWriter) Close() error {
	if w == nil || w.closed {
		return nil
	}
	w.closed = true
	flushErr := w.buf.Flush()
	closeErr := w.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// CloseAll closes every writer and returns the first error encountered.
func CloseAll(writers []*LineWriter) error {
	var first error
	for _, w := range writers {
		if err := w.Close(); err != nil && first == nil {
			first = fmt.Errorf("close %s: %w", w.Path(), err)
		}
	}
	return first
}
