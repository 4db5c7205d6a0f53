package fileutil

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// cancelCheckInterval is how many lines are read between context checks.
const cancelCheckInterval = 4096

// ForEachLine calls fn for every newline-delimited line in r, without the
// trailing '\n'. A final line without a newline is still delivered. Lines are
// not length-limited. Iteration stops at the first error from fn, from r, or
// from ctx.
func ForEachLine(ctx context.Context, r io.Reader, fn func(line string) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	reader := bufio.NewReaderSize(r, 64*1024)
	for n := 0; ; n++ {
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			if cbErr := fn(strings.TrimSuffix(line, "\n")); cbErr != nil {
				return cbErr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
