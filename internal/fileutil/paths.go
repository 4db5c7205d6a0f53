package fileutil

import (
	"os"
	"path/filepath"
)

// SamePath reports whether a and b name the same file, either lexically after
// resolving to absolute paths or, when both exist, as the same inode.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	infoA, err := os.Stat(a)
	if err != nil {
		return false
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}
