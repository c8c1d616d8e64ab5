//go:build !linux && !darwin

package filesystem

import (
	"io/fs"
	"time"
)

func birthTime(_ string, _ fs.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
