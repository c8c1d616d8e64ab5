package filesystem

import (
	"io/fs"
	"syscall"
	"time"
)

func birthTime(_ string, info fs.FileInfo) (time.Time, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok || (st.Birthtimespec.Sec == 0 && st.Birthtimespec.Nsec == 0) {
		return time.Time{}, false
	}

	return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec), true
}
