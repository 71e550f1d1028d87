package fetch

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress receives every chunk written to the download buffer.
type Progress interface {
	io.Writer
	Finish() error
}

// ProgressFunc starts a Progress for a download of total bytes.
// total is -1 when the server did not declare a length.
type ProgressFunc func(total int64, description string) Progress

// NoProgress reports nothing.
func NoProgress(int64, string) Progress {
	return noProgress{}
}

type noProgress struct{}

func (noProgress) Write(b []byte) (int, error) { return len(b), nil }
func (noProgress) Finish() error               { return nil }

// ProgressBar renders a byte progress bar on w. Without a declared
// total it shows a spinner with the bytes received so far.
func ProgressBar(w io.Writer) ProgressFunc {
	return func(total int64, description string) Progress {
		if total <= 0 {
			total = -1
		}
		return progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(description),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				_, _ = io.WriteString(w, "\n")
			}),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	}
}
