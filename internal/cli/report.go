package cli

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"bennypowers.dev/sfcgen/internal/log"
	"bennypowers.dev/sfcgen/internal/sfc"
)

// errReported marks failures whose details were already printed
var errReported = errors.New("compilation failed")

// reporter prints colored diagnostics; it is safe for concurrent use
type reporter struct {
	mu    sync.Mutex
	w     io.Writer
	bad   *color.Color
	good  *color.Color
	faint *color.Color
}

func newReporter(w io.Writer) *reporter {
	return &reporter{
		w:     w,
		bad:   color.New(color.FgRed, color.Bold),
		good:  color.New(color.FgGreen),
		faint: color.New(color.Faint),
	}
}

func (r *reporter) parseErrors(errs []*sfc.ParseError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range errs {
		_, _ = r.bad.Fprint(r.w, "error")
		_, _ = fmt.Fprintf(r.w, " %s\n", e.Error())
	}
}

func (r *reporter) failure(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.bad.Fprint(r.w, "error")
	_, _ = fmt.Fprintf(r.w, " %s: %v\n", path, err)
}

func (r *reporter) summary(compiled, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if failed > 0 {
		_, _ = r.bad.Fprintf(r.w, "%d of %d documents failed\n", failed, compiled+failed)
		return
	}
	_, _ = r.good.Fprintf(r.w, "compiled %d documents\n", compiled)
}

// note prints progress information; --quiet suppresses it
func (r *reporter) note(format string, args ...any) {
	if !log.Enabled(log.LevelInfo) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.faint.Fprintf(r.w, format+"\n", args...)
}
