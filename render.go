package sitekit

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Surface is the external collaborator that makes a view visible. Each
// resolution produces a full replacement view; the surface never diffs and
// the core never retains a reference to a prior view.
type Surface interface {
	Display(ctx context.Context, view templ.Component) error
}

// WriterSurface renders each view into an io.Writer. A trailing newline
// separates successive views when writing to a terminal.
type WriterSurface struct {
	w io.Writer
}

// NewWriterSurface returns a Surface writing to w.
func NewWriterSurface(w io.Writer) *WriterSurface {
	return &WriterSurface{w: w}
}

// Display renders view into the writer.
func (s *WriterSurface) Display(ctx context.Context, view templ.Component) error {
	if err := view.Render(ctx, s.w); err != nil {
		return err
	}
	_, err := io.WriteString(s.w, "\n")
	return err
}

// SurfaceFunc adapts a function to the Surface interface.
type SurfaceFunc func(ctx context.Context, view templ.Component) error

// Display calls f.
func (f SurfaceFunc) Display(ctx context.Context, view templ.Component) error {
	return f(ctx, view)
}
