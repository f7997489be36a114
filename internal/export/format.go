package export

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/pkordes/seminar-planner/internal/domain"
)

// Format names an output format as it appears in the ?format= parameter.
type Format string

// Supported formats.
const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatDOCX Format = "docx"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// FileBase is the download file name prefix.
const FileBase = "세미나_실행계획"

// ContentType returns the MIME type for f.
func ContentType(f Format) string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	}
	return "application/octet-stream"
}

// FileName returns "세미나_실행계획_<YYYY-MM-DD>.<ext>" for the UTC date of now.
func FileName(f Format, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", FileBase, now.UTC().Format("2006-01-02"), f)
}

// Renderer writes a single plan document.
type Renderer interface {
	Render(w io.Writer, doc Document) error
}

// BulkRenderer writes every plan in one file.
type BulkRenderer interface {
	RenderAll(w io.Writer, plans []domain.Plan) error
}

// Registry maps formats to the renderers that initialised successfully.
// It is populated at startup and read-only afterwards.
type Registry struct {
	single map[Format]Renderer
	bulk   map[Format]BulkRenderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{single: map[Format]Renderer{}, bulk: map[Format]BulkRenderer{}}
}

// Register adds r under f. If r also implements BulkRenderer it is
// registered for bulk export too.
func (r *Registry) Register(f Format, renderer Renderer) {
	r.single[f] = renderer
	if b, ok := renderer.(BulkRenderer); ok {
		r.bulk[f] = b
	}
}

// RegisterBulk adds a bulk-only renderer under f.
func (r *Registry) RegisterBulk(f Format, renderer BulkRenderer) {
	r.bulk[f] = renderer
}

// Lookup returns the single-plan renderer for f, or
// domain.ErrUnsupportedFormat.
func (r *Registry) Lookup(f Format) (Renderer, error) {
	renderer, ok := r.single[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", domain.ErrUnsupportedFormat, f, join(keys(r.single)))
	}
	return renderer, nil
}

// LookupBulk returns the bulk renderer for f, or domain.ErrUnsupportedFormat.
func (r *Registry) LookupBulk(f Format) (BulkRenderer, error) {
	renderer, ok := r.bulk[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", domain.ErrUnsupportedFormat, f, join(keys(r.bulk)))
	}
	return renderer, nil
}

// Formats lists the single-plan formats in sorted order.
func (r *Registry) Formats() []Format { return keys(r.single) }

// BulkFormats lists the bulk formats in sorted order.
func (r *Registry) BulkFormats() []Format { return keys(r.bulk) }

// Default returns a registry with every renderer that needs no external
// resources: XLSX, DOCX, JSON and CSV. PDF is added by the caller once its
// font is resolved.
func Default() *Registry {
	reg := NewRegistry()
	reg.Register(FormatXLSX, XLSX{})
	reg.Register(FormatDOCX, DOCX{})
	reg.RegisterBulk(FormatJSON, JSON{})
	reg.RegisterBulk(FormatCSV, CSV{})
	return reg
}

func keys[V any](m map[Format]V) []Format {
	out := make([]Format, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func join(fs []Format) string {
	s := make([]string, len(fs))
	for i, f := range fs {
		s[i] = string(f)
	}
	return strings.Join(s, ", ")
}
