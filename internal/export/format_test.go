package export_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/pkordes/seminar-planner/internal/domain"
	"github.com/pkordes/seminar-planner/internal/export"
)

func TestFileName(t *testing.T) {
	now := time.Date(2024, 3, 15, 23, 30, 0, 0, time.FixedZone("KST", 9*60*60))

	assert.Equal(t, "세미나_실행계획_2024-03-15.pdf", export.FileName(export.FormatPDF, now))
	assert.Equal(t, "세미나_실행계획_2024-03-15.xlsx", export.FileName(export.FormatXLSX, now))
}

func TestFileName_UsesUTCDate(t *testing.T) {
	now := time.Date(2024, 3, 16, 1, 0, 0, 0, time.FixedZone("KST", 9*60*60))

	assert.Equal(t, "세미나_실행계획_2024-03-15.docx", export.FileName(export.FormatDOCX, now))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", export.ContentType(export.FormatPDF))
	assert.Contains(t, export.ContentType(export.FormatXLSX), "spreadsheetml")
	assert.Contains(t, export.ContentType(export.FormatDOCX), "wordprocessingml")
	assert.Equal(t, "application/octet-stream", export.ContentType("bogus"))
}

func TestRegistry_Default(t *testing.T) {
	reg := export.Default()

	assert.Equal(t, []export.Format{export.FormatDOCX, export.FormatXLSX}, reg.Formats())
	assert.Equal(t, []export.Format{export.FormatCSV, export.FormatJSON, export.FormatXLSX}, reg.BulkFormats())
}

func TestRegistry_LookupUnsupported(t *testing.T) {
	reg := export.Default()

	_, err := reg.Lookup(export.FormatPDF)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat, "pdf is absent until registered")

	_, err = reg.LookupBulk(export.FormatDOCX)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	_, err = reg.Lookup(export.FormatCSV)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat, "csv is bulk-only")
}

func TestRegistry_RegisterPDF(t *testing.T) {
	reg := export.Default()
	pdf, err := export.NewPDFWithFont(goregular.TTF)
	require.NoError(t, err)

	reg.Register(export.FormatPDF, pdf)

	got, err := reg.Lookup(export.FormatPDF)
	require.NoError(t, err)
	assert.Same(t, pdf, got)
	_, err = reg.LookupBulk(export.FormatPDF)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}
