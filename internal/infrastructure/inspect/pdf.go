// Package inspect gates the file input boundary. Only structurally valid
// PDF payloads may reach the classification request builder; everything
// else fails fast before any network call.
package inspect

import (
	"bytes"
	"fmt"
	"mime"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/documind/docrouter/internal/core/domain"
)

const pdfMimeType = "application/pdf"

var pdfHeader = []byte("%PDF-")

type PDFInspector struct {
	conf *model.Configuration
}

func NewPDFInspector() *PDFInspector {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFInspector{conf: conf}
}

// Inspect rejects empty payloads (ErrEmptyDocument) and anything that is
// not a parseable PDF (ErrUnsupportedFormat). A well-formed PDF with
// zero pages counts as empty.
func (i *PDFInspector) Inspect(fileName, mimeType string, payload []byte) error {
	if len(payload) == 0 {
		return domain.WrapError(domain.ErrEmptyDocument, "inspect payload", fmt.Errorf("%s: zero bytes", fileName))
	}

	declared := mimeType
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		declared = parsed
	}
	if !strings.EqualFold(declared, pdfMimeType) {
		return domain.WrapError(domain.ErrUnsupportedFormat, "inspect payload",
			fmt.Errorf("%s: mime type %q, want %s", fileName, mimeType, pdfMimeType))
	}
	if !bytes.HasPrefix(payload, pdfHeader) {
		return domain.WrapError(domain.ErrUnsupportedFormat, "inspect payload",
			fmt.Errorf("%s: missing PDF header", fileName))
	}

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(payload), i.conf)
	if err != nil {
		return domain.WrapError(domain.ErrUnsupportedFormat, "inspect payload",
			fmt.Errorf("%s: %w", fileName, err))
	}
	if ctx.PageCount == 0 {
		return domain.WrapError(domain.ErrEmptyDocument, "inspect payload", fmt.Errorf("%s: zero pages", fileName))
	}
	return nil
}
