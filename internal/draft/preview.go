package draft

import (
	"fmt"
	"io"

	"github.com/verdictlabs/plead/internal/api"
	"github.com/verdictlabs/plead/internal/conversion"
)

// PreviewFilename derives the local HTML preview filename for a draft.
func PreviewFilename(draftID string) string {
	return "draft-" + draftID + ".html"
}

// WritePreview renders the draft's sections as a standalone HTML document.
// Section content passes through the sanitizing markdown converter; titles
// are escaped. Nothing backend-supplied reaches the document unsanitized.
func WritePreview(w io.Writer, d *api.Draft, conv *conversion.Converter) error {
	if conv == nil {
		conv = conversion.DefaultConverter()
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\"/>\n<title>Draft %s</title>\n</head>\n<body>\n",
		conversion.EscapeHTML(d.DraftID)); err != nil {
		return err
	}

	for _, s := range d.Sections {
		if _, err := fmt.Fprintf(w, "<h2>%s</h2>\n", conversion.EscapeHTML(s.Title)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, conv.ConvertToSafeHTML(s.Content)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}
