package cards

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// rewriteCell resolves the archive references inside one cell and points
// them at exported media filenames. Cells without any candidate element
// pass through untouched, so plain text never gets re-serialized.
func (b *Builder) rewriteCell(tableIndex, rowIndex int, cellHTML string) string {
	lower := strings.ToLower(cellHTML)
	if !strings.Contains(lower, "<img") && !strings.Contains(lower, "<source") &&
		!strings.Contains(lower, "<a") {
		return cellHTML
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(cellHTML))
	if err != nil {
		return cellHTML
	}

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			return
		}

		part, found := b.registry.Resolve(src)
		if !found {
			b.warnf(WarningUnresolvedReference, tableIndex, rowIndex,
				"table %d row %d: no archive part for image %q", tableIndex, rowIndex, src)
			return
		}

		file := b.media.export(part)
		sel.SetAttr("src", file.Filename)

		if b.cfg.ScaleImages && file.Width > 0 && file.Height > 0 {
			sel.SetAttr("width", strconv.Itoa(file.Width))
			sel.SetAttr("height", strconv.Itoa(file.Height))
		}

		if b.cfg.AltText != nil {
			if alt, hasAlt := sel.Attr("alt"); !hasAlt || strings.TrimSpace(alt) == "" {
				if text, err := b.cfg.AltText.AltText(part.Body); err == nil && text != "" {
					sel.SetAttr("alt", text)
				}
			}
		}
	})

	doc.Find("source").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			return
		}

		part, found := b.registry.Resolve(src)
		if !found {
			b.warnf(WarningUnresolvedReference, tableIndex, rowIndex,
				"table %d row %d: no archive part for media source %q", tableIndex, rowIndex, src)
			return
		}
		sel.SetAttr("src", b.media.export(part).Filename)
	})

	// Anchors participate only when they point into the archive. Links to
	// the live web stay as they are.
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.HasPrefix(strings.TrimSpace(href), "cid:") {
			return
		}

		part, found := b.registry.Resolve(href)
		if !found {
			b.warnf(WarningUnresolvedReference, tableIndex, rowIndex,
				"table %d row %d: no archive part for link %q", tableIndex, rowIndex, href)
			return
		}
		sel.SetAttr("href", b.media.export(part).Filename)
	})

	// The fragment was parsed into a full document; the cell content is
	// whatever landed in the body.
	out, err := doc.Find("body").First().Html()
	if err != nil {
		return cellHTML
	}
	return strings.TrimSpace(out)
}
