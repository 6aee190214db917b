package chartula

import (
	"fmt"
	"strings"

	"github.com/tsawler/chartula/cards"
	"github.com/tsawler/chartula/mhtdoc"
)

// WarningKind classifies non-fatal problems found during an import.
type WarningKind int

const (
	// WarningEncoding marks a MIME part whose transfer encoding could not
	// be decoded; the raw bytes were kept.
	WarningEncoding WarningKind = iota
	// WarningUnresolvedRef marks a reference to a resource the archive
	// does not contain; the reference was left in place.
	WarningUnresolvedRef
	// WarningSkippedRow marks a table row that could not become a card.
	WarningSkippedRow
	// WarningOCR marks alt-text recognition that was requested but could
	// not run.
	WarningOCR
)

// String returns a human-readable representation of the warning kind.
func (k WarningKind) String() string {
	switch k {
	case WarningEncoding:
		return "encoding"
	case WarningUnresolvedRef:
		return "unresolved reference"
	case WarningSkippedRow:
		return "skipped row"
	case WarningOCR:
		return "ocr"
	default:
		return "unknown"
	}
}

// Warning describes a non-fatal issue encountered during an import.
// Warnings never stop processing; they accompany the result so callers can
// decide what to surface.
type Warning struct {
	Kind    WarningKind
	Message string
}

// String returns the warning as "kind: message".
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// FormatWarnings renders warnings as a multi-line string for display,
// one warning per line.
//
// Example:
//
//	cards, warnings, err := chartula.Open("deck.mht").Cards()
//	if len(warnings) > 0 {
//	    log.Println(chartula.FormatWarnings(warnings))
//	}
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, w := range warnings {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("- ")
		sb.WriteString(w.String())
	}
	return sb.String()
}

// ImportSummary returns the one-line import result hosts display to users,
// e.g. "Imported 12 cards, 2 warnings".
func ImportSummary(cardCount, warningCount int) string {
	summary := fmt.Sprintf("Imported %d %s", cardCount, plural(cardCount, "card"))
	if warningCount > 0 {
		summary += fmt.Sprintf(", %d %s", warningCount, plural(warningCount, "warning"))
	}
	return summary
}

func plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}

// partWarning converts a decoder warning to the public form.
func partWarning(w mhtdoc.Warning) Warning {
	return Warning{Kind: WarningEncoding, Message: w.Message}
}

// cardWarning converts a builder warning to the public form.
func cardWarning(w cards.Warning) Warning {
	kind := WarningSkippedRow
	if w.Kind == cards.WarningUnresolvedReference {
		kind = WarningUnresolvedRef
	}
	return Warning{Kind: kind, Message: w.Message}
}
