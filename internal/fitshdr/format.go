package fitshdr

import (
	"fmt"
	"io"
	"strings"

	"github.com/astrogo/fitsio"
)

// FormatCard renders a card the way it reads in a header listing.
// COMMENT, HISTORY and blank cards carry their text in Comment.
func FormatCard(card fitsio.Card) string {
	comment := strings.TrimSpace(card.Comment)
	if isCommentary(card.Name) {
		return strings.TrimRight(fmt.Sprintf("%-8s%s", card.Name, comment), " ")
	}
	if comment == "" {
		return fmt.Sprintf("%-8s= %s", card.Name, formatValue(card.Value))
	}
	return fmt.Sprintf("%-8s= %-29s / %s", card.Name, formatValue(card.Value), comment)
}

// Dump writes the primary header to w, one card per line, followed by END.
func (f *File) Dump(w io.Writer) error {
	for _, card := range f.Cards() {
		if _, err := fmt.Fprintln(w, FormatCard(card)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "END\n")
	return err
}

// String values keep no trailing blanks: they are not significant in FITS.
func formatValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return strings.TrimRight(s, " ")
	}
	return fmt.Sprintf("%v", v)
}
