// Package fitstest writes small FITS files for tests.
package fitstest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	cardLen  = 80
	blockLen = 2880
)

// Card is a header card written verbatim by Build. COMMENT and HISTORY
// cards have no value: their text is Comment.
type Card struct {
	Name    string
	Value   interface{} // bool, int, float64 or string
	Comment string
}

// Fixture describes a single-HDU FITS file.
type Fixture struct {
	Bitpix int
	Axes   []int
	Cards  []Card
	Data   []byte
}

// Observation is a primary header with a few keywords and no license.
func Observation() Fixture {
	return Fixture{
		Bitpix: 8,
		Cards: []Card{
			{Name: "OBJECT", Value: "M31", Comment: "target"},
			{Name: "OBSERVER", Value: "Hubble"},
			{Name: "EXPTIME", Value: 120, Comment: "seconds"},
		},
	}
}

// Image is like Observation with a 2x2 BITPIX=8 data array.
func Image() Fixture {
	f := Observation()
	f.Axes = []int{2, 2}
	f.Data = []byte{1, 2, 3, 4}
	return f
}

// Annotated is Observation with HISTORY and COMMENT cards, followed by a
// keyword after them.
func Annotated() Fixture {
	f := Observation()
	f.Cards = append(f.Cards,
		Card{Name: "HISTORY", Comment: "reduced with pipeline 2.1"},
		Card{Name: "COMMENT", Comment: "calibrated frame"},
		Card{Name: "HISTORY", Comment: "flat field applied"},
		Card{Name: "DATE-OBS", Value: "2014-03-01", Comment: "start of exposure"},
	)
	return f
}

// Build encodes fx as FITS bytes.
func Build(fx Fixture) []byte {
	var hdr bytes.Buffer
	hdr.WriteString(card("SIMPLE", true, "conforms to FITS standard"))
	hdr.WriteString(card("BITPIX", fx.Bitpix, ""))
	hdr.WriteString(card("NAXIS", len(fx.Axes), ""))
	for i, n := range fx.Axes {
		hdr.WriteString(card(fmt.Sprintf("NAXIS%d", i+1), n, ""))
	}
	for _, c := range fx.Cards {
		hdr.WriteString(card(c.Name, c.Value, c.Comment))
	}
	hdr.WriteString(fmt.Sprintf("%-80s", "END"))

	out := pad(hdr.Bytes(), ' ')
	if len(fx.Data) > 0 {
		out = append(out, pad(fx.Data, 0)...)
	}
	return out
}

// Write builds fx into a file under a fresh temporary directory.
func Write(t testing.TB, fx Fixture) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.fits")
	if err := os.WriteFile(path, Build(fx), 0o644); err != nil {
		t.Fatalf("fitstest: write %s: %v", path, err)
	}
	return path
}

func card(name string, value interface{}, comment string) string {
	if name == "COMMENT" || name == "HISTORY" {
		return line(fmt.Sprintf("%-8s%s", name, comment))
	}

	var v string
	switch x := value.(type) {
	case bool:
		s := "F"
		if x {
			s = "T"
		}
		v = fmt.Sprintf("%20s", s)
	case int:
		v = fmt.Sprintf("%20d", x)
	case float64:
		v = fmt.Sprintf("%20G", x)
	case string:
		v = fmt.Sprintf("'%-8s'", strings.ReplaceAll(x, "'", "''"))
	default:
		panic(fmt.Sprintf("fitstest: unsupported value %T", value))
	}
	s := fmt.Sprintf("%-8s= %s", name, v)
	if comment != "" {
		s += " / " + comment
	}
	return line(s)
}

func line(s string) string {
	if len(s) > cardLen {
		s = s[:cardLen]
	}
	return fmt.Sprintf("%-80s", s)
}

func pad(b []byte, fill byte) []byte {
	n := (len(b) + blockLen - 1) / blockLen * blockLen
	out := make([]byte, n)
	copy(out, b)
	for i := len(b); i < n; i++ {
		out[i] = fill
	}
	return out
}
