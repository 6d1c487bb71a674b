// Package fitshdr reads and edits keywords of the primary header of a FITS
// file. The FITS layout itself is handled by github.com/astrogo/fitsio;
// this package adds an update mode on top of it: the file is decoded in
// memory, mutated, and written back atomically on Close.
package fitshdr

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/astrogo/fitsio"
)

// Mode selects how a file is opened.
type Mode int

const (
	// ReadOnly forbids mutations.
	ReadOnly Mode = iota
	// Update allows mutations, persisted by Close.
	Update
)

func (m Mode) String() string {
	if m == Update {
		return "update"
	}
	return "readonly"
}

var (
	errReadOnly = errors.New("file opened read-only")
	errNoHDU    = errors.New("no HDU")
	errNoEnd    = errors.New("primary header has no END card")
)

// File is an opened FITS file. Only its primary header is exposed.
type File struct {
	path string
	mode Mode
	r    *os.File
	fits *fitsio.File
	hdr  *fitsio.Header

	// cards is the primary header without its END card, in file order.
	// orig is the same list as decoded, restored by Discard.
	cards []fitsio.Card
	orig  []fitsio.Card

	dirty  bool
	closed bool
}

// Open opens the FITS file at path. The caller must Close it, on every
// path, to release the handle and persist changes.
func Open(path string, mode Mode) (*File, error) {
	flag := os.O_RDONLY
	if mode == Update {
		flag = os.O_RDWR
	}

	r, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, openError(path, err)
	}

	f, err := fitsio.Open(r)
	if err != nil {
		r.Close()
		return nil, &Error{Op: "open", Kind: KindInvalid, Path: path, Err: err}
	}

	if len(f.HDUs()) == 0 {
		f.Close()
		r.Close()
		return nil, &Error{Op: "open", Kind: KindInvalid, Path: path, Err: errNoHDU}
	}

	hdr := f.HDU(0).Header()
	cards, ok := headerCards(hdr)
	if !ok {
		f.Close()
		r.Close()
		return nil, &Error{Op: "open", Kind: KindInvalid, Path: path, Err: errNoEnd}
	}

	return &File{
		path:  path,
		mode:  mode,
		r:     r,
		fits:  f,
		hdr:   hdr,
		cards: cards,
		orig:  append([]fitsio.Card(nil), cards...),
	}, nil
}

// headerCards returns a copy of the cards of a decoded header up to,
// and excluding, END.
func headerCards(hdr *fitsio.Header) ([]fitsio.Card, bool) {
	n := hdr.Index("END")
	if n < 0 {
		return nil, false
	}
	cards := make([]fitsio.Card, n)
	for i := range cards {
		cards[i] = *hdr.Card(i)
	}
	return cards, true
}

func openError(path string, err error) error {
	kind := KindInvalid
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermission
	}
	return &Error{Op: "open", Kind: kind, Path: path, Err: err}
}

// Path returns the path the file was opened from.
func (f *File) Path() string { return f.path }

// Mode returns the mode the file was opened with.
func (f *File) Mode() Mode { return f.mode }

// Dirty reports whether the header was changed since Open.
func (f *File) Dirty() bool { return f.dirty }

// Has reports whether key is present in the primary header.
func (f *File) Has(key string) bool {
	return f.index(normKey(key)) >= 0
}

// Get returns the value of key.
func (f *File) Get(key string) (interface{}, error) {
	card, err := f.card("get", key)
	if err != nil {
		return nil, err
	}
	return card.Value, nil
}

// GetString returns the value of key formatted as text.
func (f *File) GetString(key string) (string, error) {
	v, err := f.Get(key)
	if err != nil {
		return "", err
	}
	return formatValue(v), nil
}

// Comment returns the comment attached to key.
func (f *File) Comment(key string) (string, error) {
	card, err := f.card("comment", key)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(card.Comment), nil
}

// Set writes value under key. A new keyword is inserted after the last
// card, before END. An existing comment is kept.
func (f *File) Set(key string, value interface{}) error {
	key = normKey(key)
	if err := f.writable("set", key); err != nil {
		return err
	}
	if isCommentary(key) {
		return &Error{Op: "set", Kind: KindWrite, Path: f.path, Key: key, Err: errCommentary}
	}

	cards := append([]fitsio.Card(nil), f.cards...)
	if i := f.index(key); i >= 0 {
		cards[i].Value = value
	} else {
		cards = append(cards, fitsio.Card{Name: key, Value: value})
	}
	if err := f.rebuild(cards); err != nil {
		return &Error{Op: "set", Kind: KindWrite, Path: f.path, Key: key, Err: err}
	}
	return nil
}

// SetComment attaches comment to an existing keyword.
func (f *File) SetComment(key, comment string) error {
	key = normKey(key)
	if err := f.writable("set comment", key); err != nil {
		return err
	}

	i := f.index(key)
	if i < 0 {
		return &Error{Op: "set comment", Kind: KindKeyNotFound, Path: f.path, Key: key}
	}
	cards := append([]fitsio.Card(nil), f.cards...)
	cards[i].Comment = comment
	if err := f.rebuild(cards); err != nil {
		return &Error{Op: "set comment", Kind: KindWrite, Path: f.path, Key: key, Err: err}
	}
	return nil
}

// Delete removes key from the primary header. COMMENT, HISTORY and blank
// cards are never matched.
func (f *File) Delete(key string) error {
	key = normKey(key)
	if err := f.writable("delete", key); err != nil {
		return err
	}

	i := f.index(key)
	if i < 0 {
		return &Error{Op: "delete", Kind: KindKeyNotFound, Path: f.path, Key: key}
	}
	// fitsio has no card removal: rebuild the header without key.
	cards := make([]fitsio.Card, 0, len(f.cards)-1)
	cards = append(cards, f.cards[:i]...)
	cards = append(cards, f.cards[i+1:]...)
	if err := f.rebuild(cards); err != nil {
		return &Error{Op: "delete", Kind: KindWrite, Path: f.path, Key: key, Err: err}
	}
	return nil
}

// Cards returns a copy of the primary header cards, in order, END
// excluded. Commentary cards are included.
func (f *File) Cards() []fitsio.Card {
	return append([]fitsio.Card(nil), f.cards...)
}

// Discard drops the pending changes: the header reads as it was at Open
// and Close leaves the file untouched unless it is changed again.
func (f *File) Discard() {
	if !f.dirty {
		return
	}
	if err := f.rebuild(append([]fitsio.Card(nil), f.orig...)); err == nil {
		f.dirty = false
	}
}

// rebuild replaces the primary header with cards. The encoder appends END.
func (f *File) rebuild(cards []fitsio.Card) error {
	hdr, err := newHeader(cards, f.hdr)
	if err != nil {
		return err
	}
	*f.hdr = *hdr
	f.cards = cards
	f.dirty = true
	return nil
}

// newHeader builds a header of the same type, BITPIX and axes as like.
func newHeader(cards []fitsio.Card, like *fitsio.Header) (hdr *fitsio.Header, err error) {
	defer func() {
		// NewHeader panics on values it cannot encode.
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return fitsio.NewHeader(cards, like.Type(), like.Bitpix(), like.Axes()), nil
}

// Close persists pending changes of a file opened in Update mode and
// releases the handle. The handle is released even when persisting fails.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	var err error
	if f.mode == Update && f.dirty {
		err = f.persist()
	}

	if cerr := f.fits.Close(); cerr != nil && err == nil {
		err = &Error{Op: "close", Kind: KindWrite, Path: f.path, Err: cerr}
	}
	if cerr := f.r.Close(); cerr != nil && err == nil {
		err = &Error{Op: "close", Kind: KindWrite, Path: f.path, Err: cerr}
	}
	return err
}

// persist writes every HDU into a temporary file next to the original and
// renames it over the original.
func (f *File) persist() error {
	info, err := f.r.Stat()
	if err != nil {
		return f.persistError(err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*")
	if err != nil {
		return f.persistError(err)
	}
	name := tmp.Name()
	done := false
	defer func() {
		if !done {
			tmp.Close()
			os.Remove(name)
		}
	}()

	out, err := fitsio.Create(tmp)
	if err != nil {
		return f.persistError(err)
	}
	for _, hdu := range f.fits.HDUs() {
		// Decoded headers still hold END and the encoder writes its own.
		if err := dropEnd(hdu.Header()); err != nil {
			return f.persistError(err)
		}
		if err := out.Write(hdu); err != nil {
			return f.persistError(err)
		}
	}
	if err := out.Close(); err != nil {
		return f.persistError(err)
	}

	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return f.persistError(err)
	}
	if err := tmp.Sync(); err != nil {
		return f.persistError(err)
	}
	if err := tmp.Close(); err != nil {
		return f.persistError(err)
	}
	if err := os.Rename(name, f.path); err != nil {
		return f.persistError(err)
	}
	done = true
	f.dirty = false
	return nil
}

func (f *File) persistError(err error) error {
	kind := KindWrite
	if errors.Is(err, fs.ErrPermission) {
		kind = KindPermission
	}
	return &Error{Op: "write", Kind: kind, Path: f.path, Err: err}
}

func dropEnd(hdr *fitsio.Header) error {
	cards, ok := headerCards(hdr)
	if !ok {
		return nil
	}
	h, err := newHeader(cards, hdr)
	if err != nil {
		return err
	}
	*hdr = *h
	return nil
}

func (f *File) card(op, key string) (*fitsio.Card, error) {
	key = normKey(key)
	i := f.index(key)
	if i < 0 {
		return nil, &Error{Op: op, Kind: KindKeyNotFound, Path: f.path, Key: key}
	}
	return &f.cards[i], nil
}

// index returns the position of the first keyword card named key, or -1.
func (f *File) index(key string) int {
	if isCommentary(key) {
		return -1
	}
	for i := range f.cards {
		if f.cards[i].Name == key {
			return i
		}
	}
	return -1
}

func (f *File) writable(op, key string) error {
	if f.closed {
		return &Error{Op: op, Kind: KindWrite, Path: f.path, Key: key, Err: os.ErrClosed}
	}
	if f.mode != Update {
		return &Error{Op: op, Kind: KindPermission, Path: f.path, Key: key, Err: errReadOnly}
	}
	return nil
}

var errCommentary = errors.New("commentary cards hold no value")

// isCommentary reports whether name is a COMMENT, HISTORY or blank card.
func isCommentary(name string) bool {
	switch name {
	case "COMMENT", "HISTORY", "":
		return true
	}
	return false
}

// FITS keywords are upper case.
func normKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}
