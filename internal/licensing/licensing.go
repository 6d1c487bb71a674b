// Package licensing implements the list, info, add and delete operations on
// the license keywords of a FITS primary header.
package licensing

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/saimn/fitslic/internal/fitshdr"
	"github.com/saimn/fitslic/internal/license"
)

// Header keywords, in write and delete order.
const (
	KeyLicense = "LICENSE"
	KeyVersion = "LICVER"
	KeyURL     = "LICURL"
)

// Keys lists the license keywords in their fixed order.
var Keys = []string{KeyLicense, KeyVersion, KeyURL}

var comments = map[string]string{
	KeyLicense: "License of data",
	KeyVersion: "Version of license",
	KeyURL:     "URL of license",
}

// NotFoundMessage is printed when a file holds no license information.
const NotFoundMessage = "License information not found."

// Service runs the operations. Its zero value is not usable; use New.
type Service struct {
	catalog *license.Catalog
	policy  DeletePolicy
	stdout  io.Writer
	stderr  io.Writer
	log     zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithOutput sets the writers for results and diagnostics.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(s *Service) {
		s.stdout = stdout
		s.stderr = stderr
	}
}

// WithDeletePolicy sets how Delete handles a missing keyword.
func WithDeletePolicy(p DeletePolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New returns a Service over catalog. A nil catalog means license.Default().
func New(catalog *license.Catalog, opts ...Option) *Service {
	if catalog == nil {
		catalog = license.Default()
	}
	s := &Service{
		catalog: catalog,
		policy:  StopOnFirstMiss,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog the service resolves identifiers against.
func (s *Service) Catalog() *license.Catalog { return s.catalog }

// List prints one line per catalog entry: "{id}: {name} {ver} ({url})".
func (s *Service) List() error {
	for _, t := range s.catalog.Templates() {
		if _, err := fmt.Fprintf(s.stdout, "%s: %s\n", t.ID, t); err != nil {
			return err
		}
	}
	return nil
}

// Info prints the license recorded in the file, or NotFoundMessage when
// there is none. name may be a local path or a file/http(s) URL.
func (s *Service) Info(ctx context.Context, name string) error {
	path, cleanup, err := fitshdr.Resolve(ctx, name)
	if err != nil {
		return err
	}
	defer cleanup()

	f, err := fitshdr.Open(path, fitshdr.ReadOnly)
	if err != nil {
		return err
	}
	defer f.Close()

	if !f.Has(KeyLicense) {
		s.log.Debug().Str("file", name).Msg("no license keyword")
		_, err := fmt.Fprintln(s.stdout, NotFoundMessage)
		return err
	}

	values := make([]string, len(Keys))
	for i, key := range Keys {
		v, err := f.GetString(key)
		if err != nil {
			return err
		}
		values[i] = v
	}
	_, err = fmt.Fprintf(s.stdout, "%s %s (%s)\n", values[0], values[1], values[2])
	return err
}

// Add stamps the license id into the file. The identifier is checked
// before the file is opened, so an unknown id leaves the file untouched.
func (s *Service) Add(name, id string) (err error) {
	tpl, err := s.catalog.MustLookup(id)
	if err != nil {
		return err
	}

	f, err := fitshdr.Open(name, fitshdr.Update)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	values := map[string]string{
		KeyLicense: tpl.Name,
		KeyVersion: tpl.Version,
		KeyURL:     tpl.URL,
	}
	for _, key := range Keys {
		if err := f.Set(key, values[key]); err != nil {
			// Leave the file as it was rather than half licensed.
			f.Discard()
			return err
		}
	}
	s.addComments(f)

	s.log.Info().Str("file", name).Str("license", tpl.ID).Msg("license added")
	for _, card := range f.Cards() {
		if _, ok := comments[card.Name]; ok {
			s.log.Debug().Str("file", name).Msg(fitshdr.FormatCard(card))
		}
	}
	return nil
}

// addComments attaches the fixed comments. Failures are reported on
// stderr and do not abort the operation.
func (s *Service) addComments(f *fitshdr.File) {
	for _, key := range Keys {
		if err := f.SetComment(key, comments[key]); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("comment not attached")
			fmt.Fprintf(s.stderr, "cannot attach comment to %s: %v\n", key, err)
		}
	}
}

// Delete removes the license keywords following the service policy.
// Missing keywords are reported on stderr and are not an error.
func (s *Service) Delete(name string) (err error) {
	f, err := fitshdr.Open(name, fitshdr.Update)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	missing, err := s.policy.apply(f, Keys)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		s.log.Debug().Str("file", name).Strs("missing", missing).Str("policy", s.policy.String()).Msg("license keywords missing")
		fmt.Fprintln(s.stderr, NotFoundMessage)
		return nil
	}

	s.log.Info().Str("file", name).Msg("license deleted")
	return nil
}

// Header prints the primary header of the file.
func (s *Service) Header(ctx context.Context, name string) error {
	path, cleanup, err := fitshdr.Resolve(ctx, name)
	if err != nil {
		return err
	}
	defer cleanup()

	f, err := fitshdr.Open(path, fitshdr.ReadOnly)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Dump(s.stdout)
}
