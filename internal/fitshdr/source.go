package fitshdr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// FetchTimeout bounds the download of a remote file.
var FetchTimeout = 30 * time.Second

// IsRemote reports whether name is an http(s) URL.
func IsRemote(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}

// Resolve maps name to a local path. file:// URLs are stripped, http(s)
// URLs are downloaded to a temporary file removed by cleanup.
func Resolve(ctx context.Context, name string) (path string, cleanup func(), err error) {
	switch {
	case IsRemote(name):
		return fetch(ctx, name)
	case strings.HasPrefix(name, "file://"):
		return name[len("file://"):], func() {}, nil
	default:
		return name, func() {}, nil
	}
}

func fetch(ctx context.Context, url string) (string, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, &Error{Op: "fetch", Kind: KindInvalid, Path: url, Err: err}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		// No answer from the server says nothing about the file.
		return "", nil, &Error{Op: "fetch", Kind: KindInvalid, Path: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		kind := KindInvalid
		switch resp.StatusCode {
		case http.StatusNotFound:
			kind = KindNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = KindPermission
		}
		return "", nil, &Error{Op: "fetch", Kind: kind, Path: url, Err: fmt.Errorf("http status %s", resp.Status)}
	}

	f, err := os.CreateTemp("", "fitslic-")
	if err != nil {
		return "", nil, &Error{Op: "fetch", Kind: KindWrite, Path: url, Err: err}
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, &Error{Op: "fetch", Kind: KindInvalid, Path: url, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, &Error{Op: "fetch", Kind: KindWrite, Path: url, Err: err}
	}

	name := f.Name()
	return name, func() { os.Remove(name) }, nil
}
