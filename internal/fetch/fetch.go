// Package fetch acquires IDL source text from a local file, standard input,
// or a URL. HTML documents are scanned for embedded or linked IDL.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout bounds a remote fetch when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// ErrNoIDL is returned when an HTML document holds no IDL.
var ErrNoIDL = errors.New("no IDL found in document")

// Options configures Load.
type Options struct {
	Timeout time.Duration
	Client  *http.Client // defaults to http.DefaultClient
	Stdin   io.Reader    // defaults to os.Stdin
}

// Load returns the IDL text named by input: "-" for standard input, an
// http(s) URL, or a file path.
func Load(ctx context.Context, input string, opts Options) (string, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}

	switch {
	case input == "-":
		data, err := io.ReadAll(opts.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	case isURL(input):
		return loadURL(ctx, input, opts, true)
	default:
		return loadFile(ctx, input, opts)
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func isHTMLPath(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	return ext == ".html" || ext == ".htm"
}

func loadFile(ctx context.Context, path string, opts Options) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if !isHTMLPath(path) {
		return string(data), nil
	}

	src, link, err := Extract(strings.NewReader(string(data)))
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	if src != "" {
		return src, nil
	}
	if link == "" {
		return "", fmt.Errorf("%s: %w", path, ErrNoIDL)
	}
	if isURL(link) {
		return loadURL(ctx, link, opts, false)
	}
	return loadFile(ctx, filepath.Join(filepath.Dir(path), filepath.FromSlash(link)), opts)
}

// loadURL fetches raw. When followHTML is set, an HTML response is scanned
// for IDL blocks and, failing that, for one linked IDL file.
func loadURL(ctx context.Context, raw string, opts Options, followHTML bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	resp, err := opts.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", raw, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: unexpected status %s", raw, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", raw, err)
	}

	if !followHTML || !isHTMLResponse(resp) {
		return string(data), nil
	}

	src, link, err := Extract(strings.NewReader(string(data)))
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", raw, err)
	}
	if src != "" {
		return src, nil
	}
	if link == "" {
		return "", fmt.Errorf("%s: %w", raw, ErrNoIDL)
	}

	base, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", raw, err)
	}
	ref, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parsing link %s: %w", link, err)
	}
	return loadURL(ctx, base.ResolveReference(ref).String(), opts, false)
}

func isHTMLResponse(resp *http.Response) bool {
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err == nil && mediaType == "text/html" {
		return true
	}
	return isHTMLPath(resp.Request.URL.Path)
}
