package main

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// PathResolver maps request paths to files under a document root.
type PathResolver struct {
	root         string
	index        string
	notFoundPage string
	sandbox      bool

	// Used to check existence. Can be mocked.
	exists func(string) bool
}

func NewPathResolver(cfg *Config) *PathResolver {
	return &PathResolver{
		root:         cfg.Root,
		index:        cfg.Index,
		notFoundPage: cfg.NotFound,
		sandbox:      cfg.Sandbox,
		exists:       fileExists,
	}
}

// Directories and unreadable files count as existing.
func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// Resolve never fails: a missing file resolves to the not-found page.
func (r *PathResolver) Resolve(uri string) Target {
	if uri == "/" {
		return Target{
			Status:      StatusOK,
			Name:        r.index,
			Path:        filepath.Join(r.root, r.index),
			ContentType: contentTypeHTML,
		}
	}

	name, p := r.locate(strings.TrimPrefix(uri, "/"))
	if !r.exists(p) {
		return r.NotFound()
	}
	ct, binary := ContentTypeFor(name)
	return Target{
		Status:      StatusOK,
		Name:        name,
		Path:        p,
		ContentType: ct,
		Binary:      binary,
	}
}

// NotFound targets the custom not-found page under the root.
func (r *PathResolver) NotFound() Target {
	return Target{
		Status:      StatusNotFound,
		Name:        r.notFoundPage,
		Path:        filepath.Join(r.root, r.notFoundPage),
		ContentType: contentTypeHTML,
	}
}

// locate returns the logged name and the file system path for rel.
func (r *PathResolver) locate(rel string) (string, string) {
	if r.sandbox {
		name := strings.TrimPrefix(path.Clean("/"+rel), "/")
		return name, filepath.Join(r.root, filepath.FromSlash(name))
	}
	// Unconfined: "//etc/passwd" escapes to /etc/passwd, "../x" climbs out.
	if filepath.IsAbs(rel) {
		return rel, rel
	}
	return rel, filepath.Join(r.root, filepath.FromSlash(rel))
}
