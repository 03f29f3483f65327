// Package filereader resolves import-file read callbacks for the compiler.
//
// Reads are confined to a base path plus an allow list of directories; a
// payload escaping them fails with a diagnostic Result rather than leaking
// filesystem contents. Payloads with an s3:// scheme are served by the
// optional remote source.
package filereader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ferrous-lang/crucible/metrics"
	"github.com/ferrous-lang/crucible/types"
)

// Reader is the file backend behind the source callback kind.
type Reader struct {
	// Remote, when set, serves payloads with the s3:// scheme.
	Remote *S3Source
	// Metrics, when set, receives read counters. Nil-receiver safe.
	Metrics *metrics.Collector

	basePath string
	allowed  []string
}

// New creates a file backend rooted at basePath. Relative payloads resolve
// against it. allowed lists additional directories reads may touch; when
// empty, only the base path is permitted.
func New(basePath string, allowed []string) *Reader {
	cleanedAllowed := make([]string, 0, len(allowed)+1)
	cleanedAllowed = append(cleanedAllowed, filepath.Clean(basePath))
	for _, dir := range allowed {
		cleanedAllowed = append(cleanedAllowed, filepath.Clean(dir))
	}
	return &Reader{
		basePath: filepath.Clean(basePath),
		allowed:  cleanedAllowed,
	}
}

// BasePath returns the configured base path.
func (r *Reader) BasePath() string {
	return r.basePath
}

// ReadFile resolves a source payload to file content.
//
// Valid only for the source callback kind; any other kind panics. All
// resolution failures return a failed Result carrying a diagnostic.
func (r *Reader) ReadFile(kind, path string) types.Result {
	if kind != types.TagReadFile {
		panic(fmt.Sprintf("filereader: file-read callback used as callback kind %q", kind))
	}
	r.Metrics.IncFilesRead()

	if strings.HasPrefix(path, "s3://") {
		return r.readRemote(path)
	}

	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(r.basePath, resolved)
	}
	resolved = filepath.Clean(resolved)

	if !r.isAllowed(resolved) {
		return types.Fail("File outside of allowed directories.")
	}

	content, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return types.Fail("File not found.")
		}
		return types.Fail(fmt.Sprintf("Cannot open file: %v", err))
	}
	return types.Ok(string(content))
}

// isAllowed reports whether resolved sits under one of the allowed roots.
func (r *Reader) isAllowed(resolved string) bool {
	for _, dir := range r.allowed {
		rel, err := filepath.Rel(dir, resolved)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return true
		}
	}
	return false
}

func (r *Reader) readRemote(path string) types.Result {
	if r.Remote == nil {
		return types.Fail("Remote sources are not configured.")
	}
	content, err := r.Remote.Read(path)
	if err != nil {
		return types.Fail(fmt.Sprintf("Cannot open file %s: %v", path, err))
	}
	return types.Ok(content)
}
