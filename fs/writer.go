// Package fs writes distilled pages to a directory tree.
package fs

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/distill"
	"gopkg.in/yaml.v3"
)

// SourcePath converts a source URL or local file name to a relative file
// path with the given extension.
// Example: https://example.com/docs/api/users → docs/api/users.md
func SourcePath(source, ext string) (string, error) {
	if !isURL(source) {
		name := filepath.Base(source)
		name = strings.TrimSuffix(name, filepath.Ext(name))
		if name == "" || name == "." || name == string(filepath.Separator) {
			return "", distill.Errorf(distill.EINVALID, "cannot derive a file name from %q", source)
		}
		return name + ext, nil
	}

	u, err := url.Parse(source)
	if err != nil {
		return "", distill.Errorf(distill.EINVALID, "invalid URL %q", source)
	}

	p := u.Path
	if p == "" || p == "/" {
		return "index" + ext, nil
	}

	// Trailing slash becomes index in that directory
	index := strings.HasSuffix(p, "/")
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if p == "" {
		return "index" + ext, nil
	}
	if index {
		return path.Join(p, "index"+ext), nil
	}
	switch path.Ext(p) {
	case ".html", ".htm":
		p = strings.TrimSuffix(p, path.Ext(p))
	}
	return p + ext, nil
}

// frontmatter is the YAML header of Markdown output.
type frontmatter struct {
	Source      string   `yaml:"source"`
	Title       string   `yaml:"title"`
	Strategy    string   `yaml:"strategy"`
	Language    string   `yaml:"language,omitempty"`
	Words       int      `yaml:"words"`
	Hash        string   `yaml:"hash"`
	Description string   `yaml:"description,omitempty"`
	Author      string   `yaml:"author,omitempty"`
	Publisher   string   `yaml:"publisher,omitempty"`
	Published   string   `yaml:"published,omitempty"`
	Modified    string   `yaml:"modified,omitempty"`
	Cover       string   `yaml:"cover,omitempty"`
	Images      []string `yaml:"images,omitempty"`
}

// FormatMarkdown prefixes a Markdown body with YAML frontmatter describing
// the distillation.
func FormatMarkdown(source string, res *distill.Distillation, body string) (string, error) {
	fm := frontmatter{
		Source:      source,
		Title:       res.Title,
		Strategy:    string(res.Strategy),
		Language:    res.Language,
		Words:       res.WordCount,
		Hash:        res.ContentHash,
		Description: res.Metadata.Description,
		Author:      res.Metadata.Author,
		Publisher:   res.Metadata.Publisher,
		Published:   res.Metadata.Published,
		Modified:    res.Metadata.Modified,
	}
	if len(res.Metadata.Images) > 0 {
		fm.Cover = res.Metadata.Images[0]
	}
	for _, img := range res.Images {
		fm.Images = append(fm.Images, img.URL)
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String(), nil
}

// Writer writes distilled pages as files under a directory. Sources that
// map to the same file get distinct names.
type Writer struct {
	baseDir string
	ext     string

	mu      sync.Mutex
	claimed map[string]string // relative path -> source
}

// NewWriter creates a Writer that writes files with extension ext (".md" or
// ".html") under baseDir.
func NewWriter(baseDir, ext string) *Writer {
	return &Writer{baseDir: baseDir, ext: ext, claimed: make(map[string]string)}
}

// Write stores body for source and returns the path of the written file.
// Markdown files get frontmatter.
func (w *Writer) Write(source string, res *distill.Distillation, body string) (string, error) {
	if res == nil {
		return "", distill.Errorf(distill.EINVALID, "nothing to write for %q", source)
	}

	relPath, err := SourcePath(source, w.ext)
	if err != nil {
		return "", err
	}
	relPath = w.claim(source, relPath)
	fullPath := filepath.Join(w.baseDir, filepath.FromSlash(relPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", relPath, err)
	}

	content := body
	if w.ext == ".md" {
		if content, err = FormatMarkdown(source, res, body); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", relPath, err)
	}
	return fullPath, nil
}

// claim reserves relPath for source. When another source already holds it,
// a suffix derived from the source is added before the extension.
func (w *Writer) claim(source, relPath string) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if owner, ok := w.claimed[relPath]; !ok || owner == source {
		w.claimed[relPath] = source
		return relPath
	}

	key := source
	if !isURL(source) {
		if abs, err := filepath.Abs(source); err == nil {
			key = abs
		}
	}
	stem := strings.TrimSuffix(relPath, w.ext)
	alt := fmt.Sprintf("%s-%08x%s", stem, uint32(xxhash.Sum64String(key)), w.ext)
	w.claimed[alt] = source
	return alt
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
