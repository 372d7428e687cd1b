// Package web holds the single-page frontend served at the site root.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

//go:embed dist
var dist embed.FS

// Files returns the frontend file tree. When dir is set the files are read
// from disk instead of the embedded build, which allows editing the
// frontend without rebuilding the binary.
func Files(dir string) (fs.FS, error) {
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("static dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("static dir %s is not a directory", dir)
		}
		files := os.DirFS(dir)
		if _, err := fs.Stat(files, "index.html"); err != nil {
			return nil, fmt.Errorf("static dir %s has no index.html: %w", dir, err)
		}
		return files, nil
	}

	return fs.Sub(dist, "dist")
}
