package scrape

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
)

// Archive zips every path in outFiles into zipPath. No third-party zip
// library appears anywhere in the example corpus, so this is the one
// deliberate stdlib carve-out (see DESIGN.md).
func Archive(zipPath string, outFiles []string) error {
	if err := os.MkdirAll(filepath.Dir(zipPath), 0755); err != nil {
		return err
	}
	f, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", zipPath, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	for _, path := range outFiles {
		if path == "" {
			continue
		}
		if err := addFileToZip(zw, path); err != nil {
			return fmt.Errorf("archive %s: %w", path, err)
		}
	}
	return nil
}

func addFileToZip(zw *zip.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// CleanupDownloadDirectory removes the per-job download directory after
// archival, when the caller's cleanup flag is set.
func CleanupDownloadDirectory(dir string) error {
	return os.RemoveAll(dir)
}
