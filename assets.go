package route360

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/eringen/route360/seo"
)

// copyStatic copies the static tree into the output root. Images below
// images/ are downscaled on the way; their final dimensions are returned keyed
// by URL path. A missing static directory copies nothing.
func copyStatic(src, dst string) (map[string]seo.Image, error) {
	images := make(map[string]seo.Image)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, err
	}
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return images, nil
	}

	fsys := os.DirFS(src)
	err := fs.WalkDir(fsys, ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(rel))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		f, err := fsys.Open(rel)
		if err != nil {
			return err
		}
		defer f.Close()

		if isProcessedImage(rel) {
			img, data, err := processImage(f, "/"+rel)
			if err != nil {
				return fmt.Errorf("%s: %w", rel, err)
			}
			images[img.Path] = img
			return os.WriteFile(target, data, 0o644)
		}
		return copyFile(target, f)
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

func copyFile(target string, src io.Reader) error {
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
