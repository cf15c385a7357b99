package route360

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// EmbeddedAssets contains the assets shipped with the builder: the default
// stylesheet.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

const stylesheet = "style.css"

// writeStylesheet writes the embedded stylesheet to the output root unless the
// static tree already provided one.
func writeStylesheet(out string) error {
	target := filepath.Join(out, stylesheet)
	if _, err := os.Stat(target); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	data, err := EmbeddedAssets.ReadFile("embedded/" + stylesheet)
	if err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}
