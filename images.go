package route360

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"

	"golang.org/x/image/draw"

	"github.com/eringen/route360/seo"
)

const (
	maxImageWidth = 820
	jpegQuality   = 80
	imagesSubdir  = "images"
)

// isProcessedImage reports whether the static file at rel (slash separated)
// goes through processImage.
func isProcessedImage(rel string) bool {
	if !strings.HasPrefix(rel, imagesSubdir+"/") {
		return false
	}
	switch strings.ToLower(path.Ext(rel)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// processImage decodes a JPEG or PNG from src, downscales it to maxImageWidth
// when wider, and re-encodes it in its own format. Images that need no resize
// are returned unchanged. The result carries the final dimensions.
func processImage(src io.Reader, urlPath string) (seo.Image, []byte, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return seo.Image{}, nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return seo.Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	meta := seo.Image{Path: urlPath, Width: w, Height: h}
	if w <= maxImageWidth {
		return meta, raw, nil
	}

	newH := h * maxImageWidth / w
	dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	meta.Width, meta.Height = maxImageWidth, newH

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return seo.Image{}, nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return meta, buf.Bytes(), nil
}
