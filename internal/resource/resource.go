// Package resource loads the files of a skin directory: skin sources,
// pictures and fonts. Decoded images and font faces are cached per loader.
package resource

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/oakwood-commons/skinkit/pkg/logger"
)

// ErrNotFound is returned for a missing skin file, picture or font.
var ErrNotFound = errors.New("resource not found")

const (
	picturesDir = "pictures"
	fontsDir    = "fonts"
)

var builtinFonts = map[string][]byte{
	"@regular": goregular.TTF,
	"@bold":    gobold.TTF,
	"@mono":    gomono.TTF,
}

type faceKey struct {
	file string
	size float64
}

// Loader reads resources from a file system rooted at the skin directory.
type Loader struct {
	fsys fs.FS

	mu     sync.Mutex
	images map[string]image.Image
	fonts  map[string]*opentype.Font
	faces  map[faceKey]*Face
}

// New returns a loader over fsys.
func New(fsys fs.FS) *Loader {
	return &Loader{
		fsys:   fsys,
		images: map[string]image.Image{},
		fonts:  map[string]*opentype.Font{},
		faces:  map[faceKey]*Face{},
	}
}

func notFound(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return fmt.Errorf("%s: %w", name, err)
}

// Exists reports whether name is present.
func (l *Loader) Exists(name string) bool {
	_, err := fs.Stat(l.fsys, name)
	return err == nil
}

// Open opens a skin source file such as "global.skin".
func (l *Loader) Open(name string) (io.ReadCloser, error) {
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, notFound(name, err)
	}
	return f, nil
}

// Image returns the decoded picture pictures/<name>.png.
func (l *Loader) Image(ctx context.Context, name string) (image.Image, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if img, ok := l.images[name]; ok {
		return img, nil
	}
	p := path.Join(picturesDir, name+".png")
	f, err := l.fsys.Open(p)
	if err != nil {
		return nil, notFound(p, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", p, err)
	}
	logger.FromContext(ctx).V(2).Info("loaded picture", "name", name, "size", img.Bounds().Size().String())
	l.images[name] = img
	return img, nil
}

// Face returns a font face of the given point size. file is a name under
// fonts/ or one of the built-in faces @regular, @bold and @mono.
func (l *Loader) Face(ctx context.Context, file string, size float64) (*Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %g", size)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	key := faceKey{file: file, size: size}
	if f, ok := l.faces[key]; ok {
		return f, nil
	}
	otf, err := l.font(file)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", file, err)
	}
	logger.FromContext(ctx).V(2).Info("loaded font", "file", file, "size", size)
	f := &Face{Name: file, Size: size, face: face}
	l.faces[key] = f
	return f, nil
}

func (l *Loader) font(file string) (*opentype.Font, error) {
	if f, ok := l.fonts[file]; ok {
		return f, nil
	}
	data, ok := builtinFonts[file]
	if !ok {
		if strings.HasPrefix(file, "@") {
			return nil, fmt.Errorf("%w: built-in font %s", ErrNotFound, file)
		}
		p := path.Join(fontsDir, file)
		var err error
		if data, err = fs.ReadFile(l.fsys, p); err != nil {
			return nil, notFound(p, err)
		}
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", file, err)
	}
	l.fonts[file] = f
	return f, nil
}

// Face is a loaded font face.
type Face struct {
	Name string
	Size float64
	face font.Face
}

// Font returns the underlying face for drawing.
func (f *Face) Font() font.Face {
	return f.face
}

// LineHeight is the distance between baselines.
func (f *Face) LineHeight() int {
	return f.face.Metrics().Height.Ceil()
}

// Measure returns the pixel extent of text. Lines are separated by '\n'.
func (f *Face) Measure(text string) image.Point {
	lines := strings.Split(text, "\n")
	w := 0
	for _, line := range lines {
		w = max(w, font.MeasureString(f.face, line).Ceil())
	}
	return image.Pt(w, len(lines)*f.LineHeight())
}
