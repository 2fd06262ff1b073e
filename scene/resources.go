package scene

import (
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// ImageLoader resolves a project-relative resource path to a decoded
// bitmap. It is the pipeline's only I/O boundary and is injectable so the
// builders can be tested without real image assets.
type ImageLoader func(path string) (image.Image, error)

// FSImageLoader loads and decodes images from fsys.
func FSImageLoader(fsys fs.FS) ImageLoader {
	return func(name string) (image.Image, error) {
		f, err := fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, ErrResourceLoad)
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, ErrResourceLoad)
		}
		return img, nil
	}
}

// DirImageLoader loads images from a directory on disk.
func DirImageLoader(dir string) ImageLoader {
	if dir == "" {
		dir = "."
	}
	return FSImageLoader(os.DirFS(dir))
}

// CachingLoader memoizes another loader by path.
func CachingLoader(next ImageLoader) ImageLoader {
	cache := map[string]image.Image{}
	return func(name string) (image.Image, error) {
		if img, ok := cache[name]; ok {
			return img, nil
		}
		img, err := next(name)
		if err != nil {
			return nil, err
		}
		cache[name] = img
		return img, nil
	}
}

// ResolveResourcePath joins a tileset's relative image path onto the
// project's base directory, normalizing "." and ".." segments into a
// project-root-relative slash path.
func ResolveResourcePath(baseDir, rel string) string {
	joined := path.Join(filepath.ToSlash(baseDir), filepath.ToSlash(rel))
	return path.Clean(joined)
}
