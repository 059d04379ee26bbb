package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
)

// Adapter loads translation trees keyed by language code.
type Adapter interface {
	Load(ctx context.Context) (map[string]map[string]any, error)
}

// MapAdapter serves translations from memory. Mostly useful in tests.
type MapAdapter struct {
	Data map[string]map[string]any
}

func (a *MapAdapter) Load(_ context.Context) (map[string]map[string]any, error) {
	out := make(map[string]map[string]any, len(a.Data))
	maps.Copy(out, a.Data)
	return out, nil
}

// FSAdapter reads every translation file in dir of fsys, picking a parser by
// file extension. Files for the same language are merged; later files win
// per top-level key. Works with embed.FS and os.DirFS alike.
type FSAdapter struct {
	fsys fs.FS
	dir  string
}

func NewFSAdapter(fsys fs.FS, dir string) *FSAdapter {
	if dir == "" {
		dir = "."
	}
	return &FSAdapter{fsys: fsys, dir: dir}
}

func (a *FSAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	entries, err := fs.ReadDir(a.fsys, a.dir)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadDirectory, err)
	}

	result := make(map[string]map[string]any)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(ErrLoadingCancelled, err)
		}
		if entry.IsDir() {
			continue
		}
		parser := NewParserForFile(entry.Name())
		if parser == nil {
			continue
		}

		name := path.Join(a.dir, entry.Name())
		content, err := fs.ReadFile(a.fsys, name)
		if err != nil {
			return nil, errors.Join(ErrFailedToReadFile, err)
		}
		parsed, err := parser.Parse(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for lang, tree := range parsed {
			if result[lang] == nil {
				result[lang] = make(map[string]any)
			}
			maps.Copy(result[lang], tree)
		}
	}
	return result, nil
}
