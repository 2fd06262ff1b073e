package ldtk

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// Project is the root document: the shared definitions catalog plus either
// a flat level list or a set of worlds. The whole model is decoded once and
// is immutable afterwards.
type Project struct {
	JSONVersion     string      `json:"jsonVersion"`
	IID             uuid.UUID   `json:"iid"`
	BgColor         string      `json:"bgColor"`
	DefaultGridSize int         `json:"defaultGridSize"`
	ExternalLevels  bool        `json:"externalLevels"`
	Defs            Definitions `json:"defs"`
	Levels          []*Level    `json:"levels"`
	Worlds          []*World    `json:"worlds"`

	baseDir   string
	byUID     map[UID]*Level
	byIdent   map[string]*Level
	byIID     map[uuid.UUID]*Level
	allLevels []*Level
}

// Parse decodes a project document from raw JSON. Failures to decode or a
// document carrying both top-level levels and worlds report
// ErrInvalidFormat.
func Parse(data []byte) (*Project, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if len(p.Levels) > 0 && len(p.Worlds) > 0 {
		return nil, fmt.Errorf("%w: project declares both levels and worlds", ErrInvalidFormat)
	}
	p.index()
	return &p, nil
}

// Load reads and parses a project file from fsys. When the project uses
// external per-level files, each level's payload is loaded from its
// externalRelPath relative to the project file's directory.
func Load(fsys fs.FS, name string) (*Project, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read project %s: %w", name, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse project %s: %w", name, err)
	}
	p.baseDir = path.Dir(path.Clean(name))
	if p.ExternalLevels {
		if err := p.loadExternalLevels(fsys); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// LoadFile is a convenience wrapper over Load for plain disk paths.
func LoadFile(name string) (*Project, error) {
	dir := filepath.Dir(name)
	p, err := Load(os.DirFS(dir), filepath.Base(name))
	if err != nil {
		return nil, err
	}
	// Resource paths resolve against the project file's directory on disk.
	p.baseDir = dir
	return p, nil
}

func (p *Project) loadExternalLevels(fsys fs.FS) error {
	for _, lvl := range p.allLevels {
		if lvl.ExternalRelPath == nil || *lvl.ExternalRelPath == "" {
			continue
		}
		rel := path.Join(p.baseDir, *lvl.ExternalRelPath)
		data, err := fs.ReadFile(fsys, rel)
		if err != nil {
			return fmt.Errorf("level %s (%s): %w", lvl.Identifier, rel, ErrExternalLevelNotFound)
		}
		if err := json.Unmarshal(data, lvl); err != nil {
			return fmt.Errorf("level %s: %w: %v", lvl.Identifier, ErrInvalidFormat, err)
		}
	}
	return nil
}

// index flattens worlds and builds level lookups.
func (p *Project) index() {
	p.Defs.index()

	p.allLevels = p.allLevels[:0]
	if len(p.Worlds) > 0 {
		for _, w := range p.Worlds {
			p.allLevels = append(p.allLevels, w.Levels...)
		}
	} else {
		p.allLevels = append(p.allLevels, p.Levels...)
	}

	p.byUID = make(map[UID]*Level, len(p.allLevels))
	p.byIdent = make(map[string]*Level, len(p.allLevels))
	p.byIID = make(map[uuid.UUID]*Level, len(p.allLevels))
	for _, lvl := range p.allLevels {
		p.byUID[lvl.UID] = lvl
		p.byIdent[lvl.Identifier] = lvl
		p.byIID[lvl.IID] = lvl
	}
}

// AllLevels returns every level in declared order, regardless of whether
// the project stores them flat or grouped into worlds.
func (p *Project) AllLevels() []*Level {
	return p.allLevels
}

// BaseDir is the directory the project file was loaded from; relative
// resource paths resolve against it.
func (p *Project) BaseDir() string { return p.baseDir }

// LevelByIdentifier looks a level up by its editor-visible name.
func (p *Project) LevelByIdentifier(identifier string) (*Level, bool) {
	lvl, ok := p.byIdent[identifier]
	return lvl, ok
}

// LevelByUID looks a level up by uid.
func (p *Project) LevelByUID(uid UID) (*Level, bool) {
	lvl, ok := p.byUID[uid]
	return lvl, ok
}

// LevelByIID looks a level up by instance id.
func (p *Project) LevelByIID(iid uuid.UUID) (*Level, bool) {
	lvl, ok := p.byIID[iid]
	return lvl, ok
}
