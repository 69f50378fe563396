package discovery

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"time"
)

// fakeFS is an in-memory Filesystem for tests. Paths are keyed relative to
// the fake root "base". failPaths forces ReadDir errors for specific
// directories to exercise the degrade-to-empty branches.
type fakeFS struct {
	dirs      map[string][]fakeEntry
	failPaths map[string]bool
}

type fakeEntry struct {
	name string
	dir  bool
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		dirs:      make(map[string][]fakeEntry),
		failPaths: make(map[string]bool),
	}
}

// addDir registers a directory and links it into its parent's listing.
func (f *fakeFS) addDir(path string) {
	if _, ok := f.dirs[path]; ok {
		return
	}
	f.dirs[path] = nil
	parent := filepath.Dir(path)
	if parent != path && parent != "." && parent != "/" {
		f.addDir(parent)
		f.dirs[parent] = append(f.dirs[parent], fakeEntry{name: filepath.Base(path), dir: true})
	}
}

// addFile registers a regular file inside an existing or new directory.
func (f *fakeFS) addFile(dir, name string) {
	f.addDir(dir)
	f.dirs[dir] = append(f.dirs[dir], fakeEntry{name: name, dir: false})
}

func (f *fakeFS) ReadDir(path string) ([]fs.DirEntry, error) {
	if f.failPaths[path] {
		return nil, errors.New("permission denied")
	}
	entries, ok := f.dirs[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	sorted := make([]fakeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })
	out := make([]fs.DirEntry, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, fakeDirEntry{e})
	}
	return out, nil
}

type fakeDirEntry struct{ e fakeEntry }

func (d fakeDirEntry) Name() string { return d.e.name }
func (d fakeDirEntry) IsDir() bool  { return d.e.dir }
func (d fakeDirEntry) Type() fs.FileMode {
	if d.e.dir {
		return fs.ModeDir
	}
	return 0
}
func (d fakeDirEntry) Info() (fs.FileInfo, error) {
	return fakeFileInfo{name: d.e.name, dir: d.e.dir}, nil
}

type fakeFileInfo struct {
	name string
	dir  bool
}

func (i fakeFileInfo) Name() string { return i.name }
func (i fakeFileInfo) Size() int64  { return 0 }
func (i fakeFileInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir
	}
	return 0
}
func (i fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (i fakeFileInfo) IsDir() bool        { return i.dir }
func (i fakeFileInfo) Sys() interface{}   { return nil }
