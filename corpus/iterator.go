// Package corpus annotates a ParlaMint corpus directory: a root file
// including one component file per sitting, plus taxonomy files.
package corpus

import (
	"path/filepath"
	"sort"

	"github.com/revelaction/parlana/tei"
)

// Iterator lists the files of a corpus directory.
type Iterator struct {
	dir        string
	rootFile   string
	taxonomies map[string]struct{}
}

func NewIterator(dir, rootFile string, taxonomies []string) *Iterator {
	tx := make(map[string]struct{}, len(taxonomies))
	for _, t := range taxonomies {
		tx[filepath.Base(t)] = struct{}{}
	}

	return &Iterator{dir: dir, rootFile: rootFile, taxonomies: tx}
}

func (it *Iterator) Dir() string {
	return it.dir
}

// RootFile returns the path of the corpus root file.
func (it *Iterator) RootFile() string {
	return filepath.Join(it.dir, it.rootFile)
}

// AnnotatedRootFile returns the path of the annotated root file.
func (it *Iterator) AnnotatedRootFile() string {
	return tei.AnaPath(it.RootFile())
}

// ComponentFiles returns the component files of the corpus, sorted: every
// .xml file but the root file, annotated files and taxonomies.
func (it *Iterator) ComponentFiles() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(it.dir, "*"+tei.Ext))
	if err != nil {
		return nil, err
	}

	var files []string
	for _, path := range matches {
		if filepath.Base(path) == it.rootFile {
			continue
		}
		if tei.IsAna(path) {
			continue
		}
		if _, ok := it.taxonomies[filepath.Base(path)]; ok {
			continue
		}
		files = append(files, path)
	}

	sort.Strings(files)
	return files, nil
}

// AnnotatedFiles returns the annotated component files of the corpus,
// sorted. The annotated root file is not included.
func (it *Iterator) AnnotatedFiles() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(it.dir, "*"+tei.AnaExt+tei.Ext))
	if err != nil {
		return nil, err
	}

	root := filepath.Base(it.AnnotatedRootFile())
	var files []string
	for _, path := range matches {
		if filepath.Base(path) == root {
			continue
		}
		if _, ok := it.taxonomies[filepath.Base(path)]; ok {
			continue
		}
		files = append(files, path)
	}

	sort.Strings(files)
	return files, nil
}

// ComponentFor returns the component file an annotated file was built
// from: dir/name.ana.xml gives dir/name.xml.
func ComponentFor(path string) string {
	return filepath.Join(filepath.Dir(path), tei.BareName(path)+tei.Ext)
}
