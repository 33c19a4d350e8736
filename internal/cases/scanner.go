package cases

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// fixtureSuffixes are the file name endings recognized as case tables
var fixtureSuffixes = []string{".cases.yaml", ".cases.yml"}

// Scanner scans for fixture files in a directory
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Scan finds all fixture files in the given root directory, sorted by path
func (s *Scanner) Scan(root string) ([]string, error) {
	var files []string

	// Clean and validate the root path
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cases path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cases path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories (starting with .)
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}

			if path != root && s.skipDirs[name] {
				return filepath.SkipDir
			}

			return nil
		}

		for _, suffix := range fixtureSuffixes {
			if strings.HasSuffix(d.Name(), suffix) {
				files = append(files, path)
				break
			}
		}
		return nil
	})

	sort.Strings(files)
	return files, err
}
