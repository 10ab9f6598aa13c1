package complete

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// dontSearch reports whether seed names a path rather than a command to
// search for: anything with a directory component completes as a file.
func dontSearch(seed string) bool {
	return seed == ".." ||
		strings.HasPrefix(seed, "./") ||
		strings.HasPrefix(seed, "../") ||
		strings.Contains(seed, string(filepath.Separator))
}

// fileCandidates lists the directory entries completing seed, which may
// carry a directory prefix. Dotfiles are offered only when the file part of
// the seed starts with a dot. Directory candidates carry a trailing
// separator. onlyExecutable keeps executable files and all directories;
// suffix, when non-nil, filters non-directory names.
func fileCandidates(baseDir, seed string, onlyExecutable bool, suffix *regexp.Regexp) ([]Candidate, error) {
	dir, filePrefix := filepath.Split(seed)

	readDir := dir
	if readDir == "" {
		readDir = "."
	}
	if !filepath.IsAbs(readDir) && baseDir != "" {
		readDir = filepath.Join(baseDir, readDir)
	}

	entries, err := os.ReadDir(readDir)
	if err != nil {
		return nil, err
	}

	var cands []Candidate
	for _, entry := range entries {
		name := entry.Name()

		// Dot files iff the seed's file part starts with a dot.
		if strings.HasPrefix(name, ".") != strings.HasPrefix(filePrefix, ".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		isDir := info.IsDir()
		mode := info.Mode()
		if mode&os.ModeSymlink != 0 {
			if resolved, err := os.Stat(filepath.Join(readDir, name)); err == nil {
				isDir = resolved.IsDir()
				mode = resolved.Mode()
			}
		}

		if !isDir {
			if onlyExecutable && mode&0111 == 0 {
				continue
			}
			if suffix != nil && !suffix.MatchString(name) {
				continue
			}
		}

		value := dir + name
		if isDir {
			value += string(filepath.Separator)
		}
		cands = append(cands, Candidate{Value: value})
	}
	return cands, nil
}

// dirCandidates is fileCandidates narrowed to directories.
func dirCandidates(baseDir, seed string) ([]Candidate, error) {
	cands, err := fileCandidates(baseDir, seed, false, nil)
	if err != nil {
		return nil, err
	}
	dirs := cands[:0]
	for _, c := range cands {
		if strings.HasSuffix(c.Value, string(filepath.Separator)) {
			dirs = append(dirs, c)
		}
	}
	return dirs, nil
}
