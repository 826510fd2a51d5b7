package gen

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files to the output directory.
// It creates the directory if it doesn't exist.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		err := os.WriteFile(outputPath, file.Content, filePerm)
		if err != nil {
			return errors.Wrapf(err, "writing file %s", file.Filename)
		}
	}

	return nil
}

// Stale returns the files whose content differs from what is on disk in
// outputDir, including files that do not exist yet.
func Stale(files []GeneratedFile, outputDir string) ([]string, error) {
	var stale []string

	for _, file := range files {
		current, err := os.ReadFile(filepath.Join(outputDir, file.Filename))
		if errors.Is(err, os.ErrNotExist) {
			stale = append(stale, file.Filename)
			continue
		}

		if err != nil {
			return nil, errors.Wrapf(err, "reading file %s", file.Filename)
		}

		if string(current) != string(file.Content) {
			stale = append(stale, file.Filename)
		}
	}

	return stale, nil
}

// Leftover returns true if outputDir holds filename and the file starts
// with header, meaning an earlier run generated it.
func Leftover(outputDir, filename, header string) (bool, error) {
	current, err := os.ReadFile(filepath.Join(outputDir, filename))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, errors.Wrapf(err, "reading file %s", filename)
	}

	return bytes.HasPrefix(current, []byte(header+"\n")), nil
}

// RemoveFile deletes a generated file from outputDir.
func RemoveFile(outputDir, filename string) error {
	err := os.Remove(filepath.Join(outputDir, filename))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "removing file %s", filename)
	}

	return nil
}
