package databases

import (
	"embed"
	"io/fs"
	"path"
)

//go:embed default/* malformed/*
var contents embed.FS

// List returns the names of the well-formed sample databases
func List() []string {
	result := make([]string, 0)
	_ = fs.WalkDir(contents, "default", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			result = append(result, p)
		}
		return nil
	})
	return result
}

func Open(name string) (fs.File, error) {
	return contents.Open(name)
}

// Read returns the contents of a sample database
func Read(name string) ([]byte, error) {
	return fs.ReadFile(contents, path.Clean(name))
}

// FS exposes the samples, e.g. for copying into a test filesystem
func FS() fs.FS {
	return contents
}
