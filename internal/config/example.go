package config

import (
	_ "embed"
	"fmt"
	"os"
)

// ExampleWorkspace is a commented starter workspace file
//
//go:embed example_workspace.yaml
var ExampleWorkspace []byte

// WriteExample writes the starter workspace to filename, refusing to
// overwrite an existing file.
func WriteExample(filename string) error {
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	if _, err := f.Write(ExampleWorkspace); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return f.Close()
}
