package neurostring

import (
	"fmt"
	"os"
	"path/filepath"
)

// Open opens dir/data/<mind>/<name>.json for reading. It returns false if there is no such file.
func Open(dir, mind, name string) (*os.File, bool) {
	f, err := os.Open(dataPath(dir, mind, name))
	if err != nil {
		if !os.IsNotExist(err) {
			LogCLI(err.Error(), 2)
		}
		return nil, false
	}
	return f, true
}

// Write replaces dir/data/<mind>/<name>.json with b, creating directories as needed.
func Write(dir, mind, name string, b []byte) error {
	path := dataPath(dir, mind, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create data directory for %s: %w", mind, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return fmt.Errorf("could not write %s/%s: %w", mind, name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("could not replace %s/%s: %w", mind, name, err)
	}
	return nil
}

func dataPath(dir, mind, name string) string {
	return filepath.Join(dir, "data", mind, name+".json")
}
