package inline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on disk options document, plugin options sit at the top level
// next to the mount table.
//
//	exts: [png, svg]
//	limit: 4096
//	encoding: base64
//	mount:
//	  src/: public/
type File struct {
	Mount   MountTable     `yaml:"mount"`
	Options map[string]any `yaml:",inline"`
}

// LoadFile reads an options file. A missing path yields an empty document so
// every option takes its default.
func LoadFile(path string) (File, error) {
	if path == "" {
		return File{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read options %s: %w", path, err)
	}

	return ParseFile(data)
}

// ParseFile decodes an options document.
func ParseFile(data []byte) (File, error) {
	var f File

	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("decode options: %w", err)
	}

	return f, nil
}

// Config normalizes the plugin options held by the file.
func (f File) Config() Config {
	return NormalizeOptions(f.Options)
}
