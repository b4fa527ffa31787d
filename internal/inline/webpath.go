package inline

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mount rewrites a project relative path prefix to the directory it is served from.
type Mount struct {
	Prefix string
	Dir    string
}

// MountTable is an ordered list of mounts, the first matching prefix wins.
type MountTable []Mount

// UnmarshalYAML decodes a mapping of prefix to directory keeping the document order.
func (m *MountTable) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("mount: expected a mapping at line %d", node.Line)
	}

	table := make(MountTable, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var prefix, dir string
		if err := node.Content[i].Decode(&prefix); err != nil {
			return fmt.Errorf("mount: decode prefix: %w", err)
		}
		if err := node.Content[i+1].Decode(&dir); err != nil {
			return fmt.Errorf("mount: decode dir for %q: %w", prefix, err)
		}
		table = append(table, Mount{Prefix: prefix, Dir: dir})
	}

	*m = table
	return nil
}

// ToWebPath strips cwd from absPath and rewrites the first mount whose prefix
// matches the remaining path. Paths use "/" separators.
func ToWebPath(absPath, cwd string, mounts MountTable) string {
	rootPath := strings.TrimPrefix(filepath.ToSlash(absPath), filepath.ToSlash(cwd)+"/")

	for _, mount := range mounts {
		if !strings.HasPrefix(rootPath, mount.Prefix) {
			continue
		}

		dir := mount.Dir
		if !strings.HasSuffix(dir, "/") {
			dir += "/"
		}
		return dir + rootPath[len(mount.Prefix):]
	}

	return rootPath
}
