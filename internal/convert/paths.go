package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"ncmconv/internal/config"
)

// OutputPath returns where the converted form of source is written. Next to
// the source the base name is kept byte for byte. When outputDir relocates the
// file the base name is normalized to NFC.
func OutputPath(source, outputDir string) string {
	base := filepath.Base(source)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if strings.TrimSpace(outputDir) == "" {
		return filepath.Join(filepath.Dir(source), base+config.OutputExtension)
	}
	return filepath.Join(outputDir, norm.NFC.String(base)+config.OutputExtension)
}

// HasExtension reports whether path ends in ext, ignoring case.
func HasExtension(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}

// ExpandInputs replaces each directory in inputs with the files directly
// inside it whose extension matches ext, sorted by name. Other inputs are kept
// as given so missing files surface as input errors during conversion.
func ExpandInputs(inputs []string, ext string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{}, len(inputs))
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		info, err := os.Stat(input)
		if err != nil || !info.IsDir() {
			add(input)
			continue
		}
		entries, err := os.ReadDir(input)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", input, err)
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.Type().IsRegular() && HasExtension(entry.Name(), ext) {
				names = append(names, entry.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			add(filepath.Join(input, name))
		}
	}
	return out, nil
}
