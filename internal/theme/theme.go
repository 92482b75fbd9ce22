package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// importRegex matches @import "file.css"; @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme is a resolved CSS theme.
type Theme struct {
	Name    string // Theme name without .css
	Path    string // File path for user themes, empty when bundled
	CSS     string // CSS with imports inlined
	Bundled bool
}

// Resolve finds the theme called name. A user theme in themesDir wins over a
// bundled one. Unknown names resolve to the default theme with found false.
func Resolve(name, themesDir string) (t *Theme, found bool, err error) {
	if name == "" {
		name = DefaultThemeName
	}

	if themesDir != "" {
		path := filepath.Join(themesDir, name+".css")
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			return &Theme{
				Name: name,
				Path: path,
				CSS:  ProcessImports(string(data), themesDir, nil),
			}, true, nil
		case !os.IsNotExist(err):
			return nil, false, fmt.Errorf("read theme %s: %w", path, err)
		}
	}

	if css, ok := GetEmbeddedTheme(name); ok {
		return &Theme{Name: name, CSS: css, Bundled: true}, true, nil
	}

	css, _ := GetEmbeddedTheme(DefaultThemeName)
	return &Theme{Name: DefaultThemeName, CSS: css, Bundled: true}, false, nil
}

// ProcessImports inlines @import statements in css, resolving paths
// relative to baseDir. Bundled theme names may be imported by file name.
func ProcessImports(css, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		sub := importRegex.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		importPath := sub[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) {
			fullPath = filepath.Join(baseDir, importPath)
		}
		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		data, err := os.ReadFile(fullPath)
		if err != nil {
			name := strings.TrimSuffix(filepath.Base(importPath), ".css")
			if embedded, ok := GetEmbeddedTheme(name); ok {
				return "/* imported (embedded): " + importPath + " */\n" + embedded
			}
			return "/* import failed: " + importPath + " */"
		}

		return "/* imported: " + importPath + " */\n" +
			ProcessImports(string(data), filepath.Dir(fullPath), seen)
	})
}

// ListThemes returns bundled theme names followed by user themes, sorted
// within each group and without duplicates.
func ListThemes(themesDir string) []string {
	seen := make(map[string]bool)
	var themes []string
	for _, name := range ListEmbeddedThemes() {
		seen[name] = true
		themes = append(themes, name)
	}

	entries, err := os.ReadDir(themesDir)
	if err != nil {
		return themes
	}
	var user []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".css" {
			continue
		}
		name = strings.TrimSuffix(name, ".css")
		if !seen[name] {
			seen[name] = true
			user = append(user, name)
		}
	}
	sort.Strings(user)
	return append(themes, user...)
}
