package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/woozymasta/gputex/imageio"
)

// ignoreRule is one ignore_list entry split into path components. Entries
// with an extension match a path suffix; the rest name a subtree under the
// source root and match a path prefix.
type ignoreRule struct {
	parts  []string
	suffix bool
}

func newIgnoreRules(root string, entries []string) []ignoreRule {
	rules := make([]ignoreRule, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e) == "" {
			continue
		}
		if filepath.Ext(e) != "" {
			rules = append(rules, ignoreRule{parts: split(e), suffix: true})
			continue
		}
		if !filepath.IsAbs(e) {
			e = filepath.Join(root, e)
		}
		rules = append(rules, ignoreRule{parts: split(e)})
	}
	return rules
}

func (r ignoreRule) match(path []string) bool {
	if len(r.parts) > len(path) {
		return false
	}
	if r.suffix {
		return slices.Equal(path[len(path)-len(r.parts):], r.parts)
	}
	return slices.Equal(path[:len(r.parts)], r.parts)
}

func split(path string) []string {
	parts := strings.Split(filepath.Clean(path), string(filepath.Separator))
	return slices.DeleteFunc(parts, func(s string) bool { return s == "" || s == "." })
}

func ignored(rules []ignoreRule, path string) bool {
	parts := split(path)
	for _, r := range rules {
		if r.match(parts) {
			return true
		}
	}
	return false
}

// Discover returns every supported image under root, sorted, skipping
// entries matched by the ignore list.
func Discover(root string, ignore []string) ([]string, error) {
	rules := newIgnoreRules(root, ignore)

	var paths []string
	if err := walk(root, rules, &paths); err != nil {
		return nil, err
	}
	slices.Sort(paths)
	return paths, nil
}

func walk(dir string, rules []ignoreRule, paths *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if ignored(rules, path) {
			continue
		}

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			// symlinked directories are not followed
			if info.IsDir() {
				continue
			}
		}

		switch {
		case isDir:
			if err := walk(path, rules, paths); err != nil {
				return err
			}
		case imageio.Supported(path):
			*paths = append(*paths, path)
		}
	}
	return nil
}

// collisions maps every path whose outputs would overwrite those of an
// earlier path to that earlier path. Outputs replace the input extension, so
// inputs sharing a stem collide. paths must be sorted.
func collisions(paths []string) map[string]string {
	owners := make(map[string]string, len(paths))
	dups := make(map[string]string)
	for _, p := range paths {
		stem := strings.TrimSuffix(p, filepath.Ext(p))
		if first, ok := owners[stem]; ok {
			dups[p] = first
			continue
		}
		owners[stem] = p
	}
	return dups
}
