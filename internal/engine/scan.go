package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	derrors "github.com/fullstackmenu/stackdocs/internal/errors"
	"github.com/fullstackmenu/stackdocs/internal/frontmatter"
)

var markdownExts = map[string]bool{".md": true, ".mdx": true}

var metaFiles = []string{"_meta.yaml", "_meta.yml"}

// metaEntry is one key of a _meta.yaml file. A key maps either to a title
// string or to a mapping with title and display fields.
type metaEntry struct {
	Key    string
	Title  string
	Hidden bool
}

func (e *Engine) scan(ctx context.Context) (*PageMap, error) {
	info, err := os.Stat(e.contentDir)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "content directory not readable").
			WithContext("dir", e.contentDir).Build()
	}
	if !info.IsDir() {
		return nil, derrors.FileSystemError("content path is not a directory").
			WithContext("dir", e.contentDir).Build()
	}

	root := &Item{Kind: KindFolder, Route: NormalizeRoute(e.opts.ContentDirBasePath), Title: "Docs"}
	var sig strings.Builder
	if err := e.scanDir(ctx, e.contentDir, root, &sig); err != nil {
		return nil, err
	}
	version := mdfp.CalculateFingerprintFromParts(root.Route, sig.String())
	return newPageMap(root, version), nil
}

func (e *Engine) scanDir(ctx context.Context, dir string, folder *Item, sig *strings.Builder) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to read content directory").
			WithContext("dir", dir).Build()
	}
	meta, err := readMeta(dir)
	if err != nil {
		return err
	}

	var items []*Item
	for _, entry := range entries {
		name := entry.Name()
		if isMetaFile(name) {
			if st, err := entry.Info(); err == nil {
				fmt.Fprintf(sig, "%s|%d|%d\n", filepath.Join(dir, name), st.Size(), st.ModTime().UnixNano())
			}
		}
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}
		full := filepath.Join(dir, name)

		if entry.IsDir() {
			child := &Item{Kind: KindFolder, Name: name, Route: joinRoute(folder.Route, name)}
			if err := e.scanDir(ctx, full, child, sig); err != nil {
				return err
			}
			if child.File == "" && len(child.Children) == 0 {
				continue
			}
			child.Title = firstNonEmpty(child.Title, titleFromName(name))
			items = append(items, child)
			continue
		}

		ext := filepath.Ext(name)
		if !markdownExts[strings.ToLower(ext)] {
			continue
		}
		base := strings.TrimSuffix(name, ext)

		fm, err := readFrontMatter(full)
		if err != nil {
			return err
		}
		if fm.Draft {
			continue
		}
		if st, err := entry.Info(); err == nil {
			fmt.Fprintf(sig, "%s|%d|%d\n", full, st.Size(), st.ModTime().UnixNano())
		}

		if base == "index" {
			folder.File = full
			folder.Title = firstNonEmpty(fm.Title, folder.Title)
			folder.Weight = fm.Weight
			continue
		}
		items = append(items, &Item{
			Kind:   KindPage,
			Name:   base,
			Route:  joinRoute(folder.Route, base),
			Title:  firstNonEmpty(fm.Title, titleFromName(base)),
			File:   full,
			Weight: fm.Weight,
			Hidden: fm.Hidden(),
		})
	}

	folder.Children = orderItems(mergeSiblings(items), meta)
	return nil
}

func readFrontMatter(path string) (frontmatter.Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return frontmatter.Meta{}, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to read page").
			WithContext("file", path).Build()
	}
	meta, _, err := frontmatter.Parse(data)
	if err != nil {
		return frontmatter.Meta{}, derrors.WrapError(err, derrors.CategoryContent, "invalid front matter").
			WithContext("file", path).Build()
	}
	return meta, nil
}

// mergeSiblings folds a page into a folder of the same name: html.md next to
// html/ becomes the folder's own page.
func mergeSiblings(items []*Item) []*Item {
	folders := map[string]*Item{}
	for _, it := range items {
		if it.IsFolder() {
			folders[it.Name] = it
		}
	}
	out := items[:0]
	for _, it := range items {
		if f, ok := folders[it.Name]; ok && !it.IsFolder() {
			if f.File == "" {
				f.File = it.File
				f.Title = it.Title
				f.Weight = it.Weight
			}
			continue
		}
		out = append(out, it)
	}
	return out
}

// orderItems places entries listed in _meta.yaml first, in file order, then the
// rest: weighted items by weight, unweighted ones by title.
func orderItems(items []*Item, meta []metaEntry) []*Item {
	byName := make(map[string]*Item, len(items))
	for _, it := range items {
		byName[it.Name] = it
	}

	ordered := make([]*Item, 0, len(items))
	used := map[string]bool{}
	for _, m := range meta {
		it, ok := byName[m.Key]
		if !ok || used[m.Key] {
			continue
		}
		if m.Title != "" {
			it.Title = m.Title
		}
		if m.Hidden {
			it.Hidden = true
		}
		ordered = append(ordered, it)
		used[m.Key] = true
	}

	rest := make([]*Item, 0, len(items)-len(ordered))
	for _, it := range items {
		if !used[it.Name] {
			rest = append(rest, it)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		a, b := rest[i], rest[j]
		if (a.Weight > 0) != (b.Weight > 0) {
			return a.Weight > 0
		}
		if a.Weight != b.Weight {
			return a.Weight < b.Weight
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})
	return append(ordered, rest...)
}

func isMetaFile(name string) bool {
	for _, m := range metaFiles {
		if name == m {
			return true
		}
	}
	return false
}

func readMeta(dir string) ([]metaEntry, error) {
	for _, name := range metaFiles {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to read meta file").
				WithContext("file", path).Build()
		}
		return parseMeta(path, data)
	}
	return nil, nil
}

func parseMeta(path string, data []byte) ([]metaEntry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryContent, "invalid meta file").
			WithContext("file", path).Build()
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, derrors.ContentError("meta file must be a mapping").
			WithContext("file", path).Build()
	}

	entries := make([]metaEntry, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		entry := metaEntry{Key: k.Value}
		switch v.Kind {
		case yaml.ScalarNode:
			entry.Title = v.Value
		case yaml.MappingNode:
			var def struct {
				Title   string `yaml:"title"`
				Display string `yaml:"display"`
			}
			if err := v.Decode(&def); err != nil {
				return nil, derrors.WrapError(err, derrors.CategoryContent, "invalid meta entry").
					WithContext("file", path).WithContext("key", k.Value).Build()
			}
			entry.Title = def.Title
			entry.Hidden = def.Display == "hidden"
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
