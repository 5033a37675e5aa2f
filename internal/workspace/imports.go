package workspace

import (
	"path/filepath"

	"deducels/internal/analysis"
)

// importCandidates lists where `import name` may live for a document in dir:
// DIR/NAME.pf, DIR/lib/NAME.pf, then every search directory.
func importCandidates(dir, name string, search []string) []string {
	file := name + ".pf"
	out := []string{
		filepath.Join(dir, file),
		filepath.Join(dir, "lib", file),
	}
	for _, d := range search {
		if !filepath.IsAbs(d) {
			d = filepath.Join(dir, d)
		}
		out = append(out, filepath.Join(d, file))
	}
	return out
}

// resolveImports maps the imports of snap onto open documents. Only open
// documents are consulted; imports of imports are not followed.
func (s *Store) resolveImports(snap *analysis.Snapshot, search []string) []*analysis.Snapshot {
	if snap == nil || snap.Path == "" || len(snap.Imports) == 0 {
		return nil
	}
	dir := filepath.Dir(snap.Path)
	var out []*analysis.Snapshot
	seen := map[string]struct{}{snap.URI: {}}
	for _, imp := range snap.Imports {
		for _, candidate := range importCandidates(dir, imp.Name, search) {
			doc, ok := s.ByPath(candidate)
			if !ok {
				continue
			}
			if _, dup := seen[doc.URI]; !dup {
				seen[doc.URI] = struct{}{}
				out = append(out, doc.Snapshot)
			}
			break
		}
	}
	return out
}
