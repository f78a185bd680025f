package filemap

import "github.com/calvinalkan/filemap/internal/fs"

// ExportWithFS exposes filesystem injection for testing fault paths.
func ExportWithFS(fsys fs.FS) Option {
	return func(o *options) {
		if fsys != nil {
			o.fsys = fsys
		}
	}
}
