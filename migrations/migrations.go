// Package migrations embeds the SurrealQL schema and applies it in order.
//
// Files are named NNN_description.surql and applied in lexical order. Every
// statement uses IF NOT EXISTS, so applying the set twice is harmless.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/forgo/guildhall/api/internal/database"
)

//go:embed *.surql
var files embed.FS

// Migration is one schema file
type Migration struct {
	Name string
	SQL  string
}

// All returns the embedded migrations sorted by name.
func All() ([]Migration, error) {
	return load(files)
}

func load(fsys fs.FS) ([]Migration, error) {
	names, err := fs.Glob(fsys, "*.surql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		out = append(out, Migration{Name: name, SQL: string(data)})
	}
	return out, nil
}

// Apply runs every migration against db and returns the names applied.
func Apply(ctx context.Context, db database.Database) ([]string, error) {
	all, err := All()
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(all))
	for _, m := range all {
		if strings.TrimSpace(m.SQL) == "" {
			continue
		}
		if err := db.Execute(ctx, m.SQL, nil); err != nil {
			return applied, fmt.Errorf("migration %s: %w", m.Name, err)
		}
		applied = append(applied, m.Name)
	}
	return applied, nil
}
