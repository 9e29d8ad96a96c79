package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/guildhall/api/internal/database"
	"github.com/forgo/guildhall/api/internal/model"
)

// ReferenceRepository handles the quest vocabularies and the achievement
// catalogue. Each vocabulary is stored in a table named after its kind.
type ReferenceRepository struct {
	db database.Database
}

// NewReferenceRepository creates a new reference repository
func NewReferenceRepository(db database.Database) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func referenceTable(kind model.ReferenceKind) (string, error) {
	if !kind.IsValid() {
		return "", fmt.Errorf("unknown reference kind %q", kind)
	}
	return string(kind), nil
}

// List returns every entry of a vocabulary ordered by id
func (r *ReferenceRepository) List(ctx context.Context, kind model.ReferenceKind) ([]*model.ReferenceEntry, error) {
	table, err := referenceTable(kind)
	if err != nil {
		return nil, err
	}

	results, err := r.db.Query(ctx, "SELECT * FROM "+table+" ORDER BY id", nil)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}

	records := statementRecords(results, 0)
	entries := make([]*model.ReferenceEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, parseReferenceEntry(rec))
	}
	return entries, nil
}

// Exists reports whether a vocabulary entry exists
func (r *ReferenceRepository) Exists(ctx context.Context, kind model.ReferenceKind, id int) (bool, error) {
	table, err := referenceTable(kind)
	if err != nil {
		return false, err
	}
	return exists(ctx, r.db, table, id)
}

// GetByName retrieves a vocabulary entry by its unique name
func (r *ReferenceRepository) GetByName(ctx context.Context, kind model.ReferenceKind, name string) (*model.ReferenceEntry, error) {
	table, err := referenceTable(kind)
	if err != nil {
		return nil, err
	}

	result, err := r.db.QueryOne(ctx, "SELECT * FROM "+table+" WHERE name = $name LIMIT 1", map[string]interface{}{"name": name})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	data, err := asRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseReferenceEntry(data), nil
}

// Create inserts a vocabulary entry, returning the existing one when the
// name is already present. Losing an insert race to the unique index
// resolves to the winner's row.
func (r *ReferenceRepository) Create(ctx context.Context, kind model.ReferenceKind, name string) (*model.ReferenceEntry, error) {
	existing, err := r.GetByName(ctx, kind, name)
	if err != nil || existing != nil {
		return existing, err
	}

	table, _ := referenceTable(kind)
	query := fmt.Sprintf("CREATE ONLY %s CONTENT { name: $name }", nextID(table))
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"name": name})
	if err != nil {
		if isUniqueConstraintError(err) {
			return r.GetByName(ctx, kind, name)
		}
		return nil, fmt.Errorf("create %s: %w", table, err)
	}
	data, err := asRecord(result)
	if err != nil {
		return nil, err
	}
	return parseReferenceEntry(data), nil
}

// ListAchievements returns the achievement catalogue ordered by id
func (r *ReferenceRepository) ListAchievements(ctx context.Context, page model.PageRequest) (*model.Page[*model.Achievement], error) {
	return queryPage(ctx, r.db, newListQuery("achievement"), page, parseAchievement)
}

// CreateAchievement inserts an achievement or returns the one already
// stored under the same name.
func (r *ReferenceRepository) CreateAchievement(ctx context.Context, a *model.Achievement) (*model.Achievement, error) {
	existing, err := r.getAchievementByName(ctx, a.Name)
	if err != nil || existing != nil {
		return existing, err
	}

	query := fmt.Sprintf(`
		CREATE ONLY %s CONTENT {
			name: $name,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			icon_url: IF $icon_url IS NOT NULL THEN $icon_url ELSE NONE END
		}
	`, nextID("achievement"))

	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{
		"name":        a.Name,
		"description": ptrOrNone(a.Description),
		"icon_url":    ptrOrNone(a.IconURL),
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return r.getAchievementByName(ctx, a.Name)
		}
		return nil, fmt.Errorf("create achievement: %w", err)
	}
	data, err := asRecord(result)
	if err != nil {
		return nil, err
	}
	return parseAchievement(data), nil
}

func (r *ReferenceRepository) getAchievementByName(ctx context.Context, name string) (*model.Achievement, error) {
	result, err := r.db.QueryOne(ctx, "SELECT * FROM achievement WHERE name = $name LIMIT 1", map[string]interface{}{"name": name})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get achievement: %w", err)
	}
	data, err := asRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseAchievement(data), nil
}

func parseReferenceEntry(data map[string]interface{}) *model.ReferenceEntry {
	return &model.ReferenceEntry{
		ID:   recordKey(data["id"]),
		Name: getString(data, "name"),
	}
}

func parseAchievement(data map[string]interface{}) *model.Achievement {
	return &model.Achievement{
		ID:          recordKey(data["id"]),
		Name:        getString(data, "name"),
		Description: getStringPtr(data, "description"),
		IconURL:     getStringPtr(data, "icon_url"),
	}
}
