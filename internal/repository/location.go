package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/guildhall/api/internal/database"
	"github.com/forgo/guildhall/api/internal/model"
)

// LocationRepository handles location and quest log data access
type LocationRepository struct {
	db database.Database
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db database.Database) *LocationRepository {
	return &LocationRepository{db: db}
}

// Create creates a new location
func (r *LocationRepository) Create(ctx context.Context, req *model.CreateLocationRequest) (*model.Location, error) {
	query := fmt.Sprintf(`
		CREATE ONLY %s CONTENT {
			name: $name,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			latitude: $latitude,
			longitude: $longitude,
			address: IF $address IS NOT NULL THEN $address ELSE NONE END,
			city: IF $city IS NOT NULL THEN $city ELSE NONE END,
			country: IF $country IS NOT NULL THEN $country ELSE NONE END,
			real_world_inspiration: IF $inspiration IS NOT NULL THEN $inspiration ELSE NONE END,
			created_at: time::now()
		}
	`, nextID("location"))

	vars := map[string]interface{}{
		"name":        req.Name,
		"description": ptrOrNone(req.Description),
		"latitude":    ptrOrNone(req.Latitude),
		"longitude":   ptrOrNone(req.Longitude),
		"address":     ptrOrNone(req.Address),
		"city":        ptrOrNone(req.City),
		"country":     ptrOrNone(req.Country),
		"inspiration": ptrOrNone(req.RealWorldInspiration),
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	data, err := asRecord(result)
	if err != nil {
		return nil, err
	}
	return parseLocation(data), nil
}

// GetByID retrieves a location by ID
func (r *LocationRepository) GetByID(ctx context.Context, id int) (*model.Location, error) {
	return r.getOne(ctx, "SELECT * FROM ONLY "+thing("location", "id"), map[string]interface{}{"id": id})
}

// GetByName retrieves the first location with the given name
func (r *LocationRepository) GetByName(ctx context.Context, name string) (*model.Location, error) {
	return r.getOne(ctx, "SELECT * FROM location WHERE name = $name ORDER BY id LIMIT 1", map[string]interface{}{"name": name})
}

func (r *LocationRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.Location, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	data, err := asRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseLocation(data), nil
}

// Exists reports whether a location exists
func (r *LocationRepository) Exists(ctx context.Context, id int) (bool, error) {
	return exists(ctx, r.db, "location", id)
}

// List returns one page of locations ordered by id
func (r *LocationRepository) List(ctx context.Context, page model.PageRequest) (*model.Page[*model.Location], error) {
	return queryPage(ctx, r.db, newListQuery("location"), page, parseLocation)
}

// Update applies a sparse update and returns the stored location, or nil
// when it does not exist.
func (r *LocationRepository) Update(ctx context.Context, id int, req *model.UpdateLocationRequest) (*model.Location, error) {
	set := newSetClause()
	setOptional(set, "name", req.Name)
	setOptional(set, "description", req.Description)
	setOptional(set, "latitude", req.Latitude)
	setOptional(set, "longitude", req.Longitude)
	setOptional(set, "address", req.Address)
	setOptional(set, "city", req.City)
	setOptional(set, "country", req.Country)
	setOptional(set, "real_world_inspiration", req.RealWorldInspiration)

	if set.empty() {
		return r.GetByID(ctx, id)
	}

	query, vars := set.statement("location", id)
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("update location: %w", err)
	}
	data, err := asRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseLocation(data), nil
}

// IsReferenced reports whether any quest starts or ends at the location
func (r *LocationRepository) IsReferenced(ctx context.Context, id int) (bool, error) {
	query := fmt.Sprintf(`
		SELECT count() AS count FROM quest
		WHERE start_location = %[1]s OR destination = %[1]s
		GROUP ALL
	`, thing("location", "id"))

	results, err := r.db.Query(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return false, fmt.Errorf("count location references: %w", err)
	}
	if len(results) == 0 {
		return false, nil
	}
	return extractCount(results[0]) > 0, nil
}

// Delete removes a location and reports whether it existed. Its quest log
// entries are removed by the store.
func (r *LocationRepository) Delete(ctx context.Context, id int) (bool, error) {
	deleted, err := deleteRecord(ctx, r.db, "location", id)
	if err != nil {
		return false, fmt.Errorf("delete location: %w", err)
	}
	return deleted, nil
}

// CreateLogEntry adds a quest log entry at a location
func (r *LocationRepository) CreateLogEntry(ctx context.Context, locationID int, note string) (*model.QuestLogEntry, error) {
	query := fmt.Sprintf(`
		CREATE ONLY %s CONTENT {
			note: $note,
			location: %s,
			timestamp: time::now()
		}
	`, nextID("quest_log_entry"), thing("location", "location_id"))

	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{
		"note":        note,
		"location_id": locationID,
	})
	if err != nil {
		return nil, fmt.Errorf("create quest log entry: %w", err)
	}
	data, err := asRecord(result)
	if err != nil {
		return nil, err
	}
	return parseLogEntry(data), nil
}

// ListLogEntries returns one page of a location's log entries
func (r *LocationRepository) ListLogEntries(ctx context.Context, locationID int, page model.PageRequest) (*model.Page[*model.QuestLogEntry], error) {
	q := newListQuery("quest_log_entry").link("location", "location", locationID)
	return queryPage(ctx, r.db, q, page, parseLogEntry)
}

func parseLocation(data map[string]interface{}) *model.Location {
	return &model.Location{
		ID:                   recordKey(data["id"]),
		Name:                 getString(data, "name"),
		Description:          getStringPtr(data, "description"),
		Latitude:             getFloat(data, "latitude"),
		Longitude:            getFloat(data, "longitude"),
		Address:              getStringPtr(data, "address"),
		City:                 getStringPtr(data, "city"),
		Country:              getStringPtr(data, "country"),
		RealWorldInspiration: getStringPtr(data, "real_world_inspiration"),
	}
}

func parseLogEntry(data map[string]interface{}) *model.QuestLogEntry {
	return &model.QuestLogEntry{
		ID:         recordKey(data["id"]),
		Note:       getString(data, "note"),
		LocationID: getLinkID(data, "location"),
		Timestamp:  getTimeValue(data, "timestamp"),
	}
}
