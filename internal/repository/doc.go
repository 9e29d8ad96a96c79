// Package repository implements the data access layer for the Guildhall API.
//
// Each repository struct handles the SurrealQL for one domain entity and
// maps records to model structs.
//
// # Repository Pattern
//
//   - Constructor function (NewXxxRepository) accepts a database.Database
//   - Single-record lookups return (nil, nil) when the record is missing
//   - Unique index violations surface as database.ErrDuplicate
//   - Listings return a model.Page with the total counted before paging
//
// # Record Keys
//
// Records are stored as table:N with N an integer drawn from the
// id_counter table in the same statement as the CREATE. Links to other
// records are stored as record ids and exposed as <name>_id integers.
//
// # Sparse Updates
//
// Update methods take model.Optional fields. An absent field is left
// alone and an explicit null is written as NONE, which removes the field.
//
// # Example Usage
//
//	repo := NewQuestRepository(db)
//	quest, err := repo.GetByID(ctx, 42)
//	if err != nil {
//	    return err
//	}
//	if quest == nil {
//	    // Handle not found
//	}
package repository
