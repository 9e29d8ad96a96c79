// Package model defines the Guildhall domain types shared by every layer.
//
// # Domain Entities
//
//   - User: account holder, identified publicly by id and username
//   - Location: a named place quests start from or lead to
//   - Campaign: an ordered arc of quests by one author
//   - Quest: the core record, with like and bookmark counters
//   - Comment, Follow, Bookmark, QuestLogEntry: social records
//   - ReferenceEntry, Achievement: read-only vocabularies
//
// # Requests
//
// Create requests use plain fields. Update requests use Optional so a
// field that is absent differs from one sent as null:
//
//	type UpdateQuestRequest struct {
//	    Reward Optional[string] `json:"reward"`
//	}
//
// # Errors
//
// RFC 9457 Problem Details are built in errors.go and written by the
// handlers with ProblemDetails.WriteJSON.
package model
