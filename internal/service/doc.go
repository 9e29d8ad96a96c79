// Package service implements the business rules of the Guildhall API.
//
// Services sit between HTTP handlers and repositories. Each service
// declares the repository interface it consumes, so tests substitute
// in-memory mocks.
//
// # Service Pattern
//
//   - Constructors take the repositories (or a config struct when there
//     are several collaborators)
//   - Request payloads are validated first; field problems come back as a
//     *ValidationError
//   - Missing entities and rule violations are sentinel errors from
//     errors.go; store failures are returned unchanged
//
// # Ownership
//
// Quests, campaigns and comments can only be changed by their author.
// Mutations resolve the target with loadOwned, which reports a missing
// entity before it compares owners:
//
//	quest, err := loadOwned(ctx, s.questRepo.GetByID, id, callerID, ErrQuestNotFound)
//
// # Example Usage
//
//	quests := NewQuestService(QuestServiceConfig{
//	    QuestRepo:    questRepository,
//	    LocationRepo: locationRepository,
//	    RefRepo:      referenceRepository,
//	    CampaignRepo: campaignRepository,
//	})
//	state, err := quests.ToggleBookmark(ctx, questID, user.ID)
package service
