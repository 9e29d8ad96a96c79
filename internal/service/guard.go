package service

import "context"

// Owned is implemented by entities that only their author may change
type Owned interface {
	OwnerID() int
}

// loadOwned resolves an owned entity for mutation by callerID. A missing
// entity yields notFound regardless of the caller; an entity owned by
// someone else yields ErrNotOwner. Nothing is written by either failure.
func loadOwned[E any, P interface {
	*E
	Owned
}](ctx context.Context, get func(context.Context, int) (P, error), id, callerID int, notFound error) (P, error) {
	entity, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, notFound
	}
	if entity.OwnerID() != callerID {
		return nil, ErrNotOwner
	}
	return entity, nil
}
