package uow

import (
	"context"

	"github.com/karpale/parkgate/internal/repository"
)

// AfterCommit is a function that runs after a successful transaction commit.
type AfterCommit func(ctx context.Context)

// UoW represents a unit of work over the storage collaborator.
type UoW struct {
	store repository.Store
}

func NewUoW(store repository.Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn inside a storage transaction. After a successful commit,
// it executes all registered after-commit hooks.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, s repository.Store, after func(AfterCommit)) error,
) error {
	var hooks []AfterCommit

	err := u.store.RunTx(ctx, func(ctx context.Context, s repository.Store) error {
		return fn(ctx, s, func(h AfterCommit) {
			hooks = append(hooks, h)
		})
	})
	if err != nil {
		return err
	}

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}
