package store

import (
	"context"

	"egazette/pkg/types"
)

// Services is the cached catalog of gazette services. The catalog is written
// wholesale by the seeder and read by everything else.
type Services struct {
	store *Store
}

func NewServices(s *Store) *Services {
	return &Services{store: s}
}

func (s *Services) Save(ctx context.Context, services []types.Service) error {
	return SaveCollection(ctx, s.store, KeyServices, services)
}

func (s *Services) List(ctx context.Context) ([]types.Service, error) {
	return Collection[types.Service](ctx, s.store, KeyServices)
}

func (s *Services) ByID(ctx context.Context, id string) (*types.Service, error) {
	services, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range services {
		if services[i].ID == id {
			return &services[i], nil
		}
	}

	return nil, types.ErrServiceNotFound
}
