package noop

import "context"

// Service does nothing and is used in place of a disabled service
// in the services sequence.
type Service struct {
	name string
}

func New(name string) *Service {
	return &Service{
		name: name,
	}
}

func (s *Service) String() string {
	return s.name + " (disabled)"
}

func (s *Service) Start(_ context.Context) (_ <-chan error, _ error) {
	return nil, nil //nolint:nilnil
}

func (s *Service) Stop() (stopErr error) {
	return nil
}
