package service

import (
	"context"

	"dmchat/internal/domain"
)

// UserService provides user-related operations.
type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// Summaries returns public summaries for ids. Unknown ids are absent from
// the result.
func (s *UserService) Summaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error) {
	users, err := s.users.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	res := make(map[string]domain.UserSummary, len(users))
	for id, u := range users {
		res[id] = domain.UserSummary{ID: u.ID, Name: u.Name, ProfilePic: u.ProfilePic}
	}
	return res, nil
}
