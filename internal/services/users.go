package services

import (
	"context"
	"strings"

	"github.com/yungbote/applytrack-backend/internal/data/repos"
	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type UserInput struct {
	Name  string
	Email string
}

type UserPatch struct {
	Name  *string
	Email *string
}

type UserService interface {
	List(ctx context.Context) ([]*types.User, error)
	Get(ctx context.Context, id uint) (*types.User, error)
	Me(ctx context.Context) (*types.User, error)
	Create(ctx context.Context, in UserInput) (*types.User, error)
	Update(ctx context.Context, id uint, patch UserPatch) (*types.User, error)
	Delete(ctx context.Context, id uint) error
	// EnsureDefault creates the single implicit user when missing.
	EnsureDefault(ctx context.Context, id uint, in UserInput) (*types.User, error)
}

type userService struct {
	log   *logger.Logger
	users repos.UserRepo
}

func NewUserService(log *logger.Logger, users repos.UserRepo) UserService {
	return &userService{log: log.With("service", "UserService"), users: users}
}

func (s *userService) List(ctx context.Context) ([]*types.User, error) {
	rows, err := s.users.List(bg(ctx))
	if err != nil {
		return nil, storeErr("Users.List", err)
	}
	return rows, nil
}

func (s *userService) Get(ctx context.Context, id uint) (*types.User, error) {
	u, err := s.users.GetByID(bg(ctx), id)
	if err != nil {
		return nil, storeErr("Users.Get", err)
	}
	if u == nil {
		return nil, notFound("Users.Get", "User")
	}
	return u, nil
}

func (s *userService) Me(ctx context.Context) (*types.User, error) {
	id, err := requestUser("Users.Me", ctx)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *userService) Create(ctx context.Context, in UserInput) (*types.User, error) {
	const op = "Users.Create"
	email := strings.ToLower(strings.TrimSpace(in.Email))
	exists, err := s.users.EmailExists(bg(ctx), email)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if exists {
		return nil, conflict(op, "Email already exists")
	}
	created, err := s.users.Create(bg(ctx), []*types.User{{Name: strings.TrimSpace(in.Name), Email: email}})
	if err != nil {
		return nil, storeErr(op, err)
	}
	return created[0], nil
}

func (s *userService) Update(ctx context.Context, id uint, patch UserPatch) (*types.User, error) {
	const op = "Users.Update"
	updates := map[string]any{}
	setIf(updates, "name", trimPtr(patch.Name))
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		current, err := s.users.GetByEmail(bg(ctx), email)
		if err != nil {
			return nil, storeErr(op, err)
		}
		if current != nil && current.ID != id {
			return nil, conflict(op, "Email already exists")
		}
		updates["email"] = email
	}
	if len(updates) > 0 {
		n, err := s.users.UpdateFields(bg(ctx), id, updates)
		if err != nil {
			return nil, storeErr(op, err)
		}
		if n == 0 {
			return nil, notFound(op, "User")
		}
	}
	return s.Get(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id uint) error {
	n, err := s.users.Delete(bg(ctx), id)
	if err != nil {
		return storeErr("Users.Delete", err)
	}
	if n == 0 {
		return notFound("Users.Delete", "User")
	}
	return nil
}

func (s *userService) EnsureDefault(ctx context.Context, id uint, in UserInput) (*types.User, error) {
	u, err := s.users.EnsureByID(bg(ctx), &types.User{
		ID:    id,
		Name:  strings.TrimSpace(in.Name),
		Email: strings.ToLower(strings.TrimSpace(in.Email)),
	})
	if err != nil {
		return nil, storeErr("Users.EnsureDefault", err)
	}
	s.log.Info("Default user ready", "user_id", u.ID)
	return u, nil
}
