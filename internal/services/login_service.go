package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookkeeper/internal/auth"
	"bookkeeper/internal/core"
	"bookkeeper/internal/log"
	"bookkeeper/internal/storage"
)

// LoginService verifies credentials and issues tokens.
type LoginService struct {
	store  *storage.Store
	tokens *auth.TokenManager
	logger *log.Logger
}

func NewLoginService(store *storage.Store, tokens *auth.TokenManager, logger *log.Logger) *LoginService {
	return &LoginService{
		store:  store,
		tokens: tokens,
		logger: logger.WithComponent(log.ComponentAuth),
	}
}

// Authenticate checks the password against the stored bcrypt hash and returns
// the user together with a signed token. Unknown name and wrong password both
// come back as ErrAuthenticationFailed.
func (s *LoginService) Authenticate(ctx context.Context, name, password string) (*core.User, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", core.ErrEmptyName
	}
	if password == "" {
		return nil, "", core.ErrEmptyPassword
	}

	user, err := s.store.Queries().GetUserByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrAuthenticationFailed
	}
	if err != nil {
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		s.logger.WarnContext(ctx, "password mismatch",
			log.FieldOperation, log.OpLogin, log.FieldUserName, name)
		return nil, "", ErrAuthenticationFailed
	}

	token, err := s.tokens.Issue(user.Name, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	user.Password = ""
	s.logger.InfoContext(ctx, "user authenticated",
		log.FieldOperation, log.OpLogin,
		log.FieldUserName, user.Name,
		log.FieldRole, user.Role)
	return &user, token, nil
}
