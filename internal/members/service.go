package members

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/angelmondragon/articles-api/pkg/auth"
	"github.com/angelmondragon/articles-api/pkg/auth/session"
	"github.com/angelmondragon/articles-api/pkg/config"
	"github.com/angelmondragon/articles-api/pkg/db"
	"github.com/angelmondragon/articles-api/pkg/db/models"
	"github.com/angelmondragon/articles-api/pkg/enums"
	pkgerrors "github.com/angelmondragon/articles-api/pkg/errors"
	"github.com/angelmondragon/articles-api/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines member sign-in, sign-up and session operations.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Join(ctx context.Context, req JoinRequest) (*MemberDTO, error)
	Me(ctx context.Context, memberID int64) (*MemberDTO, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
}

type memberRepository interface {
	Create(ctx context.Context, member *models.Member) (*models.Member, error)
	FindByUsername(ctx context.Context, username string) (*models.Member, error)
	FindByID(ctx context.Context, id int64) (*models.Member, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

type sessionManager interface {
	Issue(ctx context.Context) (session.Session, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (session.Session, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build a member service.
type ServiceParams struct {
	Repo           memberRepository
	Hasher         security.PasswordHasher
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	Now            func() time.Time
}

type service struct {
	repo     memberRepository
	hasher   security.PasswordHasher
	sessions sessionManager
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// NewService constructs a member service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("member repository is required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:     params.Repo,
		hasher:   params.Hasher,
		sessions: params.SessionManager,
		jwtCfg:   params.JWTConfig,
		now:      params.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	member, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, member.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update last login")
	}
	member.LastLoginAt = &now

	tokens, err := s.issueTokens(ctx, member, now)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Member: FromModel(member), TokenPair: *tokens}, nil
}

func (s *service) Join(ctx context.Context, req JoinRequest) (*MemberDTO, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var email *string
	if req.Email != nil {
		if v := strings.ToLower(strings.TrimSpace(*req.Email)); v != "" {
			email = &v
		}
	}

	created, err := s.repo.Create(ctx, &models.Member{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Role:         enums.MemberRoleUser,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create member")
	}
	dto := FromModel(created)
	return &dto, nil
}

func (s *service) Me(ctx context.Context, memberID int64) (*MemberDTO, error) {
	member, err := s.repo.FindByID(ctx, memberID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
	}
	dto := FromModel(member)
	return &dto, nil
}

func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	next, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	// Role is re-read so the new token reflects the current row.
	member, err := s.repo.FindByID(ctx, claims.MemberID)
	if err != nil {
		_ = s.sessions.Revoke(ctx, next.AccessID)
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "member no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
	}

	access, err := s.mint(member, next.AccessID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: next.RefreshToken}, nil
}

func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, username, password string) (*models.Member, error) {
	input := strings.TrimSpace(username)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	member, err := s.repo.FindByUsername(ctx, input)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup member")
	}

	valid, err := s.hasher.Verify(password, member.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return member, nil
}

func (s *service) issueTokens(ctx context.Context, member *models.Member, now time.Time) (*TokenPair, error) {
	sess, err := s.sessions.Issue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	access, err := s.mint(member, sess.AccessID, now)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: sess.RefreshToken}, nil
}

func (s *service) mint(member *models.Member, accessID string, now time.Time) (string, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		MemberID: member.ID,
		Username: member.Username,
		Role:     member.Role,
		JTI:      accessID,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}
