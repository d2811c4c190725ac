package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/articles-api/api/middleware"
	"github.com/angelmondragon/articles-api/api/responses"
	"github.com/angelmondragon/articles-api/api/validators"
	"github.com/angelmondragon/articles-api/internal/members"
	pkgAuth "github.com/angelmondragon/articles-api/pkg/auth"
	"github.com/angelmondragon/articles-api/pkg/envelope"
	pkgerrors "github.com/angelmondragon/articles-api/pkg/errors"
	"github.com/angelmondragon/articles-api/pkg/logger"
)

// AuthenticationHeader carries the fresh access token on login responses.
const AuthenticationHeader = "Authentication"

const (
	codeMemberLoggedIn  = 1
	codeMemberMe        = 2
	codeMemberJoined    = 3
	codeMemberRefreshed = 4
	codeMemberLoggedOut = 5
)

type loginService interface {
	Login(ctx context.Context, req members.LoginRequest) (*members.LoginResult, error)
}

type joinService interface {
	Join(ctx context.Context, req members.JoinRequest) (*members.MemberDTO, error)
}

type meService interface {
	Me(ctx context.Context, memberID int64) (*members.MemberDTO, error)
}

type sessionService interface {
	Refresh(ctx context.Context, accessToken, refreshToken string) (*members.TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
}

func bearerFromRequest(r *http.Request) (string, error) {
	token, ok := pkgAuth.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return token, nil
}

// MemberLogin verifies credentials and returns the member with a token pair.
func MemberLogin(svc loginService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload members.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(AuthenticationHeader, result.AccessToken)
		responses.WriteSuccess(w, http.StatusOK, envelope.Success(codeMemberLoggedIn, "logged in as "+result.Member.Username, *result))
	}
}

func MemberJoin(svc joinService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload members.JoinRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := svc.Join(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusCreated, envelope.Success(codeMemberJoined, "welcome, "+member.Username, members.MemberData{Member: *member}))
	}
}

func MemberMe(svc meService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memberID := middleware.MemberIDFromContext(r.Context())
		if memberID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "member context missing"))
			return
		}

		member, err := svc.Me(r.Context(), memberID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, envelope.Success(codeMemberMe, "success", members.MemberData{Member: *member}))
	}
}

// MemberRefresh rotates the refresh session bound to the presented access token.
// The access token may be expired.
func MemberRefresh(svc sessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload members.RefreshRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pair, err := svc.Refresh(r.Context(), token, payload.RefreshToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(AuthenticationHeader, pair.AccessToken)
		responses.WriteSuccess(w, http.StatusOK, envelope.Success(codeMemberRefreshed, "token refreshed", *pair))
	}
}

// MemberLogout revokes the refresh mapping tied to the presented access token.
func MemberLogout(svc sessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Logout(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, envelope.Bare(envelope.SuccessCode(codeMemberLoggedOut), "logged out"))
	}
}
