package controllers

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/articles-api/api/middleware"
	"github.com/angelmondragon/articles-api/api/responses"
	"github.com/angelmondragon/articles-api/api/validators"
	"github.com/angelmondragon/articles-api/internal/articles"
	"github.com/angelmondragon/articles-api/pkg/envelope"
	pkgerrors "github.com/angelmondragon/articles-api/pkg/errors"
	"github.com/angelmondragon/articles-api/pkg/logger"
)

// Result code numbers for the article endpoints. Get reuses the list code.
const (
	codeArticlesListed  = 1
	codeArticleFound    = 1
	codeArticleCreated  = 3
	codeArticleModified = 4
	codeArticleDeleted  = 5
)

type createArticleRequest struct {
	Subject string `json:"subject" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type updateArticleRequest struct {
	Subject *string `json:"subject,omitempty"`
	Content *string `json:"content,omitempty"`
}

// ListArticles returns every article newest first, or a page when limit/cursor is given.
func ListArticles(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "article service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, envelope.Success(codeArticlesListed, "success", result.Data()))
	}
}

func GetArticle(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "article service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		article, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, envelope.Success(codeArticleFound, "success", articles.Single(*article)))
	}
}

// CreateArticle stores a new article authored by the caller.
func CreateArticle(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "article service unavailable"))
			return
		}

		memberID := middleware.MemberIDFromContext(r.Context())
		if memberID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "member context missing"))
			return
		}

		var payload createArticleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		article, err := svc.Create(r.Context(), memberID, articles.CreateInput{
			Subject: payload.Subject,
			Content: payload.Content,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		msg := fmt.Sprintf("article %d created", article.ID)
		responses.WriteSuccess(w, http.StatusCreated, envelope.Success(codeArticleCreated, msg, articles.Single(*article)))
	}
}

// UpdateArticle applies a partial update; absent fields keep their value.
func UpdateArticle(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "article service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateArticleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		article, err := svc.Update(r.Context(), middleware.MemberIDFromContext(r.Context()), id, articles.UpdateInput{
			Subject: payload.Subject,
			Content: payload.Content,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		msg := fmt.Sprintf("article %d modified", article.ID)
		responses.WriteSuccess(w, http.StatusOK, envelope.Success(codeArticleModified, msg, articles.Single(*article)))
	}
}

// DeleteArticle removes an article and echoes its last values.
func DeleteArticle(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "article service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		article, err := svc.Delete(r.Context(), middleware.MemberIDFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		msg := fmt.Sprintf("article %d deleted", article.ID)
		responses.WriteSuccess(w, http.StatusOK, envelope.Success(codeArticleDeleted, msg, articles.Single(*article)))
	}
}
