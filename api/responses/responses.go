package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/angelmondragon/articles-api/pkg/envelope"
	pkgerrors "github.com/angelmondragon/articles-api/pkg/errors"
	"github.com/angelmondragon/articles-api/pkg/logger"
)

// WriteSuccess writes a success envelope with the given HTTP status.
func WriteSuccess[T any](w http.ResponseWriter, status int, env envelope.Envelope[T]) {
	writeJSON(w, status, env)
}

// WriteError renders err as a failure envelope using the status and result code
// registered for its error class.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	writeError(ctx, logg, w, 0, err)
}

// WriteErrorStatus is WriteError with an explicit HTTP status, used where the
// transport status differs from the class default (405 for a wrong method).
func WriteErrorStatus(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, status int, err error) {
	writeError(ctx, logg, w, status, err)
}

// FailureEnvelope maps err to the envelope and status that WriteError would send.
func FailureEnvelope(err error) (envelope.Envelope[envelope.Empty], int) {
	typed := typedError(err)
	meta := pkgerrors.MetadataFor(typed.Code())
	return envelope.Failure(meta.ResultCode.Number(), publicMessage(typed, meta)), meta.HTTPStatus
}

func writeError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, status int, err error) {
	typed := typedError(err)
	if err == nil {
		err = typed
	}
	env, defaultStatus := FailureEnvelope(typed)
	if status == 0 {
		status = defaultStatus
	}

	if logg != nil {
		fields := pkgerrors.Dump(err).Fields()
		fields["status"] = status
		meta := pkgerrors.MetadataFor(typed.Code())
		if d := typed.Details(); d != nil && meta.DetailsAllowed {
			fields["details"] = d
		}
		ctx = logg.WithFields(ctx, fields)
		if status >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	writeJSON(w, status, env)
}

func typedError(err error) *pkgerrors.Error {
	if err == nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("unknown error"), "unexpected error")
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
}

func publicMessage(typed *pkgerrors.Error, meta pkgerrors.Metadata) string {
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeIdempotency,
		pkgerrors.CodeRateLimit:
		if m := typed.Message(); m != "" {
			return m
		}
	}
	return meta.PublicMessage
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
