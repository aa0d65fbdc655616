package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/alfredjeanlab/tracker/internal/auth"
	"github.com/alfredjeanlab/tracker/internal/category"
	"github.com/alfredjeanlab/tracker/internal/model"
)

// inputError indicates invalid user input.
// Transport layers map this to 400 / InvalidArgument.
type inputError string

func (e inputError) Error() string { return string(e) }

// notFoundError names a missing entity.
// Transport layers map this to 404 / NotFound.
type notFoundError string

func (e notFoundError) Error() string { return string(e) + " not found" }

// errStaleMove is returned when a move names a parent the category no
// longer has.
var errStaleMove = errors.New("category parent changed since it was read")

// storeError turns sql.ErrNoRows into a notFoundError for entity and wraps
// anything else.
func storeError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFoundError(entity)
	}
	var nf notFoundError
	if errors.As(err, &nf) {
		return err
	}
	var ie inputError
	if errors.As(err, &ie) || errors.Is(err, auth.ErrAccessDenied) || errors.Is(err, auth.ErrUnauthenticated) {
		return err
	}
	return fmt.Errorf("%s: %w", entity, err)
}

// errorCode classifies an operation error.
func errorCode(err error) codes.Code {
	var (
		ie inputError
		ve *model.ValidationError
		nf notFoundError
	)
	switch {
	case errors.As(err, &ie), errors.As(err, &ve):
		return codes.InvalidArgument
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidCredentials):
		return codes.Unauthenticated
	case errors.Is(err, auth.ErrAccessDenied):
		return codes.PermissionDenied
	case errors.As(err, &nf), errors.Is(err, sql.ErrNoRows):
		return codes.NotFound
	case errors.Is(err, category.ErrCycle), errors.Is(err, category.ErrTooDeep), errors.Is(err, errStaleMove):
		return codes.FailedPrecondition
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}
	return codes.Internal
}

// toStatus maps an operation error to a gRPC status error. Invalid input
// carries a BadRequest detail listing the offending fields.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	code := errorCode(err)
	msg := err.Error()
	if code == codes.Internal {
		msg = "internal error: " + msg
	}
	st := status.New(code, msg)
	if code == codes.InvalidArgument {
		if detailed, derr := st.WithDetails(badRequest(err)); derr == nil {
			st = detailed
		}
	}
	return st.Err()
}

func badRequest(err error) *errdetails.BadRequest {
	br := &errdetails.BadRequest{}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		for _, fe := range ve.Errors {
			br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       fe.Field,
				Description: fe.Message,
			})
		}
		return br
	}
	br.FieldViolations = []*errdetails.BadRequest_FieldViolation{{Description: err.Error()}}
	return br
}

// httpStatus maps a gRPC code to the matching HTTP status.
func httpStatus(code codes.Code) int {
	switch code {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.FailedPrecondition:
		return http.StatusConflict
	case codes.Canceled:
		return 499
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// writeOpError writes err as a JSON error response.
func writeOpError(w http.ResponseWriter, err error) {
	code := errorCode(err)
	msg := err.Error()
	if st, ok := status.FromError(err); ok {
		code, msg = st.Code(), st.Message()
	}
	if code == codes.Unauthenticated {
		w.Header().Set("WWW-Authenticate", `Basic realm="tracker"`)
	}
	writeError(w, httpStatus(code), msg)
}
