// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cinelist/internal/platform/apperr"
	"github.com/taibuivan/cinelist/internal/platform/constants"
	"github.com/taibuivan/cinelist/internal/platform/ctxutil"
	"github.com/taibuivan/cinelist/internal/platform/sec"
	"github.com/taibuivan/cinelist/internal/platform/validate"
)

/*
DecodeJSON reads at most [constants.MaxJSONBodyBytes] of the request body and
decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (lets the server close oversized connections)
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: PAYLOAD_TOO_LARGE past the limit, validate.ErrInvalidJSON if decoding fails
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target interface{}) error {
	body := http.MaxBytesReader(writer, request.Body, constants.MaxJSONBodyBytes)

	if err := json.NewDecoder(body).Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.PayloadTooLarge("Request body is too large")
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
IsMultipart reports whether the request body is multipart/form-data.
*/
func IsMultipart(request *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(request.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

/*
ID retrieves a named URL parameter and checks that it is a UUID.

Returns:
  - string: The raw parameter
  - error: VALIDATION_ERROR if the value is not a UUID
*/
func ID(request *http.Request, name string) (string, error) {
	id := chi.URLParam(request, name)

	validator := &validate.Validator{}
	if err := validator.UUID(name, id).Err(); err != nil {
		return "", apperr.ValidationError("Invalid ID format", apperr.FieldError{Field: name, Message: "Must be a valid UUID"})
	}
	return id, nil
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {

	// Get user claims
	claims := ctxutil.GetAuthUser(request.Context())

	// If the user is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}

	return claims.UserID, nil
}
