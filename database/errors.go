package database

import (
	"errors"
	"strings"

	"github.com/weaviate/weaviate-go-client/v4/weaviate/fault"
)

// isAbsenceError reports whether err is a benign absence signal: the
// class does not exist yet, the filter cannot match its schema, or
// the store is unreachable on a cleanup path. The structured status
// code is checked first; message content is a fallback for errors
// the client does not type.
func isAbsenceError(err error) bool {
	if err == nil {
		return false
	}
	var clientErr *fault.WeaviateClientError
	if errors.As(err, &clientErr) {
		if clientErr.StatusCode == 404 || clientErr.StatusCode == 422 {
			return true
		}
		if clientErr.DerivedFromError != nil && isAbsenceMessage(clientErr.DerivedFromError.Error()) {
			return true
		}
		return isAbsenceMessage(clientErr.Msg)
	}
	return isAbsenceMessage(err.Error())
}

func isAbsenceMessage(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "could not find class") ||
		strings.Contains(m, "not found") ||
		strings.Contains(m, "connection refused") ||
		strings.Contains(m, "no such host") ||
		strings.Contains(m, "unexpected eof")
}

func isAlreadyExistsError(err error) bool {
	var clientErr *fault.WeaviateClientError
	if errors.As(err, &clientErr) && clientErr.StatusCode == 422 {
		return strings.Contains(strings.ToLower(clientErr.Msg), "already exists")
	}
	return false
}
