package service

import "github.com/google/uuid"

// validID reports whether a path id parses as a uuid. Malformed ids would
// otherwise reach postgres as an invalid cast against a uuid column and
// surface as a 500 instead of a clean rejection.
func validID(raw string) bool {
	_, err := uuid.Parse(raw)
	return err == nil
}
