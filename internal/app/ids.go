package app

import "github.com/google/uuid"

// newOrGivenID returns id when set, otherwise a fresh random UUID.
func newOrGivenID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// checkID rejects keys that are not UUIDs before they reach the datastore.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return WrapValidation(nil, "ID tidak valid")
	}
	return nil
}
