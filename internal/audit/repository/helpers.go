package repository

import (
	"github.com/google/uuid"
)

// nullableUUID converts an optional UUID reference to a driver-friendly
// uuid.NullUUID so nil references become database NULLs.
func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

// nullableBinaryUUID marshals an optional UUID reference to BINARY(16) for
// MySQL, producing a nil slice (database NULL) for nil references.
func nullableBinaryUUID(id *uuid.UUID) ([]byte, error) {
	if id == nil {
		return nil, nil
	}
	return id.MarshalBinary()
}

// binaryUUIDPtr unmarshals a BINARY(16) column into an optional UUID
// reference, mapping NULL to nil.
func binaryUUIDPtr(data []byte) (*uuid.UUID, error) {
	if data == nil {
		return nil, nil
	}
	var id uuid.UUID
	if err := id.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &id, nil
}
