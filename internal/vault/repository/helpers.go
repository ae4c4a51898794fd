package repository

import (
	"database/sql"

	apperrors "github.com/allisson/vault/internal/errors"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

// scanObjects drains rows into StoredObject values, always returning a
// non-nil slice for empty result sets.
func scanObjects(rows *sql.Rows) ([]*vaultDomain.StoredObject, error) {
	defer func() { _ = rows.Close() }()

	objects := []*vaultDomain.StoredObject{}
	for rows.Next() {
		var object vaultDomain.StoredObject
		err := rows.Scan(
			&object.ID,
			&object.DisplayName,
			&object.StorageKey,
			&object.OwnerID,
			&object.Nonce,
			&object.Size,
			&object.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan object")
		}
		objects = append(objects, &object)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate objects")
	}

	return objects, nil
}

// scanBinaryObjects drains rows whose UUID columns are stored as BINARY(16).
func scanBinaryObjects(rows *sql.Rows) ([]*vaultDomain.StoredObject, error) {
	defer func() { _ = rows.Close() }()

	objects := []*vaultDomain.StoredObject{}
	for rows.Next() {
		var object vaultDomain.StoredObject
		var idBinary, storageKeyBinary, ownerIDBinary []byte
		err := rows.Scan(
			&idBinary,
			&object.DisplayName,
			&storageKeyBinary,
			&ownerIDBinary,
			&object.Nonce,
			&object.Size,
			&object.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan object")
		}

		if err := unmarshalObjectUUIDs(&object, idBinary, storageKeyBinary, ownerIDBinary); err != nil {
			return nil, err
		}
		objects = append(objects, &object)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate objects")
	}

	return objects, nil
}

// unmarshalObjectUUIDs fills the UUID fields of object from their BINARY(16)
// representations.
func unmarshalObjectUUIDs(object *vaultDomain.StoredObject, id, storageKey, ownerID []byte) error {
	if err := object.ID.UnmarshalBinary(id); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal object id")
	}
	if err := object.StorageKey.UnmarshalBinary(storageKey); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal object storage_key")
	}
	if err := object.OwnerID.UnmarshalBinary(ownerID); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal object owner_id")
	}
	return nil
}
