package domain

// Authorize is the single access-control rule for object operations.
//
// A caller may download, delete, or issue share links for an object iff it is
// the object's owner or carries the admin role. Every mutating or reading
// operation goes through this one function; per-handler role checks are not
// allowed. Listing is intentionally NOT expressed through Authorize: it is a
// query-shaping rule (admins list all, users list their own) applied at the
// repository level.
func Authorize(caller Identity, object *StoredObject) bool {
	if caller.IsAdmin() {
		return true
	}
	return caller.ID == object.OwnerID
}
