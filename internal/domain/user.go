package domain

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the profile portion of a per-user document.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserDocument is the full per-user document held by the document store:
// profile fields plus the persisted collections.
type UserDocument struct {
	User
	Cart     []ProductRecord `json:"cart"`
	Wishlist []ProductRecord `json:"wishlist"`
	Orders   []Order         `json:"orders"`
}

// Collection field names within a user document. Only these two are
// valid targets for array operations; orders are append-only and managed
// by the order service.
const (
	FieldCart     = "cart"
	FieldWishlist = "wishlist"
)

// ValidCollectionField reports whether f names a mutable collection.
func ValidCollectionField(f string) bool {
	return f == FieldCart || f == FieldWishlist
}
