package identity

import "sort"

// Role is the coarse access level of a user
type Role string

const (
	RoleAdmin Role = "admin"
	RoleKasir Role = "kasir"
)

// IsValid reports whether the role is one of the known roles
func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Permission is an opaque token naming one allowed action
type Permission string

// Permission tokens
const (
	PermCreateProduct   Permission = "create_product"
	PermReadProduct     Permission = "read_product"
	PermUpdateProduct   Permission = "update_product"
	PermDeleteProduct   Permission = "delete_product"
	PermCreateSale      Permission = "create_sale"
	PermReadSale        Permission = "read_sale"
	PermUpdateSale      Permission = "update_sale"
	PermDeleteSale      Permission = "delete_sale"
	PermCreateUser      Permission = "create_user"
	PermReadUser        Permission = "read_user"
	PermUpdateUser      Permission = "update_user"
	PermDeleteUser      Permission = "delete_user"
	PermAccessSettings  Permission = "access_settings"
	PermPrintReceipt    Permission = "print_receipt"
	PermDownloadReceipt Permission = "download_receipt"
)

// AllPermissions lists every token the system recognizes
var AllPermissions = []Permission{
	PermCreateProduct, PermReadProduct, PermUpdateProduct, PermDeleteProduct,
	PermCreateSale, PermReadSale, PermUpdateSale, PermDeleteSale,
	PermCreateUser, PermReadUser, PermUpdateUser, PermDeleteUser,
	PermAccessSettings,
	PermPrintReceipt, PermDownloadReceipt,
}

var rolePermissions = map[Role]map[Permission]struct{}{
	RoleAdmin: setOf(AllPermissions...),
	// kasir: no update/delete, no user management, no settings
	RoleKasir: setOf(
		PermReadProduct,
		PermCreateSale,
		PermReadSale,
		PermPrintReceipt,
		PermDownloadReceipt,
	),
}

func setOf(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// HasPermission is the single capability check for the whole system.
// Unknown roles and unknown tokens are denied.
func HasPermission(role Role, perm Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, granted := perms[perm]
	return granted
}

// PermissionsFor returns the sorted token list granted to a role
func PermissionsFor(role Role) []string {
	perms := rolePermissions[role]
	result := make([]string, 0, len(perms))
	for p := range perms {
		result = append(result, string(p))
	}
	sort.Strings(result)
	return result
}
