package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	t.Run("admin holds every permission", func(t *testing.T) {
		for _, perm := range AllPermissions {
			assert.True(t, HasPermission(RoleAdmin, perm), string(perm))
		}
	})

	t.Run("kasir holds only the cashier subset", func(t *testing.T) {
		granted := map[Permission]bool{
			PermReadProduct:     true,
			PermCreateSale:      true,
			PermReadSale:        true,
			PermPrintReceipt:    true,
			PermDownloadReceipt: true,
		}
		for _, perm := range AllPermissions {
			assert.Equal(t, granted[perm], HasPermission(RoleKasir, perm), string(perm))
		}
	})

	t.Run("unknown role is denied", func(t *testing.T) {
		assert.False(t, HasPermission(Role("manager"), PermReadProduct))
		assert.False(t, HasPermission(Role(""), PermReadProduct))
	})

	t.Run("unknown token is denied", func(t *testing.T) {
		assert.False(t, HasPermission(RoleAdmin, Permission("launch_rockets")))
	})
}

func TestPermissionsFor(t *testing.T) {
	assert.Len(t, PermissionsFor(RoleAdmin), 15)
	assert.Equal(t, []string{
		"create_sale",
		"download_receipt",
		"print_receipt",
		"read_product",
		"read_sale",
	}, PermissionsFor(RoleKasir))
	assert.Empty(t, PermissionsFor(Role("ghost")))
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleKasir.IsValid())
	assert.False(t, Role("Admin").IsValid())
}
