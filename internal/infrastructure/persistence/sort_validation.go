package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes a sort direction to ASC or DESC.
// Anything other than "asc" yields DESC.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted and
// defaultField otherwise
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"name":       true,
	"category":   true,
	"price":      true,
	"stock":      true,
	"created_at": true,
	"updated_at": true,
}

// orderClause builds a whitelisted ORDER BY clause with id as tie breaker
// so paging is stable
func orderClause(orderBy, orderDir string, allowed map[string]bool, defaultField string) string {
	return ValidateSortField(orderBy, allowed, defaultField) + " " + ValidateSortOrder(orderDir) + ", id ASC"
}
