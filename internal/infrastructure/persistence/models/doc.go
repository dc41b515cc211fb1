// Package models contains the GORM persistence models of the POS tables.
// They are kept separate from the domain entities so the domain stays free
// of ORM tags; each model converts to and from its entity.
package models
