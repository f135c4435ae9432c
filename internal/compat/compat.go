// Package compat decides which profiles a viewer may discover.
//
// A candidate c is visible to viewer v iff both hold:
//  1. c.orientation == v.gender || c.orientation == bi-sexual
//  2. v.orientation == bi-sexual || c.gender == v.orientation
//
// The first says the candidate accepts someone of the viewer's gender, the
// second that the candidate is what the viewer is looking for. Visible is the
// in-memory form; Scope is the same rule as a SQL condition on the users table
// and additionally enforces activation and excludes the viewer.
package compat

import (
	"gorm.io/gorm"

	"github.com/oggyb/matcha/internal/db"
)

// Party is the part of a profile the rule looks at.
type Party struct {
	ID          uint64
	Gender      db.Gender
	Orientation db.Orientation
}

// PartyOf extracts the rule inputs from a user row.
func PartyOf(u *db.User) Party {
	return Party{ID: u.ID, Gender: u.Gender, Orientation: u.Orientation}
}

// Visible reports whether candidate may appear in viewer's discovery results.
func Visible(viewer, candidate Party) bool {
	acceptsViewer := candidate.Orientation == db.OrientationBisexual ||
		string(candidate.Orientation) == string(viewer.Gender)
	wantedByViewer := viewer.Orientation == db.OrientationBisexual ||
		string(candidate.Gender) == string(viewer.Orientation)
	return acceptsViewer && wantedByViewer
}

// Scope restricts a query on users (optionally aliased as table) to activated
// candidates visible to viewer, other than the viewer.
//
// Example:
//
//	tx.Table("users u").Scopes(compat.Scope(viewer, "u")).Pluck("u.id", &ids)
func Scope(viewer Party, table string) func(*gorm.DB) *gorm.DB {
	col := func(name string) string {
		if table == "" {
			return name
		}
		return table + "." + name
	}
	return func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where(col("status")+" = ?", db.StatusActivated).
			Where(col("id")+" <> ?", viewer.ID).
			Where(col("orientation")+" IN ?", []string{string(viewer.Gender), string(db.OrientationBisexual)})
		if viewer.Orientation != db.OrientationBisexual {
			tx = tx.Where(col("gender")+" = ?", string(viewer.Orientation))
		}
		return tx
	}
}
