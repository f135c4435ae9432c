package compat_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/matcha/internal/compat"
	"github.com/oggyb/matcha/internal/db"
)

var (
	genders      = []db.Gender{db.GenderMale, db.GenderFemale, db.GenderOther}
	orientations = []db.Orientation{db.OrientationMale, db.OrientationFemale, db.OrientationBisexual}
)

func TestVisible_Examples(t *testing.T) {
	viewer := compat.Party{ID: 1, Gender: db.GenderFemale, Orientation: db.OrientationMale}

	assert.True(t, compat.Visible(viewer, compat.Party{ID: 2, Gender: db.GenderMale, Orientation: db.OrientationBisexual}))
	assert.True(t, compat.Visible(viewer, compat.Party{ID: 3, Gender: db.GenderMale, Orientation: db.OrientationFemale}))
	assert.False(t, compat.Visible(viewer, compat.Party{ID: 4, Gender: db.GenderMale, Orientation: db.OrientationMale}), "candidate not into women")
	assert.False(t, compat.Visible(viewer, compat.Party{ID: 5, Gender: db.GenderFemale, Orientation: db.OrientationBisexual}), "viewer not into women")

	bi := compat.Party{ID: 6, Gender: db.GenderOther, Orientation: db.OrientationBisexual}
	assert.True(t, compat.Visible(bi, compat.Party{ID: 7, Gender: db.GenderOther, Orientation: db.OrientationBisexual}))
	assert.False(t, compat.Visible(bi, compat.Party{ID: 8, Gender: db.GenderFemale, Orientation: db.OrientationMale}))
}

// The SQL scope and the in-memory predicate must select the same candidates
// for every viewer shape.
func TestScope_AgreesWithVisible(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	var users []db.User
	id := uint64(1)
	for _, status := range []db.Status{db.StatusActivated, db.StatusNew} {
		for _, g := range genders {
			for _, o := range orientations {
				users = append(users, db.User{
					ID: id, Username: fmt.Sprintf("u%d", id), Email: fmt.Sprintf("u%d@test.com", id),
					PasswordHash: "x", Gender: g, Orientation: o, Status: status,
					DateOfBirth: time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC),
				})
				id++
			}
		}
	}
	require.NoError(t, gdb.Create(&users).Error)

	ctx := context.Background()
	for _, viewer := range users {
		v := compat.PartyOf(&viewer)

		var got []uint64
		require.NoError(t, gdb.WithContext(ctx).Table("users u").
			Scopes(compat.Scope(v, "u")).
			Order("u.id").
			Pluck("u.id", &got).Error)

		var want []uint64
		for _, c := range users {
			if c.ID != v.ID && c.Status == db.StatusActivated && compat.Visible(v, compat.PartyOf(&c)) {
				want = append(want, c.ID)
			}
		}
		assert.ElementsMatch(t, want, got, "viewer %s/%s", v.Gender, v.Orientation)
	}
}
