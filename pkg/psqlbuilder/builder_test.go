package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_UsesDollarPlaceholders(t *testing.T) {
	query, args, err := Select("id").
		From("rsvp.reservations").
		Where(squirrel.Eq{"user_id": "alice"}).
		Where(squirrel.Eq{"resource_id": "room-1"}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM rsvp.reservations WHERE user_id = $1 AND resource_id = $2", query)
	assert.Equal(t, []interface{}{"alice", "room-1"}, args)
}

func TestDelete_UsesDollarPlaceholders(t *testing.T) {
	query, args, err := Delete("rsvp.reservations").Where(squirrel.Eq{"id": "x"}).ToSql()

	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM rsvp.reservations WHERE id = $1", query)
	assert.Equal(t, []interface{}{"x"}, args)
}
