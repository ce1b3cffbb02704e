package db

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipment-rental/pkg/types"
)

func TestApplyListParams(t *testing.T) {
	allowed := map[string]string{"category": "e.category", "name": "e.name"}
	filter := types.Filter{
		Filter:         map[string]interface{}{"category": "SON,VIDEO", "password": "x"},
		Sort:           map[string]string{"name": "desc", "secret": "asc"},
		Limit:          20,
		Offset:         40,
		WithPagination: true,
	}

	b := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).Select("e.id").From("equipment e")
	query, args, err := ApplyListParams(b, filter, allowed).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT e.id FROM equipment e WHERE e.category IN ($1,$2) ORDER BY e.name DESC LIMIT 20 OFFSET 40", query)
	assert.Equal(t, []interface{}{"SON", "VIDEO"}, args)
}

func TestApplyListParams_NoPagination(t *testing.T) {
	b := sq.Select("id").From("events")
	query, _, err := ApplyListParams(b, types.Filter{Limit: 10}, nil).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM events", query)
}

func TestApplyListParams_SortIsStable(t *testing.T) {
	allowed := map[string]string{"name": "e.name", "category": "e.category", "reference": "e.reference"}
	filter := types.Filter{Sort: map[string]string{"reference": "asc", "category": "DESC", "name": "asc"}}

	query, _, err := ApplyListParams(sq.Select("e.id").From("equipment e"), filter, allowed).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT e.id FROM equipment e ORDER BY e.category DESC, e.name ASC, e.reference ASC", query)
}

func TestApplySearch(t *testing.T) {
	b := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).Select("ev.id").From("events ev")

	query, args, err := ApplySearch(b, " gala ", "ev.event_name", "ev.client_name").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT ev.id FROM events ev WHERE (ev.event_name ILIKE $1 OR ev.client_name ILIKE $2)", query)
	assert.Equal(t, []interface{}{"%gala%", "%gala%"}, args)

	query, _, err = ApplySearch(b, "   ", "ev.event_name").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT ev.id FROM events ev", query)
}
