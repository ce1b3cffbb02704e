package db

import (
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"equipment-rental/pkg/types"
)

// ApplySearch matches term case-insensitively against any of columns.
func ApplySearch(builder sq.SelectBuilder, term string, columns ...string) sq.SelectBuilder {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return builder
	}
	pat := "%" + term + "%"
	or := make(sq.Or, 0, len(columns))
	for _, col := range columns {
		or = append(or, sq.ILike{col: pat})
	}
	return builder.Where(or)
}

// ApplyListParams adds filter, sort and pagination clauses. Only fields present
// in allowed (json name -> column) are honoured. A comma in a filter value
// turns it into an IN list. Sort keys are applied in name order so the
// generated SQL is stable.
func ApplyListParams(builder sq.SelectBuilder, filter types.Filter, allowed map[string]string) sq.SelectBuilder {
	for field, val := range filter.Filter {
		col, ok := allowed[field]
		if !ok {
			continue
		}
		if s, ok := val.(string); ok && strings.Contains(s, ",") {
			builder = builder.Where(sq.Eq{col: strings.Split(s, ",")})
			continue
		}
		builder = builder.Where(sq.Eq{col: val})
	}

	sortFields := make([]string, 0, len(filter.Sort))
	for field := range filter.Sort {
		if _, ok := allowed[field]; ok {
			sortFields = append(sortFields, field)
		}
	}
	sort.Strings(sortFields)
	for _, field := range sortFields {
		dir := "ASC"
		if strings.EqualFold(filter.Sort[field], "desc") {
			dir = "DESC"
		}
		builder = builder.OrderBy(allowed[field] + " " + dir)
	}

	if !filter.WithPagination {
		return builder
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}
	return builder
}
