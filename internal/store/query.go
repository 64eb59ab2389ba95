package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
)

// Row is a generic column-name-keyed row. Callers in internal/jobs project
// Rows into typed snapshot structs; Row itself never leaves this package's
// query boundary except as the thing typed code is built from.
type Row map[string]any

// Combinator picks how Predicates in a Search are joined.
type Combinator string

const (
	And Combinator = "AND"
	Or  Combinator = "OR"
)

// Predicate is one equality clause in a Search.
type Predicate struct {
	Column string
	Value  any
}

// Store is the registry-gated query engine over one *DB.
type Store struct {
	db     *DB
	logger arbor.ILogger
}

func NewStore(db *DB, logger arbor.ILogger) *Store {
	return &Store{db: db, logger: logger}
}

func (s *Store) DB() *DB { return s.db }

// AddEntry inserts values into table. Column names are validated against
// the registry before any SQL is built.
func (s *Store) AddEntry(ctx context.Context, table Table, values Row) error {
	cols := sortedKeys(values)
	if err := SanityCheck(table, cols); err != nil {
		return err
	}

	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		placeholders[i] = "?"
		args[i] = values[c]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	return busyRetry(ctx, s.logger, func() error {
		_, err := s.db.SQL().ExecContext(ctx, query, args...)
		return err
	})
}

// UpsertEntry inserts values into table, replacing any row with a
// colliding primary key. Used only by the pub table's overwrite=true path.
func (s *Store) UpsertEntry(ctx context.Context, table Table, values Row) error {
	cols := sortedKeys(values)
	if err := SanityCheck(table, cols); err != nil {
		return err
	}

	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		placeholders[i] = "?"
		args[i] = values[c]
	}

	query := fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	return busyRetry(ctx, s.logger, func() error {
		_, err := s.db.SQL().ExecContext(ctx, query, args...)
		return err
	})
}

// UpdateColumn sets a single column on the row identified by keyCols.
func (s *Store) UpdateColumn(ctx context.Context, table Table, keyCols Row, column string, newValue any) error {
	if err := CheckColumn(table, column); err != nil {
		return err
	}
	if err := SanityCheck(table, sortedKeys(keyCols)); err != nil {
		return err
	}

	keyClause, keyArgs := whereClause(keyCols, And)
	query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s", table, column, keyClause)
	args := append([]any{newValue}, keyArgs...)

	return busyRetry(ctx, s.logger, func() error {
		res, err := s.db.SQL().ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeleteEntry removes the row(s) identified by keyCols.
func (s *Store) DeleteEntry(ctx context.Context, table Table, keyCols Row) error {
	if err := SanityCheck(table, sortedKeys(keyCols)); err != nil {
		return err
	}
	keyClause, keyArgs := whereClause(keyCols, And)
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", table, keyClause)
	return busyRetry(ctx, s.logger, func() error {
		_, err := s.db.SQL().ExecContext(ctx, query, keyArgs...)
		return err
	})
}

// GetByKey fetches the single row matching keyCols, or ErrNotFound.
func (s *Store) GetByKey(ctx context.Context, table Table, keyCols Row) (Row, error) {
	rows, err := s.SearchPredicates(ctx, table, And, predicatesFrom(keyCols)...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// Exists reports whether a row matching keyCols exists.
func (s *Store) Exists(ctx context.Context, table Table, keyCols Row) (bool, error) {
	_, err := s.GetByKey(ctx, table, keyCols)
	if err != nil {
		if err == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SearchPredicates is the general filtered-search primitive: every column
// named in predicates is validated against the registry before the query
// is built.
func (s *Store) SearchPredicates(ctx context.Context, table Table, combinator Combinator, predicates ...Predicate) ([]Row, error) {
	if _, ok := registeredColumns[table]; !ok {
		return nil, fmt.Errorf("%w: unregistered table %q", ErrInvariant, table)
	}

	query := fmt.Sprintf("SELECT * FROM %s", table)
	var args []any
	if len(predicates) > 0 {
		clauses := make([]string, len(predicates))
		for i, p := range predicates {
			if err := CheckColumn(table, p.Column); err != nil {
				return nil, err
			}
			clauses[i] = fmt.Sprintf("%s = ?", p.Column)
			args = append(args, p.Value)
		}
		sep := " AND "
		if combinator == Or {
			sep = " OR "
		}
		query += " WHERE " + strings.Join(clauses, sep)
	}

	var rows *sql.Rows
	var err error
	err = busyRetry(ctx, s.logger, func() error {
		rows, err = s.db.SQL().QueryContext(ctx, query, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colNames, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []Row
	for rows.Next() {
		vals := make([]any, len(colNames))
		ptrs := make([]any, len(colNames))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(colNames))
		for i, c := range colNames {
			row[c] = vals[i]
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func whereClause(keyCols Row, combinator Combinator) (string, []any) {
	cols := sortedKeys(keyCols)
	clauses := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		clauses[i] = fmt.Sprintf("%s = ?", c)
		args[i] = keyCols[c]
	}
	sep := " AND "
	if combinator == Or {
		sep = " OR "
	}
	return strings.Join(clauses, sep), args
}

func predicatesFrom(keyCols Row) []Predicate {
	cols := sortedKeys(keyCols)
	preds := make([]Predicate, len(cols))
	for i, c := range cols {
		preds[i] = Predicate{Column: c, Value: keyCols[c]}
	}
	return preds
}

func sortedKeys(m Row) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
