// Package sqlxrepos implements the school repository on PostgreSQL via sqlx.
// Predicates arrive fully resolved from the service layer; this package only
// compiles them into WHERE clauses. It never adds or removes scoping of its
// own.
package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
)

type repository struct {
	db *sqlx.DB
}

var _ school.Repository = (*repository)(nil) // interface compliance check

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

// compileWhere renders a predicate tree as a SQL condition with `?`
// placeholders. A nil predicate compiles to the empty string (no WHERE);
// Nothing compiles to FALSE so a fail-closed query returns no rows even if
// one slips through to the store.
func compileWhere(e access.Expr) (string, []interface{}) {
	switch n := e.(type) {
	case nil:
		return "", nil
	case access.And:
		return compileJunction(n, " AND ")
	case access.Or:
		return compileJunction(n, " OR ")
	case access.Eq:
		return n.Col + " = ?", []interface{}{n.Val}
	case access.ILike:
		return n.Col + " ILIKE ?", []interface{}{"%" + n.Val + "%"}
	case access.IsNull:
		return n.Col + " IS NULL", nil
	case access.Sub:
		return n.SQL, n.Args
	case access.Nothing:
		return "FALSE", nil
	}
	panic(fmt.Sprintf("unknown predicate node %T", e))
}

func compileJunction(children []access.Expr, sep string) (string, []interface{}) {
	conds := make([]string, 0, len(children))
	var args []interface{}
	for _, c := range children {
		cond, cargs := compileWhere(c)
		if cond == "" {
			continue
		}
		conds = append(conds, "("+cond+")")
		args = append(args, cargs...)
	}
	return strings.Join(conds, sep), args
}

// list runs the two-query page fetch: unpaged COUNT on the base table, then
// the page itself. All resolver and filter predicates are correlated against
// the base table only, so the count never needs the display joins.
func (repo repository) list(
	ctx context.Context,
	dest interface{},
	baseSelect, table, orderBy string,
	where access.Expr,
	page school.Page,
) (int, error) {
	cond, args := compileWhere(where)

	countQ := "SELECT COUNT(*) FROM " + table
	if cond != "" {
		countQ += " WHERE " + cond
	}
	var total int
	if err := repo.db.GetContext(ctx, &total, repo.db.Rebind(countQ), args...); err != nil {
		return 0, errors.Wrapf(err, "counting %s rows", table)
	}

	q := baseSelect
	if cond != "" {
		q += " WHERE " + cond
	}
	q += " ORDER BY " + orderBy
	q += " LIMIT ? OFFSET ?"
	args = append(args, page.Size, page.Offset())
	if err := repo.db.SelectContext(ctx, dest, repo.db.Rebind(q), args...); err != nil {
		return 0, errors.Wrapf(err, "listing %s rows", table)
	}
	return total, nil
}

func (repo repository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

// trapDBErr maps psql "no rows" to school.ErrNotFound. A lost connection
// surfaces as a shutdown error; the API error handler signals the server to
// drain and exit on those.
func trapDBErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return school.ErrNotFound
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return core.NewShutdownError(msg + ": database connection lost")
	}
	return errors.Wrap(err, msg)
}
