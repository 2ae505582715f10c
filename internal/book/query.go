package book

import (
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/doug-martin/goqu/v9/exp"
)

const dialectPostgres = "postgres"

const (
	aggAuthors = `COALESCE(JSONB_AGG(DISTINCT jsonb_build_object('author_id', a.author_id, 'name', a.name)) FILTER (WHERE a.author_id IS NOT NULL), '[]')`
	aggGenres  = `COALESCE(JSONB_AGG(DISTINCT jsonb_build_object('genre_id', g.genre_id, 'name', g.name)) FILTER (WHERE g.genre_id IS NOT NULL), '[]')`

	// Conditional counts over non-deleted copies. DISTINCT keeps the
	// author/genre joins from inflating the numbers.
	aggCopyCount = `COUNT(DISTINCT c.copy_id) FILTER (WHERE c.deleted_at IS NULL)`
	aggAvailable = `COUNT(DISTINCT c.copy_id) FILTER (WHERE c.deleted_at IS NULL AND c.status_id = 1)`
)

// whereClause builds the conjunctive predicate list shared by the count
// and data queries. Soft-deleted books are always excluded; each present
// filter field contributes exactly one AND-ed predicate.
func whereClause(f Filter) []exp.Expression {
	where := []exp.Expression{
		goqu.I("b.deleted_at").IsNull(),
	}

	if f.Title != "" {
		where = append(where, goqu.I("b.book_title").ILike("%"+f.Title+"%"))
	}
	if f.ISBN != "" {
		where = append(where, goqu.I("b.isbn").ILike("%"+f.ISBN+"%"))
	}
	if f.Year != nil {
		where = append(where, goqu.I("b.publication_year").Eq(*f.Year))
	}
	if f.Author != "" {
		sub := goqu.Dialect(dialectPostgres).
			From(goqu.T("book_authors").As("ba")).
			Join(goqu.T("authors").As("a2"), goqu.On(goqu.I("a2.author_id").Eq(goqu.I("ba.author_id")))).
			Where(
				goqu.I("ba.book_id").Eq(goqu.I("b.book_id")),
				goqu.I("a2.name").ILike("%"+f.Author+"%"),
			).
			Select(goqu.L("1"))
		where = append(where, goqu.Func("EXISTS", sub))
	}
	if f.Genre != "" {
		sub := goqu.Dialect(dialectPostgres).
			From(goqu.T("book_genres").As("bg")).
			Join(goqu.T("genres").As("g2"), goqu.On(goqu.I("g2.genre_id").Eq(goqu.I("bg.genre_id")))).
			Where(
				goqu.I("bg.book_id").Eq(goqu.I("b.book_id")),
				goqu.I("g2.name").ILike("%"+f.Genre+"%"),
			).
			Select(goqu.L("1"))
		where = append(where, goqu.Func("EXISTS", sub))
	}

	return where
}

// buildCountQuery counts the matching books. It is a separate query on
// the base table only, so the one-to-many joins of the data query cannot
// inflate the total.
func buildCountQuery(f Filter) (string, []interface{}, error) {
	return goqu.Dialect(dialectPostgres).
		From(goqu.T("books").As("b")).
		Select(goqu.COUNT(goqu.Star())).
		Where(whereClause(f)...).
		Prepared(true).
		ToSQL()
}

// buildListQuery fetches one page of books with de-duplicated author and
// genre arrays plus copy availability counts aggregated per book.
func buildListQuery(f Filter, p Page) (string, []interface{}, error) {
	return goqu.Dialect(dialectPostgres).
		From(goqu.T("books").As("b")).
		LeftJoin(goqu.T("book_authors").As("ba"), goqu.On(goqu.I("ba.book_id").Eq(goqu.I("b.book_id")))).
		LeftJoin(goqu.T("authors").As("a"), goqu.On(goqu.I("a.author_id").Eq(goqu.I("ba.author_id")))).
		LeftJoin(goqu.T("book_genres").As("bg"), goqu.On(goqu.I("bg.book_id").Eq(goqu.I("b.book_id")))).
		LeftJoin(goqu.T("genres").As("g"), goqu.On(goqu.I("g.genre_id").Eq(goqu.I("bg.genre_id")))).
		LeftJoin(goqu.T("copies").As("c"), goqu.On(goqu.I("c.book_id").Eq(goqu.I("b.book_id")))).
		Select(
			goqu.I("b.book_id"),
			goqu.I("b.book_title"),
			goqu.I("b.isbn"),
			goqu.I("b.publication_year"),
			goqu.I("b.description"),
			goqu.I("b.created_at"),
			goqu.I("b.updated_at"),
			goqu.L(aggAuthors).As("authors"),
			goqu.L(aggGenres).As("genres"),
			goqu.L(aggCopyCount).As("copy_count"),
			goqu.L(aggAvailable).As("available_copies"),
		).
		Where(whereClause(f)...).
		GroupBy(goqu.I("b.book_id")).
		Order(goqu.I("b.book_title").Asc(), goqu.I("b.book_id").Asc()).
		Limit(uint(p.PageSize)).
		Offset(uint(p.Offset())).
		Prepared(true).
		ToSQL()
}
