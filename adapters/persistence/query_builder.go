package persistence

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/itww/admin-api/internal/domain/listing"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// listSpec describes how one resource is listed. Every column name here is a
// constant chosen by the repository; request input only ever reaches the
// statement as a bound parameter or through the sort whitelist.
type listSpec struct {
	from          string
	idColumn      string
	createdColumn string
	titleColumn   string
	searchColumns []string
	columns       []string
	joins         []string
}

type listStatement struct {
	SQL       string
	Args      []any
	CountSQL  string
	CountArgs []any
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a search term into an ILIKE pattern matching it as a literal substring.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func (s listSpec) searchPredicate(term string) sq.Sqlizer {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	pattern := containsPattern(term)
	or := make(sq.Or, 0, len(s.searchColumns))
	for _, col := range s.searchColumns {
		or = append(or, sq.ILike{col: pattern})
	}
	return or
}

// orderBy maps a sort mode onto a fixed ORDER BY. The id column breaks ties so
// pages never overlap when timestamps or titles collide.
func (s listSpec) orderBy(mode listing.SortMode) []string {
	switch mode {
	case listing.SortNameDesc:
		return []string{s.titleColumn + " DESC", s.idColumn + " DESC"}
	case listing.SortDateAsc:
		return []string{s.createdColumn + " ASC", s.idColumn + " ASC"}
	default:
		return []string{s.createdColumn + " DESC", s.idColumn + " DESC"}
	}
}

// buildList produces the page query and its count query. Both carry the same
// predicate, so totalResults always describes the rows the page query walks.
// PageSize must already be clamped by the caller.
func buildList(s listSpec, q listing.Query) (listStatement, error) {
	pred := s.searchPredicate(q.Search)

	list := psql.Select(s.columns...).From(s.from)
	for _, j := range s.joins {
		list = list.LeftJoin(j)
	}
	count := psql.Select("COUNT(" + s.idColumn + ")").From(s.from)
	if pred != nil {
		list = list.Where(pred)
		count = count.Where(pred)
	}
	list = list.
		OrderBy(s.orderBy(q.Sort)...).
		Limit(uint64(q.PageSize)).
		Offset(uint64(q.Offset()))

	var (
		st  listStatement
		err error
	)
	if st.SQL, st.Args, err = list.ToSql(); err != nil {
		return listStatement{}, err
	}
	if st.CountSQL, st.CountArgs, err = count.ToSql(); err != nil {
		return listStatement{}, err
	}
	return st, nil
}
