// Package inmemdb is a mutex-guarded, map-backed repository used by tests.
// It applies predicate trees the same way the SQL layer does, except for
// correlated subqueries: those carry raw SQL the fake cannot interpret, so
// they fail closed unless the test installs a SubMatcher. Scoping semantics
// are covered by the resolver and compiler tests; tests against this fake
// exercise the service and API layers.
package inmemdb

import (
	"strings"
	"sync"

	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
)

// SubMatcher decides whether a row matches a correlated subquery predicate.
// cols is the row rendered as qualified column -> value.
type SubMatcher func(sub access.Sub, cols map[string]interface{}) bool

type Repository struct {
	mutex sync.RWMutex
	pk    int

	teachers       map[string]school.Teacher
	students       map[string]school.Student
	parents        map[string]school.Parent
	subjects       map[int]school.Subject
	classes        map[int]school.Class
	lessons        map[int]school.Lesson
	exams          map[int]school.Exam
	assignments    map[int]school.Assignment
	results        map[int]school.Result
	attendances    map[int]school.Attendance
	events         map[int]school.Event
	announcements  map[int]school.Announcement
	subjectTeacher map[int][]string

	// MatchSub, when set, evaluates Sub predicates; nil fails closed.
	MatchSub SubMatcher
}

var _ school.Repository = (*Repository)(nil) // interface compliance check

func NewRepository() *Repository {
	return &Repository{
		teachers:       make(map[string]school.Teacher),
		students:       make(map[string]school.Student),
		parents:        make(map[string]school.Parent),
		subjects:       make(map[int]school.Subject),
		classes:        make(map[int]school.Class),
		lessons:        make(map[int]school.Lesson),
		exams:          make(map[int]school.Exam),
		assignments:    make(map[int]school.Assignment),
		results:        make(map[int]school.Result),
		attendances:    make(map[int]school.Attendance),
		events:         make(map[int]school.Event),
		announcements:  make(map[int]school.Announcement),
		subjectTeacher: make(map[int][]string),
	}
}

func (repo *Repository) nextPK() int {
	repo.pk++
	return repo.pk
}

// matches evaluates a predicate tree against a row's column map.
func (repo *Repository) matches(e access.Expr, cols map[string]interface{}) bool {
	switch n := e.(type) {
	case nil:
		return true
	case access.And:
		for _, c := range n {
			if !repo.matches(c, cols) {
				return false
			}
		}
		return true
	case access.Or:
		for _, c := range n {
			if repo.matches(c, cols) {
				return true
			}
		}
		return false
	case access.Eq:
		return cols[n.Col] == n.Val
	case access.ILike:
		s, ok := cols[n.Col].(string)
		return ok && strings.Contains(strings.ToLower(s), strings.ToLower(n.Val))
	case access.IsNull:
		return cols[n.Col] == nil
	case access.Sub:
		if repo.MatchSub != nil {
			return repo.MatchSub(n, cols)
		}
		return false
	case access.Nothing:
		return false
	}
	return false
}

func paginate[T any](rows []T, page school.Page) ([]T, int) {
	total := len(rows)
	start := page.Offset()
	if start >= total {
		return []T{}, total
	}
	end := start + page.Size
	if page.Size <= 0 || end > total {
		end = total
	}
	return rows[start:end], total
}
