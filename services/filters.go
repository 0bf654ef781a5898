package services

import (
	"strings"

	"github.com/devsstudio/skillsview/request"
	"github.com/devsstudio/skillsview/types"
)

// TestMarker is the substring that marks seeded test accounts by name.
const TestMarker = "테스트"

// UserFilters turns the search inputs into conditions, always in the order
// school, excludeTest, q.
func UserFilters(req request.UsersRequest) []types.Condition {
	var filters []types.Condition

	if req.School != "" {
		filters = append(filters, types.Where(types.Predicate{
			Column: "school", Operator: types.Like, Value: contains(req.School),
		}))
	}
	if req.ExcludesTest() {
		filters = append(filters, types.Where(types.Predicate{
			Column: "name", Operator: types.NotLike, Value: contains(TestMarker),
		}))
	}
	if req.Q != "" {
		filters = append(filters, types.AnyOf(
			types.Predicate{Column: "name", Operator: types.Like, Value: contains(req.Q)},
			types.Predicate{Column: "email", Operator: types.Like, Value: contains(req.Q)},
		))
	}

	return filters
}

// RenderWhere renders conditions as a WHERE clause and the arguments bound to
// it. Each predicate emits exactly one placeholder and one argument, so the
// two stay aligned. No conditions renders an empty clause.
func RenderWhere(filters []types.Condition, quote func(string) string) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))
	for _, f := range filters {
		if len(f.AnyOf) == 0 {
			continue
		}
		ors := make([]string, 0, len(f.AnyOf))
		for _, p := range f.AnyOf {
			ors = append(ors, quote(p.Column)+" "+string(p.Operator)+" ?")
			args = append(args, p.Value)
		}
		if len(ors) == 1 {
			parts = append(parts, ors[0])
		} else {
			parts = append(parts, "("+strings.Join(ors, " OR ")+")")
		}
	}

	if len(parts) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(parts, " AND "), args
}

func contains(s string) string {
	return "%" + s + "%"
}
