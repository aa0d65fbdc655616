// Package filter compiles the informal issue filter text accepted by the
// issue listing operations into an ordered list of query clauses.
//
// Filter text is a sequence of key=value tokens separated by '&', for example
// "status=new&owner=alice". Keys and the status value match case-insensitively;
// user values are taken verbatim from everything after the first '='.
// Tokens that match no known key are dropped.
package filter

import (
	"strings"

	"github.com/alfredjeanlab/tracker/internal/model"
)

const (
	tokenSeparator = "&"

	keyStatus   = "status="
	keyOwner    = "owner="
	keyReporter = "reporter="
	keyAssigned = "assigned="

	statusNotClosed = "notclosed"
	statusNew       = "new"
)

// Result is the outcome of compiling a filter.
type Result struct {
	// Clauses is the ordered clause list. The baseline clause comes first.
	Clauses []model.QueryClause
	// Dropped holds the tokens that matched no known key, in encounter order.
	Dropped []string
}

// IsBlank reports whether text is empty or whitespace only. Blank filters
// select every issue of a project and carry no baseline clause.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// Compile converts filter text into query clauses. It is a pure function.
// Blank text yields nil.
func Compile(text string) []model.QueryClause {
	return CompileWithDiagnostics(text).Clauses
}

// CompileWithDiagnostics is Compile that also reports dropped tokens.
func CompileWithDiagnostics(text string) Result {
	if IsBlank(text) {
		return Result{}
	}

	res := Result{
		Clauses: []model.QueryClause{baseline()},
	}
	for _, token := range strings.Split(text, tokenSeparator) {
		clauses, ok := compileToken(token)
		if !ok {
			res.Dropped = append(res.Dropped, token)
			continue
		}
		res.Clauses = append(res.Clauses, clauses...)
	}
	return res
}

// baseline excludes disabled issues from every non-blank filter.
func baseline() model.QueryClause {
	return model.Equals(model.FieldDisabled, "0", model.ValueInt)
}

func compileToken(token string) ([]model.QueryClause, bool) {
	switch {
	case hasPrefixFold(token, keyStatus):
		return compileStatus(valueOf(token))
	case hasPrefixFold(token, keyOwner):
		return []model.QueryClause{model.Equals(model.FieldOwnerUsername, valueOf(token), model.ValueText)}, true
	case hasPrefixFold(token, keyReporter):
		return []model.QueryClause{model.Equals(model.FieldCreatorUsername, valueOf(token), model.ValueText)}, true
	case hasPrefixFold(token, keyAssigned):
		return []model.QueryClause{model.Equals(model.FieldAssignedUsername, valueOf(token), model.ValueText)}, true
	}
	return nil, false
}

func compileStatus(value string) ([]model.QueryClause, bool) {
	switch {
	case strings.EqualFold(value, statusNotClosed):
		return []model.QueryClause{
			model.Equals(model.FieldIsClosed, "0", model.ValueInt),
		}, true
	case strings.EqualFold(value, statusNew):
		return []model.QueryClause{
			model.Equals(model.FieldIsClosed, "0", model.ValueInt),
			model.IsNull(model.FieldAssignedUserID, model.ValueInt),
		}, true
	}
	return nil, false
}

// valueOf returns everything after the first '=' of token.
func valueOf(token string) string {
	_, v, _ := strings.Cut(token, "=")
	return v
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
