package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/tracker/internal/model"
)

const issueColumns = `id, project_id, title, description, status_name, resolution_name,
	category_name, priority_name, milestone_name, issue_type_name,
	creator_username, owner_username, assigned_user_id, assigned_username,
	is_closed, disabled, date_created, last_update`

// clauseColumns maps clause fields to issue_view expressions. Boolean
// columns are compared as integers so clause values stay 0/1.
var clauseColumns = map[model.Field]string{
	model.FieldDisabled:         "disabled::int",
	model.FieldIsClosed:         "is_closed::int",
	model.FieldAssignedUserID:   "assigned_user_id",
	model.FieldOwnerUsername:    "owner_username",
	model.FieldCreatorUsername:  "creator_username",
	model.FieldAssignedUsername: "assigned_username",
}

// buildIssueWhere renders clauses as a WHERE fragment scoped to one
// project. The project id is always $1.
func buildIssueWhere(projectID int64, clauses []model.QueryClause) (string, []any, error) {
	conds := []string{"project_id = $1"}
	args := []any{projectID}

	for _, c := range clauses {
		if c.Connector != model.ConnectorAnd {
			return "", nil, fmt.Errorf("unsupported connector %q", c.Connector)
		}
		col, ok := clauseColumns[c.Field]
		if !ok {
			return "", nil, fmt.Errorf("unsupported field %q", c.Field)
		}

		switch c.Operator {
		case model.OpIsNull:
			conds = append(conds, col+" IS NULL")
		case model.OpEquals:
			if c.Value == nil {
				return "", nil, fmt.Errorf("clause on %s has no value", c.Field)
			}
			var v any = *c.Value
			if c.ValueType == model.ValueInt {
				n, err := strconv.ParseInt(*c.Value, 10, 64)
				if err != nil {
					return "", nil, fmt.Errorf("clause on %s: %w", c.Field, err)
				}
				v = n
			}
			args = append(args, v)
			conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
		default:
			return "", nil, fmt.Errorf("unsupported operator %q", c.Operator)
		}
	}

	return strings.Join(conds, " AND "), args, nil
}

func queryGetIssue(ctx context.Context, db executor, id int64) (*model.Issue, error) {
	row := db.QueryRowContext(ctx, `SELECT `+issueColumns+` FROM issue_view WHERE id = $1`, id)
	return scanIssue(row)
}

func queryListIssues(ctx context.Context, db executor, projectID int64) ([]*model.Issue, error) {
	return queryIssues(ctx, db, projectID, nil)
}

func queryIssues(ctx context.Context, db executor, projectID int64, clauses []model.QueryClause) ([]*model.Issue, error) {
	where, args, err := buildIssueWhere(projectID, clauses)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT `+issueColumns+` FROM issue_view WHERE `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}
