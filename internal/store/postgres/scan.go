package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/alfredjeanlab/tracker/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanProject scans a row in projectColumns order.
func scanProject(row scannable) (*model.Project, error) {
	var p model.Project
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.AccessType, &p.Disabled); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProjects(rows *sql.Rows) ([]*model.Project, error) {
	var projects []*model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

// scanCategory scans a row in categoryColumns order.
func scanCategory(row scannable) (*model.Category, error) {
	var c model.Category
	if err := row.Scan(&c.ID, &c.ProjectID, &c.ParentCategoryID, &c.Name, &c.ChildCount); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCategories(rows *sql.Rows) ([]*model.Category, error) {
	var categories []*model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// scanIssue scans a row in issueColumns order.
func scanIssue(row scannable) (*model.Issue, error) {
	var i model.Issue
	var assignedID sql.NullInt64

	err := row.Scan(
		&i.ID,
		&i.ProjectID,
		&i.Title,
		&i.Description,
		&i.StatusName,
		&i.ResolutionName,
		&i.CategoryName,
		&i.PriorityName,
		&i.MilestoneName,
		&i.IssueTypeName,
		&i.CreatorUserName,
		&i.OwnerUserName,
		&assignedID,
		&i.AssignedUserName,
		&i.Closed,
		&i.Disabled,
		&i.DateCreated,
		&i.LastUpdate,
	)
	if err != nil {
		return nil, err
	}
	if assignedID.Valid {
		id := assignedID.Int64
		i.AssignedUserID = &id
	}
	return &i, nil
}

func scanIssues(rows *sql.Rows) ([]*model.Issue, error) {
	var issues []*model.Issue
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return issues, nil
}

func scanLookups(rows *sql.Rows) ([]*model.Lookup, error) {
	var lookups []*model.Lookup
	for rows.Next() {
		var l model.Lookup
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.Kind, &l.Name, &l.SortOrder); err != nil {
			return nil, err
		}
		lookups = append(lookups, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lookups, nil
}

// scanEvent scans a single row into a model.Event.
func scanEvent(row scannable) (*model.Event, error) {
	var e model.Event
	var (
		actor   sql.NullString
		payload []byte
	)
	if err := row.Scan(&e.ID, &e.Topic, &e.EntityID, &actor, &payload, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Actor = actor.String
	if len(payload) > 0 {
		e.Payload = json.RawMessage(payload)
	}
	return &e, nil
}

func scanEvents(rows *sql.Rows) ([]*model.Event, error) {
	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// nullString converts an empty string to a SQL NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
