package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alfredjeanlab/tracker/internal/api"
	"github.com/alfredjeanlab/tracker/internal/model"
	"github.com/alfredjeanlab/tracker/internal/ui"
)

// printStructured writes v as JSON or YAML when one of those output modes
// is selected and reports whether it did.
func printStructured(w io.Writer, v any) (bool, error) {
	switch {
	case jsonOutput:
		return true, writeJSON(w, v)
	case yamlOutput:
		return true, writeYAML(w, v)
	}
	return false, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeYAML encodes v through its JSON form so field names match the API.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("decoding JSON: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// printCategoryTree draws nodes as an ASCII tree.
func printCategoryTree(w io.Writer, nodes []*model.TreeNode) {
	if len(nodes) == 0 {
		fmt.Fprintln(w, "No categories.")
		return
	}
	printTreeLevel(w, nodes, "")
}

func printTreeLevel(w io.Writer, nodes []*model.TreeNode, prefix string) {
	for i, n := range nodes {
		connector := "├── "
		childPrefix := prefix + "│   "
		if i == len(nodes)-1 {
			connector = "└── "
			childPrefix = prefix + "    "
		}
		fmt.Fprintf(w, "%s%s%s %s\n", prefix, connector, n.Title, ui.RenderMuted(fmt.Sprintf("(%d)", n.ID)))
		printTreeLevel(w, n.Children, childPrefix)
	}
}

func printCategory(w io.Writer, c *model.Category) {
	parent := "(root)"
	if !c.IsRoot() {
		parent = fmt.Sprintf("%d", c.ParentCategoryID)
	}
	fmt.Fprintf(w, "ID:        %d\n", c.ID)
	fmt.Fprintf(w, "Name:      %s\n", c.Name)
	fmt.Fprintf(w, "Project:   %d\n", c.ProjectID)
	fmt.Fprintf(w, "Parent:    %s\n", parent)
	fmt.Fprintf(w, "Children:  %d\n", c.ChildCount)
}

// issueColumns are the listing columns shown in table mode, by index into
// model.IssueRowColumns.
var issueColumns = []struct {
	header string
	index  int
	width  int
}{
	{"ID", 0, 0},
	{"STATUS", 3, 0},
	{"PRIORITY", 9, 0},
	{"TYPE", 12, 0},
	{"OWNER", 11, 0},
	{"CATEGORY", 7, 0},
	{"UPDATED", 2, 0},
	{"TITLE", 8, 50},
}

func printIssueRows(w io.Writer, resp *api.GetProjectIssuesResponse) error {
	if len(resp.Rows) == 0 {
		fmt.Fprintln(w, "No issues found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	headers := make([]string, len(issueColumns))
	for i, c := range issueColumns {
		headers[i] = c.header
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range resp.Rows {
		cells := make([]string, len(issueColumns))
		for i, c := range issueColumns {
			cells[i] = formatCell(row[c.index], c.width)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d issue(s)\n", len(resp.Rows))
	return nil
}

// formatCell renders one listing value. Ids arrive as JSON numbers and
// timestamps as RFC 3339 strings.
func formatCell(v any, width int) string {
	var s string
	switch x := v.(type) {
	case nil:
		s = "-"
	case float64:
		s = fmt.Sprintf("%.0f", x)
	case int64:
		s = fmt.Sprintf("%d", x)
	case time.Time:
		s = x.Format("2006-01-02 15:04")
	case string:
		if t, err := time.Parse(time.RFC3339Nano, x); err == nil {
			s = t.UTC().Format("2006-01-02 15:04")
		} else {
			s = x
		}
	default:
		s = fmt.Sprint(x)
	}
	if s == "" {
		s = "-"
	}
	if width > 3 && len(s) > width {
		s = s[:width-3] + "..."
	}
	return s
}

func printLookups(w io.Writer, resp *api.GetLookupsResponse) {
	for _, section := range []struct {
		title string
		names []string
	}{
		{"Statuses", resp.Statuses},
		{"Priorities", resp.Priorities},
		{"Issue types", resp.IssueTypes},
		{"Resolutions", resp.Resolutions},
		{"Milestones", resp.Milestones},
	} {
		fmt.Fprintln(w, ui.RenderAccent(section.title+":"))
		if len(section.names) == 0 {
			fmt.Fprintln(w, "  (none)")
			continue
		}
		for _, n := range section.names {
			fmt.Fprintf(w, "  %s\n", n)
		}
	}
}

func printAttachment(w io.Writer, a *model.Attachment) {
	fmt.Fprintf(w, "ID:        %d\n", a.ID)
	fmt.Fprintf(w, "Issue:     %d\n", a.IssueID)
	fmt.Fprintf(w, "File:      %s\n", a.FileName)
	fmt.Fprintf(w, "Type:      %s\n", a.ContentType)
	fmt.Fprintf(w, "Size:      %d\n", a.Size)
	fmt.Fprintf(w, "Checksum:  %s\n", a.Checksum)
	if a.ObjectKey != "" {
		fmt.Fprintf(w, "Object:    %s\n", a.ObjectKey)
	}
}

func printRevision(w io.Writer, r *model.Revision) {
	fmt.Fprintf(w, "ID:          %d\n", r.ID)
	fmt.Fprintf(w, "Issue:       %d\n", r.IssueID)
	fmt.Fprintf(w, "Revision:    %d\n", r.Revision)
	fmt.Fprintf(w, "Repository:  %s\n", r.Repository)
	fmt.Fprintf(w, "Author:      %s\n", r.Author)
	if r.Message != "" {
		fmt.Fprintf(w, "Message:     %s\n", r.Message)
	}
}
