package sync

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// GitDestination commits each tracker export to a file in a local clone and
// pushes it. The commit message summarises the export header, so the history
// of the file doubles as a log of project, category and issue counts.
type GitDestination struct {
	repo   string // path to the local clone
	file   string // export path relative to the clone root
	branch string
}

// NewGitDestination returns a destination writing file inside the existing
// clone at repo and pushing to branch.
func NewGitDestination(repo, file, branch string) *GitDestination {
	return &GitDestination{
		repo:   repo,
		file:   filepath.Clean(file),
		branch: branch,
	}
}

// Write replaces the export file with data, commits when it changed, and
// pushes.
func (d *GitDestination) Write(ctx context.Context, data []byte) error {
	if !filepath.IsLocal(d.file) {
		return fmt.Errorf("export path %q is outside the repository", d.file)
	}
	if err := d.git(ctx, "checkout", d.branch); err != nil {
		return err
	}
	// The remote may not have the branch yet.
	_ = d.git(ctx, "pull", "--ff-only", "origin", d.branch)

	path := filepath.Join(d.repo, d.file)
	if prev, err := os.ReadFile(path); err == nil && bytes.Equal(prev, data) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	if err := d.git(ctx, "add", d.file); err != nil {
		return err
	}
	if d.git(ctx, "diff", "--cached", "--quiet") == nil {
		return nil
	}

	subject, body := commitMessage(data)
	args := []string{"commit", "-m", subject}
	if body != "" {
		args = append(args, "-m", body)
	}
	if err := d.git(ctx, args...); err != nil {
		return err
	}
	return d.git(ctx, "push", "origin", d.branch)
}

// git runs one git subcommand in the clone. Failures carry git's output.
func (d *GitDestination) git(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = d.repo
	out, err := cmd.CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return fmt.Errorf("git %s: %w", args[0], err)
	}
	return nil
}

// commitMessage builds a commit subject and body from the header line of a
// JSONL export. Data without a header gets a generic subject.
func commitMessage(data []byte) (subject, body string) {
	h, ok := readHeader(data)
	if !ok {
		return "sync: update tracker export", ""
	}
	subject = fmt.Sprintf("sync: tracker export (%d projects, %d categories, %d issues)",
		h.ProjectCount, h.CategoryCount, h.IssueCount)
	if !h.Timestamp.IsZero() {
		body = "Exported-At: " + h.Timestamp.UTC().Format(time.RFC3339)
	}
	return subject, body
}

func readHeader(data []byte) (header, bool) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	if !sc.Scan() {
		return header{}, false
	}
	var h header
	if err := json.Unmarshal(sc.Bytes(), &h); err != nil || h.Type != "header" {
		return header{}, false
	}
	return h, true
}
