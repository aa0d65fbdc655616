package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/alfredjeanlab/tracker/internal/api"
	"github.com/alfredjeanlab/tracker/internal/auth"
	"github.com/alfredjeanlab/tracker/internal/events"
	"github.com/alfredjeanlab/tracker/internal/model"
	"github.com/alfredjeanlab/tracker/internal/store"
)

type memberKey struct {
	projectID int64
	username  string
}

type wikiKey struct {
	id      int64
	version int
}

type mockStore struct {
	mu sync.Mutex

	projects    map[int64]*model.Project
	members     map[memberKey]*model.Membership
	users       map[string]*model.User
	categories  map[int64]*model.Category
	issues      map[int64]*model.Issue
	lookups     []*model.Lookup
	wiki        map[wikiKey]*model.WikiContent
	attachments []*model.Attachment
	revisions   []*model.Revision
	events      []*model.Event

	nextCategoryID int64
	locked         []int64
	queried        [][]model.QueryClause
	listedAll      int

	// deleteErr, when set, is returned by DeleteCategory for the keyed id
	// (for testing rollback).
	deleteErr map[int64]error
}

func newMockStore() *mockStore {
	return &mockStore{
		projects:       make(map[int64]*model.Project),
		members:        make(map[memberKey]*model.Membership),
		users:          make(map[string]*model.User),
		categories:     make(map[int64]*model.Category),
		issues:         make(map[int64]*model.Issue),
		wiki:           make(map[wikiKey]*model.WikiContent),
		deleteErr:      make(map[int64]error),
		nextCategoryID: 100,
	}
}

func (m *mockStore) GetProject(_ context.Context, id int64) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *p
	return &clone, nil
}

func (m *mockStore) GetProjectByCode(_ context.Context, code string) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.projects {
		if strings.EqualFold(p.Code, code) {
			clone := *p
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) ListProjects(_ context.Context) ([]*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Project
	for _, p := range m.projects {
		clone := *p
		out = append(out, &clone)
	}
	slices.SortFunc(out, func(a, b *model.Project) int { return int(a.ID - b.ID) })
	return out, nil
}

func (m *mockStore) GetMembership(_ context.Context, projectID int64, username string) (*model.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mem, ok := m.members[memberKey{projectID, username}]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return mem, nil
}

func (m *mockStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (m *mockStore) LockProject(_ context.Context, projectID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[projectID]; !ok {
		return sql.ErrNoRows
	}
	m.locked = append(m.locked, projectID)
	return nil
}

func (m *mockStore) GetCategory(_ context.Context, id int64) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (m *mockStore) ListCategories(_ context.Context, projectID int64) ([]*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Category
	for _, c := range m.categories {
		if c.ProjectID == projectID {
			clone := *c
			out = append(out, &clone)
		}
	}
	slices.SortFunc(out, func(a, b *model.Category) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})
	return out, nil
}

func (m *mockStore) CreateCategory(_ context.Context, c *model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextCategoryID++
	c.ID = m.nextCategoryID
	clone := *c
	m.categories[c.ID] = &clone
	return nil
}

func (m *mockStore) RenameCategory(_ context.Context, id int64, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.Name = name
	return nil
}

func (m *mockStore) SetCategoryParent(_ context.Context, id, parentID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.ParentCategoryID = parentID
	return nil
}

func (m *mockStore) SetCategoryChildCount(_ context.Context, id int64, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.ChildCount = count
	return nil
}

func (m *mockStore) DeleteCategory(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.deleteErr[id]; err != nil {
		return err
	}
	if _, ok := m.categories[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.categories, id)
	return nil
}

func (m *mockStore) GetIssue(_ context.Context, id int64) (*model.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.issues[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *i
	return &clone, nil
}

func (m *mockStore) ListIssues(ctx context.Context, projectID int64) ([]*model.Issue, error) {
	m.mu.Lock()
	m.listedAll++
	m.mu.Unlock()
	return m.matchIssues(projectID, nil)
}

func (m *mockStore) QueryIssues(_ context.Context, projectID int64, clauses []model.QueryClause) ([]*model.Issue, error) {
	m.mu.Lock()
	m.queried = append(m.queried, clauses)
	m.mu.Unlock()
	return m.matchIssues(projectID, clauses)
}

func (m *mockStore) matchIssues(projectID int64, clauses []model.QueryClause) ([]*model.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Issue
outer:
	for _, i := range m.issues {
		if i.ProjectID != projectID {
			continue
		}
		for _, c := range clauses {
			ok, err := matchClause(i, c)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue outer
			}
		}
		clone := *i
		out = append(out, &clone)
	}
	slices.SortFunc(out, func(a, b *model.Issue) int { return int(a.ID - b.ID) })
	return out, nil
}

// matchClause evaluates one clause against an issue the way the SQL store
// would.
func matchClause(i *model.Issue, c model.QueryClause) (bool, error) {
	var (
		val    string
		isNull bool
	)
	switch c.Field {
	case model.FieldDisabled:
		val = boolDigit(i.Disabled)
	case model.FieldIsClosed:
		val = boolDigit(i.Closed)
	case model.FieldAssignedUserID:
		if i.AssignedUserID == nil {
			isNull = true
		} else {
			val = strconv.FormatInt(*i.AssignedUserID, 10)
		}
	case model.FieldOwnerUsername:
		val = i.OwnerUserName
	case model.FieldCreatorUsername:
		val = i.CreatorUserName
	case model.FieldAssignedUsername:
		val, isNull = i.AssignedUserName, i.AssignedUserName == ""
	default:
		return false, fmt.Errorf("unsupported field %q", c.Field)
	}

	switch c.Operator {
	case model.OpIsNull:
		return isNull, nil
	case model.OpEquals:
		return !isNull && c.Value != nil && val == *c.Value, nil
	}
	return false, fmt.Errorf("unsupported operator %q", c.Operator)
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (m *mockStore) CreateAttachment(_ context.Context, a *model.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = int64(len(m.attachments) + 1)
	a.CreatedAt = time.Now()
	m.attachments = append(m.attachments, a)
	return nil
}

func (m *mockStore) CreateRevision(_ context.Context, r *model.Revision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = int64(len(m.revisions) + 1)
	r.CreatedAt = time.Now()
	m.revisions = append(m.revisions, r)
	return nil
}

func (m *mockStore) ListLookups(_ context.Context, projectID int64, kind model.LookupKind) ([]*model.Lookup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Lookup
	for _, l := range m.lookups {
		if l.ProjectID == projectID && l.Kind == kind {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b *model.Lookup) int { return a.SortOrder - b.SortOrder })
	return out, nil
}

func (m *mockStore) GetWikiContent(_ context.Context, id int64, version int) (*model.WikiContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wiki[wikiKey{id, version}]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return w, nil
}

func (m *mockStore) RecordEvent(_ context.Context, event *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	event.ID = int64(len(m.events) + 1)
	m.events = append(m.events, event)
	return nil
}

func (m *mockStore) GetEvents(_ context.Context, entityID string) ([]*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Event
	for _, e := range m.events {
		if e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

// RunInTransaction restores the category table when fn fails, which is
// the only state the server mutates inside transactions.
func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	m.mu.Lock()
	snapshot := make(map[int64]*model.Category, len(m.categories))
	for id, c := range m.categories {
		clone := *c
		snapshot[id] = &clone
	}
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.categories = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *mockStore) Close() error { return nil }

var _ store.Store = (*mockStore)(nil)

const testPassword = "s3cret"

// seed fills the store with two projects: BUG (public, id 1) and SEC
// (private, id 2). admin administers both, alice is a member of both, bob
// belongs to neither and root is a super user.
//
// Categories of project 1:
//
//	1 Backend
//	├── 4 API
//	└── 3 Storage
//	    └── 5 Indexes
//	2 Frontend
func (m *mockStore) seed(t *testing.T) {
	t.Helper()
	m.projects[1] = &model.Project{ID: 1, Code: "BUG", Name: "Bugs", AccessType: model.AccessPublic}
	m.projects[2] = &model.Project{ID: 2, Code: "SEC", Name: "Security", AccessType: model.AccessPrivate}

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	for i, name := range []string{"admin", "alice", "bob", "root"} {
		m.users[name] = &model.User{ID: int64(i + 1), Username: name, PasswordHash: hash, SuperUser: name == "root"}
	}
	for _, pid := range []int64{1, 2} {
		m.members[memberKey{pid, "admin"}] = &model.Membership{ProjectID: pid, Username: "admin", Role: model.RoleAdmin}
		m.members[memberKey{pid, "alice"}] = &model.Membership{ProjectID: pid, Username: "alice", Role: model.RoleMember}
	}

	for _, c := range []*model.Category{
		{ID: 1, ProjectID: 1, Name: "Backend", ChildCount: 2},
		{ID: 2, ProjectID: 1, Name: "Frontend"},
		{ID: 3, ProjectID: 1, ParentCategoryID: 1, Name: "Storage", ChildCount: 1},
		{ID: 4, ProjectID: 1, ParentCategoryID: 1, Name: "API"},
		{ID: 5, ProjectID: 1, ParentCategoryID: 3, Name: "Indexes"},
		{ID: 10, ProjectID: 2, Name: "Secret"},
	} {
		m.categories[c.ID] = c
	}

	carol := int64(7)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, i := range []*model.Issue{
		{ID: 101, ProjectID: 1, Title: "Crash on save", StatusName: "New", OwnerUserName: "alice", CreatorUserName: "bob"},
		{ID: 102, ProjectID: 1, Title: "Slow index", StatusName: "Closed", OwnerUserName: "alice", CreatorUserName: "alice",
			AssignedUserID: &carol, AssignedUserName: "carol", Closed: true},
		{ID: 103, ProjectID: 1, Title: "Old report", StatusName: "New", OwnerUserName: "bob", CreatorUserName: "bob", Disabled: true},
		{ID: 104, ProjectID: 1, Title: "Typo in footer", StatusName: "New", OwnerUserName: "bob", CreatorUserName: "alice"},
		{ID: 201, ProjectID: 2, Title: "Token leak", StatusName: "New", OwnerUserName: "admin", CreatorUserName: "admin"},
	} {
		i.DateCreated, i.LastUpdate = created, created
		m.issues[i.ID] = i
	}

	m.lookups = []*model.Lookup{
		{ID: 1, ProjectID: 1, Kind: model.LookupPriority, Name: "Low", SortOrder: 2},
		{ID: 2, ProjectID: 1, Kind: model.LookupPriority, Name: "High", SortOrder: 1},
		{ID: 3, ProjectID: 1, Kind: model.LookupStatus, Name: "Open", SortOrder: 1},
		{ID: 4, ProjectID: 1, Kind: model.LookupStatus, Name: "Closed", SortOrder: 2},
		{ID: 5, ProjectID: 1, Kind: model.LookupResolution, Name: "Fixed", SortOrder: 1},
		{ID: 6, ProjectID: 1, Kind: model.LookupMilestone, Name: "1.0", SortOrder: 1},
		{ID: 7, ProjectID: 1, Kind: model.LookupIssueType, Name: "Bug", SortOrder: 1},
		{ID: 8, ProjectID: 2, Kind: model.LookupPriority, Name: "Urgent", SortOrder: 1},
	}

	m.wiki[wikiKey{1, 1}] = &model.WikiContent{ID: 1, ProjectID: 1, Slug: "home", Title: "Home", Version: 1, Source: "# Home\n"}
	m.wiki[wikiKey{1, 2}] = &model.WikiContent{ID: 1, ProjectID: 1, Slug: "home", Title: "Home", Version: 2, Source: "# Home\n\nSee [[issue:101]].\n"}
}

// Identities used by operation-level tests.
var (
	asAdmin = auth.Identity{Username: "admin"}
	asAlice = auth.Identity{Username: "alice"}
	asBob   = auth.Identity{Username: "bob"}
	asRoot  = auth.Identity{Username: "root", SuperUser: true}
	asAnon  = auth.Anonymous()
)

const testToken = "service-token"

func newTestServer(t *testing.T) (*TrackerServer, *mockStore, http.Handler) {
	t.Helper()
	ms := newMockStore()
	ms.seed(t)
	s := NewTrackerServer(ms, Options{Publisher: &events.NoopPublisher{}, AuthToken: testToken})
	return s, ms, s.NewHTTPHandler()
}

// doJSON performs an HTTP request with an optional JSON body and an
// optional Authorization header and returns the recorder.
func doJSON(t *testing.T, handler http.Handler, method, path, authz string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body=%q)", err, rec.Body.String())
	}
	return v
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func basic(username string) string { return auth.BasicHeader(username, testPassword) }

func int64Ptr(v int64) *int64 { return &v }

func TestHTTPHealth(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := doJSON(t, h, "GET", "/v1/health", "Basic garbage", nil)
	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[api.HealthResponse](t, rec)
	if resp.Status != "ok" {
		t.Fatalf("expected status=ok, got %q", resp.Status)
	}
}

func TestHTTPAuthentication(t *testing.T) {
	_, _, h := newTestServer(t)

	for _, tc := range []struct {
		name  string
		authz string
		want  int
	}{
		{"anonymous on public project", "", http.StatusOK},
		{"member", basic("alice"), http.StatusOK},
		{"wrong password", auth.BasicHeader("alice", "nope"), http.StatusUnauthorized},
		{"unknown user", basic("mallory"), http.StatusUnauthorized},
		{"bearer token", "Bearer " + testToken, http.StatusOK},
		{"bad bearer token", "Bearer wrong", http.StatusUnauthorized},
		{"unknown scheme", "Digest abc", http.StatusUnauthorized},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, "GET", "/v1/projects/1/categories", tc.authz, nil)
			requireStatus(t, rec, tc.want)
			if tc.want == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Fatal("expected WWW-Authenticate header on 401")
			}
		})
	}
}

func TestHTTPPrivateProject(t *testing.T) {
	_, _, h := newTestServer(t)

	requireStatus(t, doJSON(t, h, "GET", "/v1/projects/2/categories", "", nil), http.StatusUnauthorized)
	requireStatus(t, doJSON(t, h, "GET", "/v1/projects/2/categories", basic("bob"), nil), http.StatusForbidden)
	requireStatus(t, doJSON(t, h, "GET", "/v1/projects/2/categories", basic("alice"), nil), http.StatusOK)
	requireStatus(t, doJSON(t, h, "GET", "/v1/projects/2/categories", basic("root"), nil), http.StatusOK)
	requireStatus(t, doJSON(t, h, "GET", "/v1/projects/99/categories", basic("root"), nil), http.StatusNotFound)
}

func TestHTTPGetCategories(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := doJSON(t, h, "GET", "/v1/projects/1/categories", "", nil)
	requireStatus(t, rec, http.StatusOK)

	var raw map[string][]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	roots := raw["categories"]
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0]["id"] != "1" || roots[0]["title"] != "Backend" {
		t.Fatalf("unexpected first root: %v", roots[0])
	}
	children, ok := roots[1]["children"].([]any)
	if !ok || len(children) != 0 {
		t.Fatalf("expected empty children array for leaf, got %#v", roots[1]["children"])
	}
}

func TestHTTPInvalidPathID(t *testing.T) {
	_, _, h := newTestServer(t)
	for _, path := range []string{"/v1/projects/abc/categories", "/v1/projects/0/issues", "/v1/issues/-3/valid"} {
		rec := doJSON(t, h, "GET", path, basic("alice"), nil)
		requireStatus(t, rec, http.StatusBadRequest)
	}
}

func TestHTTPCategoryLifecycle(t *testing.T) {
	_, ms, h := newTestServer(t)
	admin := basic("admin")

	rec := doJSON(t, h, "POST", "/v1/projects/1/categories", admin, api.AddCategoryRequest{Name: "Docs", ParentCategoryID: 2})
	requireStatus(t, rec, http.StatusCreated)
	added := decodeJSON[api.AddCategoryResponse](t, rec).Category
	if added.ProjectID != 1 || added.ParentCategoryID != 2 {
		t.Fatalf("unexpected category: %+v", added)
	}

	rec = doJSON(t, h, "PATCH", fmt.Sprintf("/v1/categories/%d", added.ID), admin, api.RenameCategoryRequest{Name: "Manuals"})
	requireStatus(t, rec, http.StatusOK)
	if got := decodeJSON[api.RenameCategoryResponse](t, rec).Category.Name; got != "Manuals" {
		t.Fatalf("expected name=Manuals, got %q", got)
	}

	rec = doJSON(t, h, "POST", fmt.Sprintf("/v1/categories/%d/move", added.ID), admin,
		api.MoveCategoryRequest{OldParentID: int64Ptr(2), NewParentID: int64Ptr(0)})
	requireStatus(t, rec, http.StatusOK)
	if ms.categories[2].ChildCount != 0 {
		t.Fatalf("expected Frontend child_count=0, got %d", ms.categories[2].ChildCount)
	}

	rec = doJSON(t, h, "DELETE", fmt.Sprintf("/v1/categories/%d", added.ID), admin, nil)
	requireStatus(t, rec, http.StatusOK)
	if got := decodeJSON[api.DeleteCategoryResponse](t, rec).Removed; !slices.Equal(got, []int64{added.ID}) {
		t.Fatalf("unexpected removed ids: %v", got)
	}

	if len(ms.events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(ms.events))
	}
}

func TestHTTPCategoryErrors(t *testing.T) {
	_, _, h := newTestServer(t)
	admin := basic("admin")

	for _, tc := range []struct {
		name   string
		method string
		path   string
		authz  string
		body   any
		want   int
	}{
		{"add anonymous", "POST", "/v1/projects/1/categories", "", api.AddCategoryRequest{Name: "x"}, http.StatusUnauthorized},
		{"add as member", "POST", "/v1/projects/1/categories", basic("alice"), api.AddCategoryRequest{Name: "x"}, http.StatusForbidden},
		{"add blank name", "POST", "/v1/projects/1/categories", admin, api.AddCategoryRequest{Name: "  "}, http.StatusBadRequest},
		{"add bad json", "POST", "/v1/projects/1/categories", admin, "not an object", http.StatusBadRequest},
		{"add missing parent", "POST", "/v1/projects/1/categories", admin, api.AddCategoryRequest{Name: "x", ParentCategoryID: 999}, http.StatusNotFound},
		{"rename missing", "PATCH", "/v1/categories/999", admin, api.RenameCategoryRequest{Name: "x"}, http.StatusNotFound},
		{"move cycle", "POST", "/v1/categories/1/move", admin, api.MoveCategoryRequest{OldParentID: int64Ptr(0), NewParentID: int64Ptr(5)}, http.StatusConflict},
		{"move stale", "POST", "/v1/categories/4/move", admin, api.MoveCategoryRequest{OldParentID: int64Ptr(2), NewParentID: int64Ptr(0)}, http.StatusConflict},
		{"move missing parents", "POST", "/v1/categories/4/move", admin, api.MoveCategoryRequest{}, http.StatusBadRequest},
		{"delete missing", "DELETE", "/v1/categories/999", admin, nil, http.StatusNotFound},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, tc.method, tc.path, tc.authz, tc.body)
			requireStatus(t, rec, tc.want)
			if resp := decodeJSON[map[string]string](t, rec); resp["error"] == "" {
				t.Fatal("expected error message in body")
			}
		})
	}
}

func TestHTTPProjectIssues(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := doJSON(t, h, "GET", "/v1/projects/1/issues?filter=status%3Dnotclosed", basic("bob"), nil)
	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[struct {
		Columns []string `json:"columns"`
		Rows    [][]any  `json:"rows"`
	}](t, rec)
	if len(resp.Columns) != 13 || resp.Columns[0] != "id" || resp.Columns[8] != "title" {
		t.Fatalf("unexpected columns: %v", resp.Columns)
	}
	if len(resp.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(resp.Rows))
	}
	if resp.Rows[0][0] != float64(101) || resp.Rows[1][8] != "Typo in footer" {
		t.Fatalf("unexpected rows: %v", resp.Rows)
	}

	rec = doJSON(t, h, "GET", "/v1/projects/1/issues", basic("bob"), nil)
	requireStatus(t, rec, http.StatusOK)
	if got := len(decodeJSON[api.GetProjectIssuesResponse](t, rec).Rows); got != 4 {
		t.Fatalf("expected 4 rows for blank filter, got %d", got)
	}

	requireStatus(t, doJSON(t, h, "GET", "/v1/projects/1/issues", "", nil), http.StatusUnauthorized)
}

func TestHTTPProjectID(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := doJSON(t, h, "GET", "/v1/project-id?code=bug", basic("bob"), nil)
	requireStatus(t, rec, http.StatusOK)
	if got := decodeJSON[api.GetProjectIDResponse](t, rec).ProjectID; got != 1 {
		t.Fatalf("expected project_id=1, got %d", got)
	}

	requireStatus(t, doJSON(t, h, "GET", "/v1/project-id?code=NOPE", basic("bob"), nil), http.StatusNotFound)
	requireStatus(t, doJSON(t, h, "GET", "/v1/project-id?code=bug", "", nil), http.StatusUnauthorized)
	requireStatus(t, doJSON(t, h, "GET", "/v1/project-id", "", nil), http.StatusBadRequest)
	requireStatus(t, doJSON(t, h, "GET", "/v1/project-id?code=SEC", "", nil), http.StatusUnauthorized)
}

func TestHTTPValidIssue(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := doJSON(t, h, "GET", "/v1/issues/101/valid", basic("bob"), nil)
	requireStatus(t, rec, http.StatusOK)
	if !decodeJSON[api.ValidIssueResponse](t, rec).Valid {
		t.Fatal("expected issue 101 to be valid")
	}

	rec = doJSON(t, h, "GET", "/v1/issues/999/valid", basic("bob"), nil)
	requireStatus(t, rec, http.StatusOK)
	if decodeJSON[api.ValidIssueResponse](t, rec).Valid {
		t.Fatal("expected issue 999 to be invalid")
	}

	requireStatus(t, doJSON(t, h, "GET", "/v1/issues/101/valid", "", nil), http.StatusUnauthorized)
}

func TestHTTPCreateRevision(t *testing.T) {
	_, ms, h := newTestServer(t)

	rec := doJSON(t, h, "POST", "/v1/issues/101/revisions", basic("bob"), api.CreateRevisionRequest{
		Revision:   42,
		Repository: "svn://example/trunk",
		Author:     "bob",
		Message:    "fix crash",
	})
	requireStatus(t, rec, http.StatusCreated)
	rev := decodeJSON[api.CreateRevisionResponse](t, rec).Revision
	if rev.IssueID != 101 || rev.Revision != 42 || rev.ID == 0 {
		t.Fatalf("unexpected revision: %+v", rev)
	}
	if len(ms.revisions) != 1 {
		t.Fatalf("expected 1 stored revision, got %d", len(ms.revisions))
	}

	rec = doJSON(t, h, "POST", "/v1/issues/201/revisions", basic("bob"), api.CreateRevisionRequest{Repository: "r", Author: "bob"})
	requireStatus(t, rec, http.StatusForbidden)
}

func TestHTTPCreateAttachment(t *testing.T) {
	_, ms, h := newTestServer(t)

	rec := doJSON(t, h, "POST", "/v1/issues/101/attachments", basic("alice"), api.CreateAttachmentRequest{
		FileName: "trace.txt",
		Content:  []byte("stack trace"),
	})
	requireStatus(t, rec, http.StatusCreated)
	a := decodeJSON[api.CreateAttachmentResponse](t, rec).Attachment
	if a.IssueID != 101 || a.Size != int64(len("stack trace")) || a.CreatorUserName != "alice" {
		t.Fatalf("unexpected attachment: %+v", a)
	}
	if string(ms.attachments[0].Content) != "stack trace" {
		t.Fatalf("expected inline content, got %q", ms.attachments[0].Content)
	}
}

func TestHTTPLookups(t *testing.T) {
	_, _, h := newTestServer(t)

	for _, kind := range []string{"priorities", "priority"} {
		rec := doJSON(t, h, "GET", "/v1/projects/1/lookups/"+kind, basic("bob"), nil)
		requireStatus(t, rec, http.StatusOK)
		if got := decodeJSON[api.GetLookupResponse](t, rec).Names; !slices.Equal(got, []string{"High", "Low"}) {
			t.Fatalf("%s: unexpected names %v", kind, got)
		}
	}

	requireStatus(t, doJSON(t, h, "GET", "/v1/projects/1/lookups/colours", "", nil), http.StatusBadRequest)

	requireStatus(t, doJSON(t, h, "GET", "/v1/projects/1/lookups/priority", "", nil), http.StatusUnauthorized)
	requireStatus(t, doJSON(t, h, "GET", "/v1/projects/1/lookups", "", nil), http.StatusUnauthorized)

	rec := doJSON(t, h, "GET", "/v1/projects/1/lookups", basic("bob"), nil)
	requireStatus(t, rec, http.StatusOK)
	all := decodeJSON[api.GetLookupsResponse](t, rec)
	if !slices.Equal(all.Statuses, []string{"Open", "Closed"}) || !slices.Equal(all.IssueTypes, []string{"Bug"}) {
		t.Fatalf("unexpected lookups: %+v", all)
	}
}

func TestHTTPWiki(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := doJSON(t, h, "GET", "/v1/wiki/1/source?slug=home&version=2", "", nil)
	requireStatus(t, rec, http.StatusOK)
	if got := decodeJSON[api.GetWikiSourceResponse](t, rec).Source; !strings.Contains(got, "[[issue:101]]") {
		t.Fatalf("unexpected source: %q", got)
	}

	requireStatus(t, doJSON(t, h, "GET", "/v1/wiki/1/source?version=x", "", nil), http.StatusBadRequest)
	requireStatus(t, doJSON(t, h, "GET", "/v1/wiki/1/source?slug=other&version=1", "", nil), http.StatusNotFound)

	rec = doJSON(t, h, "POST", "/v1/projects/1/wiki/preview", "", api.GetWikiPreviewRequest{Source: "see [[issue:7]]"})
	requireStatus(t, rec, http.StatusOK)
	if got := decodeJSON[api.GetWikiPreviewResponse](t, rec).HTML; !strings.Contains(got, `href="/issues/7"`) {
		t.Fatalf("expected issue link in preview, got %q", got)
	}
}

func TestHTTPUnknownRoute(t *testing.T) {
	_, _, h := newTestServer(t)
	requireStatus(t, doJSON(t, h, "GET", "/v1/nope", "", nil), http.StatusNotFound)
	requireStatus(t, doJSON(t, h, "PUT", "/v1/projects/1/categories", "", nil), http.StatusMethodNotAllowed)
}
