// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nimbusid/usersync/internal/logging"
	"github.com/nimbusid/usersync/internal/tracing"
	"github.com/nimbusid/usersync/pkg/principal"
	"github.com/nimbusid/usersync/pkg/sync"
)

type noopMonitor struct{}

func (noopMonitor) GetService() string { return "test" }
func (noopMonitor) SetResponseTimeMetric(map[string]string, float64) error {
	return nil
}
func (noopMonitor) SetDependencyAvailability(map[string]string, float64) error {
	return nil
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := NewConfig(srv.URL, "admin", "secret", false,
		tracing.NewNoopTracer(), noopMonitor{}, logging.NewNoopLogger())
	return NewClient(cfg), srv
}

// loginRecorder accepts the login form and counts calls, delegating
// everything else to next.
type loginRecorder struct {
	calls int
	next  http.Handler
}

func (l *loginRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == loginURL {
		l.calls++
		if r.FormValue("username") != "admin" || r.FormValue("password") != "secret" {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "SESSIONID", Value: "abc", Path: "/"})
		w.WriteHeader(http.StatusNoContent)
		return
	}
	l.next.ServeHTTP(w, r)
}

func TestClientLoginOnce(t *testing.T) {
	login := &loginRecorder{
		next: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie("SESSIONID"); err != nil || c.Value != "abc" {
				http.Error(w, "no session", http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`[]`))
		}),
	}
	client, _ := newTestClient(t, login)

	for i := 0; i < 3; i++ {
		if _, err := client.GetAll(context.Background()); err != nil {
			t.Fatalf("call %d: expected no error, got %v", i, err)
		}
	}

	if login.calls != 1 {
		t.Fatalf("expected exactly one login, got %d", login.calls)
	}
}

func TestClientLoginFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))

	_, err := client.GetAll(context.Background())
	if err == nil {
		t.Fatal("expected login error, got nil")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", statusErr.StatusCode)
	}
	if statusErr.Body != "bad credentials" {
		t.Fatalf("expected body from response, got %q", statusErr.Body)
	}
}

func TestClientGetAll(t *testing.T) {
	payload := `[
		{"name": "Staff", "principalTypeEnum": "LOCAL_GROUP"},
		{"name": "alice", "principalTypeEnum": "LOCAL_USER", "groupNames": ["Staff"]}
	]`
	login := &loginRecorder{
		next: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != getAllURL {
				http.NotFound(w, r)
				return
			}
			w.Write([]byte(payload))
		}),
	}
	client, _ := newTestClient(t, login)

	ugs, err := client.GetAll(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ugs.NumberUsers() != 1 || ugs.NumberGroups() != 1 {
		t.Fatalf("expected 1 user and 1 group, got %d and %d", ugs.NumberUsers(), ugs.NumberGroups())
	}
	if ugs.GetUser("alice") == nil || ugs.GetGroup("Staff") == nil {
		t.Fatal("expected alice and Staff to be present")
	}
}

func TestClientSync(t *testing.T) {
	var gotApply, gotRemove, gotPassword string
	var gotPrincipals []byte
	login := &loginRecorder{
		next: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != syncURL {
				http.NotFound(w, r)
				return
			}
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			gotApply = r.FormValue("applyChanges")
			gotRemove = r.FormValue("removeDeleted")
			gotPassword = r.FormValue("password")

			f, _, err := r.FormFile("principals")
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			defer f.Close()
			buf := make([]byte, 1<<20)
			n, _ := f.Read(buf)
			gotPrincipals = buf[:n]
			w.Write([]byte(`{}`))
		}),
	}
	client, _ := newTestClient(t, login)
	client.globalPassword = "hunter2"

	ugs := principal.NewUsersAndGroups()
	ugs.AddUser(principal.NewUser("alice"), principal.RaiseErrorOnDuplicate)

	if err := client.Sync(context.Background(), ugs, true, false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if gotApply != "true" || gotRemove != "false" {
		t.Fatalf("expected applyChanges=true removeDeleted=false, got %q and %q", gotApply, gotRemove)
	}
	if gotPassword != "hunter2" {
		t.Fatalf("expected global password field, got %q", gotPassword)
	}

	var records []map[string]any
	if err := json.Unmarshal(gotPrincipals, &records); err != nil {
		t.Fatalf("principals file is not a JSON array: %v", err)
	}
	if len(records) != 1 || records[0]["name"] != "alice" {
		t.Fatalf("unexpected principals payload: %s", gotPrincipals)
	}
}

func TestClientSetGroupPrivilege(t *testing.T) {
	var gotPath, gotPrivilege, gotGroups string
	login := &loginRecorder{
		next: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			gotPrivilege = r.FormValue("privilege")
			gotGroups = r.FormValue("groupNames")
			w.WriteHeader(http.StatusNoContent)
		}),
	}
	client, _ := newTestClient(t, login)

	err := client.SetGroupPrivilege(context.Background(), []string{"Staff", "Analysts"}, "DEVELOPER", sync.PrivilegeRemove)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotPath != rmPrivilegeURL {
		t.Fatalf("expected remove endpoint, got %s", gotPath)
	}
	if gotPrivilege != "DEVELOPER" {
		t.Fatalf("expected privilege DEVELOPER, got %q", gotPrivilege)
	}
	if gotGroups != `["Staff","Analysts"]` {
		t.Fatalf("expected JSON group list, got %q", gotGroups)
	}

	err = client.SetGroupPrivilege(context.Background(), []string{"Staff"}, "DEVELOPER", sync.PrivilegeAdd)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotPath != addPrivilegeURL {
		t.Fatalf("expected add endpoint, got %s", gotPath)
	}
}

func TestClientUpdatePassword(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected error
	}{
		{
			name:   "Success",
			status: http.StatusNoContent,
		},
		{
			name:     "Unchanged",
			status:   http.StatusInternalServerError,
			body:     "New password cannot be the same as current password",
			expected: sync.ErrPasswordUnchanged,
		},
		{
			name:   "OtherFailure",
			status: http.StatusInternalServerError,
			body:   "something else broke",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			login := &loginRecorder{
				next: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if r.FormValue("name") != "alice" || r.FormValue("password") != "newpw" {
						http.Error(w, "bad form", http.StatusBadRequest)
						return
					}
					if test.body != "" {
						http.Error(w, test.body, test.status)
						return
					}
					w.WriteHeader(test.status)
				}),
			}
			client, _ := newTestClient(t, login)

			err := client.UpdatePassword(context.Background(), "alice", "adminpw", "newpw")
			switch {
			case test.expected != nil:
				if !errors.Is(err, test.expected) {
					t.Fatalf("expected %v, got %v", test.expected, err)
				}
			case test.status < 300:
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
			default:
				if err == nil {
					t.Fatal("expected an error, got nil")
				}
				if errors.Is(err, sync.ErrPasswordUnchanged) {
					t.Fatal("generic failure must not map to the unchanged sentinel")
				}
			}
		})
	}
}

func TestClientDeleteUsers(t *testing.T) {
	metadata := []metadataHeader{
		{ID: "id-alice", Name: "alice"},
		{ID: "id-bob", Name: "bob"},
	}
	var gotIDs string
	var deleteCalls int
	login := &loginRecorder{
		next: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/rest/v1/metadata/listobjectheaders":
				json.NewEncoder(w).Encode(metadata)
			case deleteUsersURL:
				deleteCalls++
				gotIDs = r.FormValue("ids")
				w.WriteHeader(http.StatusNoContent)
			default:
				http.NotFound(w, r)
			}
		}),
	}
	client, _ := newTestClient(t, login)

	// carol does not exist remotely and is skipped
	err := client.DeleteUsers(context.Background(), []string{"alice", "carol", "bob"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotIDs != `["id-alice","id-bob"]` {
		t.Fatalf("expected resolved IDs, got %q", gotIDs)
	}

	// nothing resolves, the delete endpoint must not be hit
	deleteCalls = 0
	if err := client.DeleteUsers(context.Background(), []string{"carol"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deleteCalls != 0 {
		t.Fatalf("expected no delete call, got %d", deleteCalls)
	}
}

func TestClientGetGroupPrivileges(t *testing.T) {
	login := &loginRecorder{
		next: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/rest/v1/metadata/listobjectheaders":
				if r.URL.Query().Get("pattern") != "Staff" {
					json.NewEncoder(w).Encode([]metadataHeader{})
					return
				}
				json.NewEncoder(w).Encode([]metadataHeader{{ID: "id-staff", Name: "Staff"}})
			case "/api/rest/v1/metadata/detail/id-staff":
				w.Write([]byte(`{"privileges": ["DEVELOPER", "DATADOWNLOADING"]}`))
			default:
				http.NotFound(w, r)
			}
		}),
	}
	client, _ := newTestClient(t, login)

	privs, err := client.GetGroupPrivileges(context.Background(), "Staff")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(privs) != 2 || privs[0] != "DEVELOPER" {
		t.Fatalf("unexpected privileges %v", privs)
	}

	if _, err := client.GetGroupPrivileges(context.Background(), "Nobody"); err == nil {
		t.Fatal("expected an error for an unknown group")
	}
}
