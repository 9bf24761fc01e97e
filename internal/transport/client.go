// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package transport implements the HTTP client for the remote identity
// service. The API is a fixed contract: form login with a session cookie,
// principals pushed as a multipart JSON document, and per-privilege group
// calls.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"github.com/nimbusid/usersync/internal/logging"
	"github.com/nimbusid/usersync/internal/monitoring"
	"github.com/nimbusid/usersync/internal/tracing"
	"github.com/nimbusid/usersync/pkg/principal"
	"github.com/nimbusid/usersync/pkg/sync"
)

const (
	loginURL          = "/api/rest/v1/session/login"
	getAllURL         = "/api/rest/v1/user/list"
	syncURL           = "/api/rest/v1/user/sync"
	updatePasswordURL = "/api/rest/v1/user/updatepassword"
	deleteUsersURL    = "/api/rest/v1/user/deleteusers"
	deleteGroupsURL   = "/api/rest/v1/group/deletegroups"
	addPrivilegeURL   = "/api/rest/v1/group/addprivilege"
	rmPrivilegeURL    = "/api/rest/v1/group/removeprivilege"

	userMetadataURL   = "/api/rest/v1/metadata/listobjectheaders?type=USER&batchsize=-1"
	groupMetadataURL  = "/api/rest/v1/metadata/listobjectheaders?type=USER_GROUP&batchsize=-1"
	groupDetailURL    = "/api/rest/v1/metadata/detail/%s?type=USER_GROUP"
	passwordUnchanged = "New password cannot be the same as current password"
)

var _ sync.TransportInterface = (*Client)(nil)

type Config struct {
	BaseURL  string
	Username string
	Password string
	// GlobalPassword, when set, is sent with every sync call so the remote
	// assigns it to all created users. Much faster than per-user updates.
	GlobalPassword string
	DisableSSL     bool

	Tracer  tracing.TracingInterface
	Monitor monitoring.MonitorInterface
	Logger  logging.LoggerInterface
}

func NewConfig(baseURL, username, password string, disableSSL bool,
	tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Config {
	c := new(Config)

	c.BaseURL = strings.TrimRight(baseURL, "/")
	c.Username = username
	c.Password = password
	c.DisableSSL = disableSSL

	c.Tracer = tracer
	c.Monitor = monitor
	c.Logger = logger

	return c
}

type Client struct {
	baseURL        string
	username       string
	password       string
	globalPassword string

	http          *http.Client
	authenticated bool

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewClient(config *Config) *Client {
	c := new(Client)

	c.baseURL = strings.TrimRight(config.BaseURL, "/")
	c.username = config.Username
	c.password = config.Password
	c.globalPassword = config.GlobalPassword

	jar, err := cookiejar.New(nil)
	if err != nil {
		panic(err)
	}
	c.http = &http.Client{Jar: jar}
	if config.DisableSSL {
		c.http.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	c.tracer = config.Tracer
	c.monitor = config.Monitor
	c.logger = config.Logger

	return c
}

// login posts the admin credentials and keeps the session cookie on the
// client's jar. Called lazily before the first authenticated request.
func (c *Client) login(ctx context.Context) error {
	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)

	rq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	rq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, err = c.execute(rq)
	if err != nil {
		c.monitor.SetDependencyAvailability(map[string]string{"component": "remote"}, 0)
		return fmt.Errorf("login as %s failed: %w", c.username, err)
	}

	c.monitor.SetDependencyAvailability(map[string]string{"component": "remote"}, 1)
	c.logger.Infof("logged in as %s", c.username)
	c.authenticated = true
	return nil
}

func (c *Client) ensureSession(ctx context.Context) error {
	if c.authenticated {
		return nil
	}
	return c.login(ctx)
}

// execute runs the request and returns the response body. Any status of
// 300 or above becomes an error carrying the status and the body text.
func (c *Client) execute(rq *http.Request) ([]byte, error) {
	rs, err := c.http.Do(rq)
	if err != nil {
		return nil, err
	}
	defer rs.Body.Close()

	body, err := io.ReadAll(rs.Body)
	if err != nil {
		return nil, err
	}

	if rs.StatusCode >= 300 {
		return nil, newStatusError(rq, rs.StatusCode, body)
	}
	return body, nil
}

// GetAll fetches the remote users and groups.
func (c *Client) GetAll(ctx context.Context) (*principal.UsersAndGroups, error) {
	ctx, span := c.tracer.Start(ctx, "transport.Client.GetAll")
	defer span.End()

	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+getAllURL, nil)
	if err != nil {
		return nil, err
	}
	body, err := c.execute(rq)
	if err != nil {
		return nil, fmt.Errorf("failed to get users and groups: %w", err)
	}

	ugs, warnings, err := principal.ParseRecords(body)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		c.logger.Warnf("get-all: %s", w)
	}
	return ugs, nil
}

// Sync posts the container to the remote sync endpoint as a multipart
// document: the principals JSON plus the apply and remove flags.
func (c *Client) Sync(ctx context.Context, ugs *principal.UsersAndGroups, applyChanges, removeDeleted bool) error {
	ctx, span := c.tracer.Start(ctx, "transport.Client.Sync")
	defer span.End()

	if err := c.ensureSession(ctx); err != nil {
		return err
	}

	payload, err := ugs.ToJSON()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("principals", "principals.json")
	if err != nil {
		return err
	}
	if _, err = fw.Write(payload); err != nil {
		return err
	}
	mw.WriteField("applyChanges", strconv.FormatBool(applyChanges))
	mw.WriteField("removeDeleted", strconv.FormatBool(removeDeleted))
	if c.globalPassword != "" {
		mw.WriteField("password", c.globalPassword)
	}
	if err = mw.Close(); err != nil {
		return err
	}

	rq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+syncURL, &buf)
	if err != nil {
		return err
	}
	rq.Header.Set("Content-Type", mw.FormDataContentType())

	body, err := c.execute(rq)
	if err != nil {
		return fmt.Errorf("failed to sync users and groups: %w", err)
	}

	c.logger.Infof("synced %d users and %d groups", ugs.NumberUsers(), ugs.NumberGroups())
	c.logger.Debugf("sync response: %s", string(body))
	return nil
}

// SetGroupPrivilege adds or removes one privilege on a list of groups.
func (c *Client) SetGroupPrivilege(ctx context.Context, groups []string, privilege string, op sync.PrivilegeOp) error {
	ctx, span := c.tracer.Start(ctx, "transport.Client.SetGroupPrivilege")
	defer span.End()

	if err := c.ensureSession(ctx); err != nil {
		return err
	}

	endpoint := addPrivilegeURL
	if op == sync.PrivilegeRemove {
		endpoint = rmPrivilegeURL
	}

	names, err := json.Marshal(groups)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("privilege", privilege)
	mw.WriteField("groupNames", string(names))
	if err = mw.Close(); err != nil {
		return err
	}

	rq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return err
	}
	rq.Header.Set("Content-Type", mw.FormDataContentType())

	if _, err = c.execute(rq); err != nil {
		return fmt.Errorf("failed to %s privilege %s for groups %v: %w", op, privilege, groups, err)
	}
	return nil
}

// UpdatePassword sets a user's password. The remote signals an unchanged
// password with a 500 carrying a fixed message; that maps to the
// sync.ErrPasswordUnchanged sentinel.
func (c *Client) UpdatePassword(ctx context.Context, userID, adminPassword, newPassword string) error {
	ctx, span := c.tracer.Start(ctx, "transport.Client.UpdatePassword")
	defer span.End()

	if err := c.ensureSession(ctx); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("name", userID)
	form.Set("currentpassword", adminPassword)
	form.Set("password", newPassword)

	rq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+updatePasswordURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	rq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if _, err = c.execute(rq); err != nil {
		var statusErr *StatusError
		if asStatusError(err, &statusErr) &&
			statusErr.StatusCode == http.StatusInternalServerError &&
			strings.Contains(statusErr.Body, passwordUnchanged) {
			return sync.ErrPasswordUnchanged
		}
		return fmt.Errorf("failed to update password for %s: %w", userID, err)
	}
	return nil
}

// DeleteUsers deletes users by name by resolving them to remote IDs
// first. Names that do not resolve are warned and skipped; if nothing
// resolves the call is a no-op.
func (c *Client) DeleteUsers(ctx context.Context, names []string) error {
	ctx, span := c.tracer.Start(ctx, "transport.Client.DeleteUsers")
	defer span.End()

	return c.deletePrincipals(ctx, names, userMetadataURL, deleteUsersURL, "user")
}

// DeleteGroups deletes groups by name with the same resolve-then-delete
// scheme as DeleteUsers.
func (c *Client) DeleteGroups(ctx context.Context, names []string) error {
	ctx, span := c.tracer.Start(ctx, "transport.Client.DeleteGroups")
	defer span.End()

	return c.deletePrincipals(ctx, names, groupMetadataURL, deleteGroupsURL, "group")
}

func (c *Client) deletePrincipals(ctx context.Context, names []string, metadataURL, deleteURL, kind string) error {
	if err := c.ensureSession(ctx); err != nil {
		return err
	}

	headers, err := c.listMetadata(ctx, metadataURL)
	if err != nil {
		return fmt.Errorf("failed to get %s metadata: %w", kind, err)
	}

	byName := make(map[string]string, len(headers))
	for _, h := range headers {
		byName[h.Name] = h.ID
	}

	var ids []string
	for _, name := range names {
		id, ok := byName[name]
		if !ok {
			c.logger.Warnf("%s %s not found, not attempting to delete", kind, name)
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		c.logger.Warnf("no valid %ss to delete", kind)
		return nil
	}

	idList, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	form := url.Values{}
	form.Set("ids", string(idList))

	rq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+deleteURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	rq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if _, err = c.execute(rq); err != nil {
		return fmt.Errorf("failed to delete %ss %v: %w", kind, names, err)
	}

	c.logger.Infof("deleted %d %ss", len(ids), kind)
	return nil
}

// metadataHeader is the name/ID pair returned by the metadata listing
// endpoints.
type metadataHeader struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c *Client) listMetadata(ctx context.Context, endpoint string) ([]metadataHeader, error) {
	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	body, err := c.execute(rq)
	if err != nil {
		return nil, err
	}

	var headers []metadataHeader
	if err := json.Unmarshal(body, &headers); err != nil {
		return nil, fmt.Errorf("unexpected metadata response: %w", err)
	}
	return headers, nil
}

// GetGroupPrivileges fetches the current privileges of one remote group
// through the metadata endpoints. Used by exports; the differ never needs
// it.
func (c *Client) GetGroupPrivileges(ctx context.Context, groupName string) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, "transport.Client.GetGroupPrivileges")
	defer span.End()

	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	listURL := groupMetadataURL + "&pattern=" + url.QueryEscape(groupName)
	headers, err := c.listMetadata(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("failed to look up group %s: %w", groupName, err)
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("group %s not found", groupName)
	}

	rq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+fmt.Sprintf(groupDetailURL, url.PathEscape(headers[0].ID)), nil)
	if err != nil {
		return nil, err
	}
	body, err := c.execute(rq)
	if err != nil {
		return nil, fmt.Errorf("failed to get details for group %s: %w", groupName, err)
	}

	var detail struct {
		Privileges []string `json:"privileges"`
	}
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("unexpected group detail response: %w", err)
	}
	return detail.Privileges, nil
}
