package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lyzr/roster/cmd/roster/container"
	"github.com/lyzr/roster/common/bootstrap"
	"github.com/lyzr/roster/common/config"
	"github.com/lyzr/roster/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status      int                        `json:"status"`
	Description string                     `json:"description"`
	Data        map[string]json.RawMessage `json:"data"`
}

type testServer struct {
	e         *echo.Echo
	container *container.Container
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{
		Service: config.ServiceConfig{Name: "roster", Port: 3000},
		Database: config.DatabaseConfig{
			Driver:    config.DriverSQLite,
			SQLiteDSN: fmt.Sprintf("file:routes-%d?mode=memory&cache=shared", time.Now().UnixNano()),
		},
		Events: config.EventsConfig{Topic: "person.events"},
	}

	components, err := bootstrap.Setup(ctx, "roster",
		bootstrap.WithCustomConfig(cfg),
		bootstrap.WithCustomLogger(logger.Discard()),
		bootstrap.WithMigrations(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = components.Shutdown(context.Background()) })

	c, err := container.NewContainer(components)
	require.NoError(t, err)
	require.NotNil(t, c.Relay)
	require.NoError(t, c.Relay.Start(ctx))

	e := echo.New()
	e.Use(middleware.RequestID())
	RegisterHealthRoutes(e, c)
	RegisterPeopleRoutes(e, c)
	RegisterPeopleV2Routes(e, c)

	return &testServer{e: e, container: c}
}

func (s *testServer) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) name(t *testing.T, prefix, personID string) (int, *string) {
	t.Helper()
	_, env := s.do(t, http.MethodGet, prefix+"/get_name",
		fmt.Sprintf(`{"payload_content":{"person_id":%q}}`, personID))

	var name *string
	require.NoError(t, json.Unmarshal(env.Data["name"], &name))
	return env.Status, name
}

func TestV1_ConcreteScenario(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/accept_webhook",
		`{"payload_type":"PersonAdded","payload_content":{"person_id":"p1","name":"Alice","timestamp":"t1"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 200, env.Status)
	assert.Equal(t, "OK", env.Description)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	status, name := s.name(t, "", "p1")
	assert.Equal(t, 200, status)
	require.NotNil(t, name)
	assert.Equal(t, "Alice", *name)

	_, env = s.do(t, http.MethodPost, "/accept_webhook",
		`{"payload_type":"PersonRenamed","payload_content":{"person_id":"p1","name":"Bob","timestamp":"t2"}}`)
	assert.Equal(t, 200, env.Status)

	status, name = s.name(t, "", "p1")
	assert.Equal(t, 200, status)
	require.NotNil(t, name)
	assert.Equal(t, "Bob", *name)

	_, env = s.do(t, http.MethodPost, "/accept_webhook",
		`{"payload_type":"PersonRemoved","payload_content":{"person_id":"p1","timestamp":"t3"}}`)
	assert.Equal(t, 200, env.Status)

	status, name = s.name(t, "", "p1")
	assert.Equal(t, 500, status)
	assert.Nil(t, name)
}

func TestV1_DuplicateAddIsServerError(t *testing.T) {
	s := newTestServer(t)
	body := `{"payload_type":"PersonAdded","payload_content":{"person_id":"p1","name":"Alice","timestamp":"t1"}}`

	_, env := s.do(t, http.MethodPost, "/accept_webhook", body)
	assert.Equal(t, 200, env.Status)

	rec, env := s.do(t, http.MethodPost, "/accept_webhook", body)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 500, env.Status)
	assert.Equal(t, "Server Error", env.Description)
}

func TestRemoveUnknownPersonIsOK(t *testing.T) {
	s := newTestServer(t)
	for _, prefix := range []string{"", "/v2"} {
		_, env := s.do(t, http.MethodPost, prefix+"/accept_webhook",
			`{"payload_type":"PersonRemoved","payload_content":{"person_id":"ghost","timestamp":"t1"}}`)
		assert.Equal(t, 200, env.Status, prefix)
	}
}

func TestInvalidWebhooksWriteNothing(t *testing.T) {
	bodies := map[string]string{
		"empty body":      "",
		"malformed json":  `{"payload_type":`,
		"no content":      `{"payload_type":"PersonAdded"}`,
		"content not map": `{"payload_type":"PersonAdded","payload_content":"p1"}`,
		"unknown type":    `{"payload_type":"PersonCloned","payload_content":{"person_id":"p1","name":"A","timestamp":"t"}}`,
		"missing name":    `{"payload_type":"PersonRenamed","payload_content":{"person_id":"p1","timestamp":"t"}}`,
		"null person":     `{"payload_type":"PersonRemoved","payload_content":{"person_id":null,"timestamp":"t"}}`,
	}

	s := newTestServer(t)
	for name, body := range bodies {
		for _, prefix := range []string{"", "/v2"} {
			t.Run(name+prefix, func(t *testing.T) {
				rec, env := s.do(t, http.MethodPost, prefix+"/accept_webhook", body)
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, 400, env.Status)
				assert.Equal(t, "Invalid Input", env.Description)
			})
		}
	}

	_, env := s.do(t, http.MethodGet, "/get_all_people", "")
	assert.JSONEq(t, `[]`, string(env.Data["people"]))
	_, env = s.do(t, http.MethodGet, "/v2/get_all_people", "")
	assert.JSONEq(t, `[]`, string(env.Data["actions"]))
}

func TestV2_DuplicateAddAndHistory(t *testing.T) {
	s := newTestServer(t)
	add := `{"payload_type":"PersonAdded","payload_content":{"person_id":"p1","name":"Alice","timestamp":"ignored"}}`

	_, env := s.do(t, http.MethodPost, "/v2/accept_webhook", add)
	assert.Equal(t, 200, env.Status)
	_, env = s.do(t, http.MethodPost, "/v2/accept_webhook", add)
	assert.Equal(t, 200, env.Status)

	_, env = s.do(t, http.MethodPost, "/v2/accept_webhook",
		`{"payload_type":"PersonRenamed","payload_content":{"person_id":"p1","name":"Bob"}}`)
	assert.Equal(t, 200, env.Status)

	status, name := s.name(t, "/v2", "p1")
	assert.Equal(t, 200, status)
	require.NotNil(t, name)
	assert.Equal(t, "Bob", *name)

	_, env = s.do(t, http.MethodGet, "/v2/get_all_people", "")
	var actions []map[string]any
	require.NoError(t, json.Unmarshal(env.Data["actions"], &actions))
	require.Len(t, actions, 2)
	assert.Equal(t, "PersonAdded", actions[0]["action"])
	assert.Equal(t, "PersonRenamed", actions[1]["action"])
	assert.NotEqual(t, "ignored", actions[0]["timestamp"], "client timestamps are replaced")

	// v1 table is untouched by v2 events
	_, env = s.do(t, http.MethodGet, "/get_all_people", "")
	assert.JSONEq(t, `[]`, string(env.Data["people"]))
}

func TestV2_RenameWithoutAddIsServerError(t *testing.T) {
	s := newTestServer(t)

	_, env := s.do(t, http.MethodPost, "/v2/accept_webhook",
		`{"payload_type":"PersonRenamed","payload_content":{"person_id":"ghost","name":"Nobody"}}`)
	assert.Equal(t, 500, env.Status)

	_, env = s.do(t, http.MethodGet, "/v2/get_all_people", "")
	assert.JSONEq(t, `[]`, string(env.Data["actions"]))
}

func TestGetName_InputHandling(t *testing.T) {
	s := newTestServer(t)
	_, env := s.do(t, http.MethodPost, "/accept_webhook",
		`{"payload_type":"PersonAdded","payload_content":{"person_id":"p1","name":"Alice","timestamp":"t1"}}`)
	require.Equal(t, 200, env.Status)

	rec, env := s.do(t, http.MethodGet, "/get_name?person_id=p1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Alice"`, string(env.Data["name"]))

	rec, env = s.do(t, http.MethodGet, "/get_name", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `null`, string(env.Data["name"]))

	rec, _ = s.do(t, http.MethodGet, "/get_name", `{"payload_content":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/v2/get_name", `{"payload_content":{"person_id":"ghost"}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server Error", env.Description)
	assert.JSONEq(t, `null`, string(env.Data["name"]))
}

func TestGetAllPeople_V1(t *testing.T) {
	s := newTestServer(t)
	for _, id := range []string{"p1", "p2"} {
		_, env := s.do(t, http.MethodPost, "/accept_webhook",
			fmt.Sprintf(`{"payload_type":"PersonAdded","payload_content":{"person_id":%q,"name":"N","timestamp":"t1"}}`, id))
		require.Equal(t, 200, env.Status)
	}

	rec, env := s.do(t, http.MethodGet, "/get_all_people", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", env.Description)

	var people []map[string]any
	require.NoError(t, json.Unmarshal(env.Data["people"], &people))
	require.Len(t, people, 2)
	assert.Equal(t, "p1", people[0]["person_id"])
	assert.Equal(t, "p2", people[1]["person_id"])
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	require.NoError(t, s.container.Components.SQLite.Close())
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
