package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samvad-relay/backend/internal/cost"
	"samvad-relay/backend/internal/push"
	"samvad-relay/backend/internal/store"
	"samvad-relay/backend/internal/workflow"
)

type mockStore struct {
	users         []store.User
	history       []store.ChatMessage
	savedUsers    []store.User
	savedMessages []store.ChatMessage
	listErr       error
	historyErr    error
}

func (m *mockStore) SaveUserDetails(ctx context.Context, platform, userID string, user store.User) error {
	m.savedUsers = append(m.savedUsers, user)
	return nil
}

func (m *mockStore) SaveChatMessage(ctx context.Context, platform, userID string, msg store.ChatMessage) error {
	msg.Platform = platform
	msg.UserID = userID
	m.savedMessages = append(m.savedMessages, msg)
	return nil
}

func (m *mockStore) ListUsers(ctx context.Context, platform string) ([]store.User, error) {
	return m.users, m.listErr
}

func (m *mockStore) GetChatHistory(ctx context.Context, platform, userID string, limit int) ([]store.ChatMessage, error) {
	return m.history, m.historyErr
}

type mockWorkflow struct {
	resp  *workflow.Response
	calls []inbound
}

func (m *mockWorkflow) HandleMessage(ctx context.Context, platform, userID, text, payload string) *workflow.Response {
	m.calls = append(m.calls, inbound{platform: platform, userID: userID, text: text, payload: payload})
	return m.resp
}

type mockAgent struct {
	reply    string
	err      error
	sessions []string
}

func (m *mockAgent) Invoke(ctx context.Context, message, sessionID string) (string, error) {
	m.sessions = append(m.sessions, sessionID)
	return m.reply, m.err
}

type mockCosts struct {
	report *cost.Report
}

func (m *mockCosts) GetAllCosts(ctx context.Context, start, end string) *cost.Report {
	return m.report
}

type mockSender struct {
	sent    []*workflow.Response
	userIDs []string
	err     error
}

func (m *mockSender) Send(ctx context.Context, recipientID string, resp *workflow.Response) error {
	m.userIDs = append(m.userIDs, recipientID)
	m.sent = append(m.sent, resp)
	return m.err
}

type fixture struct {
	router   *gin.Engine
	store    *mockStore
	workflow *mockWorkflow
	agent    *mockAgent
	sender   *mockSender
}

func setupRouter(t *testing.T, translationPlatforms []string) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		store:    &mockStore{},
		workflow: &mockWorkflow{resp: &workflow.Response{Text: "reply"}},
		agent:    &mockAgent{reply: "agent reply"},
		sender:   &mockSender{},
	}
	senders := map[string]push.Sender{
		"facebook":  f.sender,
		"instagram": f.sender,
		"whatsapp":  f.sender,
	}
	handler := NewHandler(f.store, f.workflow, f.agent, &mockCosts{report: &cost.Report{Currency: "USD"}}, senders, "verify-secret", translationPlatforms)

	f.router = gin.New()
	handler.RegisterRoutes(f.router)
	return f
}

func postJSON(router *gin.Engine, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestVerifyWebhook(t *testing.T) {
	f := setupRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/webhook/facebook?hub.mode=subscribe&hub.verify_token=verify-secret&hub.challenge=12345", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())
}

func TestVerifyWebhook_WrongToken(t *testing.T) {
	f := setupRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/webhook/whatsapp?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFacebookWebhook(t *testing.T) {
	f := setupRouter(t, []string{"facebook", "instagram", "whatsapp"})

	body := `{
		"object": "page",
		"entry": [{
			"messaging": [{
				"sender": {"id": "fb-user-1"},
				"message": {"mid": "mid.1", "text": "hello", "quick_reply": {"payload": "LANG_ta"}}
			}]
		}]
	}`
	w := postJSON(f.router, "/webhook/facebook", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EVENT_RECEIVED", w.Body.String())

	require.Len(t, f.workflow.calls, 1)
	call := f.workflow.calls[0]
	assert.Equal(t, "facebook", call.platform)
	assert.Equal(t, "fb-user-1", call.userID)
	assert.Equal(t, "hello", call.text)
	assert.Equal(t, "LANG_ta", call.payload)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "fb-user-1", f.sender.userIDs[0])
	assert.Equal(t, "reply", f.sender.sent[0].Text)

	// inbound + outbound rows
	require.Len(t, f.store.savedMessages, 2)
	assert.Equal(t, "user", f.store.savedMessages[0].Sender)
	assert.Equal(t, "mid.1", f.store.savedMessages[0].PlatformMessageID)
	assert.Equal(t, "agent", f.store.savedMessages[1].Sender)
	assert.Equal(t, "reply", f.store.savedMessages[1].MessageText)
}

func TestFacebookWebhook_WrongObject(t *testing.T) {
	f := setupRouter(t, nil)

	w := postJSON(f.router, "/webhook/facebook", `{"object": "group", "entry": []}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, f.workflow.calls)
}

func TestFacebookWebhook_DirectAgentPath(t *testing.T) {
	// facebook not in the translation platform list: legacy direct-agent path
	f := setupRouter(t, []string{"whatsapp"})

	body := `{
		"object": "page",
		"entry": [{"messaging": [{"sender": {"id": "fb-user-1"}, "message": {"text": "hello"}}]}]
	}`
	w := postJSON(f.router, "/webhook/facebook", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.workflow.calls)
	require.Len(t, f.agent.sessions, 1)
	assert.Equal(t, "fb-user-1", f.agent.sessions[0])
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "agent reply", f.sender.sent[0].Text)
}

func TestFacebookWebhook_DirectAgentFailure(t *testing.T) {
	f := setupRouter(t, nil)
	f.agent.err = errors.New("agent down")

	body := `{
		"object": "page",
		"entry": [{"messaging": [{"sender": {"id": "fb-user-1"}, "message": {"text": "hello"}}]}]
	}`
	w := postJSON(f.router, "/webhook/facebook", body)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestInstagramWebhook_PageObject(t *testing.T) {
	f := setupRouter(t, []string{"facebook", "instagram", "whatsapp"})

	body := `{
		"object": "page",
		"entry": [{"messaging": [{"sender": {"id": "ig-user-1"}, "message": {"text": "hi"}}]}]
	}`
	w := postJSON(f.router, "/webhook/instagram", body)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.workflow.calls, 1)
	assert.Equal(t, "instagram", f.workflow.calls[0].platform)
}

func TestWhatsAppWebhook(t *testing.T) {
	f := setupRouter(t, []string{"facebook", "instagram", "whatsapp"})

	body := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"changes": [{
				"value": {
					"contacts": [{"profile": {"name": "Asha"}}],
					"messages": [{"from": "9715550000", "id": "wamid.1", "text": {"body": "hello"}}]
				}
			}]
		}]
	}`
	w := postJSON(f.router, "/webhook/whatsapp", body)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.workflow.calls, 1)
	assert.Equal(t, "whatsapp", f.workflow.calls[0].platform)
	assert.Equal(t, "9715550000", f.workflow.calls[0].userID)

	require.Len(t, f.store.savedUsers, 1)
	assert.Equal(t, "Asha", f.store.savedUsers[0].ProfileName)
	assert.Equal(t, "9715550000", f.store.savedUsers[0].PhoneNumber)
}

func TestWhatsAppWebhook_ButtonReply(t *testing.T) {
	f := setupRouter(t, []string{"facebook", "instagram", "whatsapp"})

	body := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"changes": [{
				"value": {
					"messages": [{
						"from": "9715550000",
						"id": "wamid.2",
						"interactive": {"button_reply": {"id": "lang_ta", "title": "Tamil"}}
					}]
				}
			}]
		}]
	}`
	w := postJSON(f.router, "/webhook/whatsapp", body)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.workflow.calls, 1)
	assert.Equal(t, "lang_ta", f.workflow.calls[0].payload)
	assert.Equal(t, "Tamil", f.workflow.calls[0].text)
}

func TestWhatsAppWebhook_WrongObject(t *testing.T) {
	f := setupRouter(t, nil)

	w := postJSON(f.router, "/webhook/whatsapp", `{"object": "page", "entry": []}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUsers(t *testing.T) {
	f := setupRouter(t, nil)
	f.store.users = []store.User{{Platform: "facebook", UserID: "fb-user-1"}}

	req := httptest.NewRequest(http.MethodGet, "/api/users?platform=facebook", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var users []store.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "fb-user-1", users[0].UserID)
}

func TestListUsers_InvalidPlatform(t *testing.T) {
	f := setupRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users?platform=telegram", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHistory_MissingParams(t *testing.T) {
	f := setupRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/chat/history?platform=facebook", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAgentInvoke(t *testing.T) {
	f := setupRouter(t, nil)

	w := postJSON(f.router, "/api/agent/invoke", `{"user_id": "u1", "message": "hello"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "agent reply", resp["response"])
	assert.Equal(t, "u1", resp["session_id"])
	require.Len(t, f.agent.sessions, 1)
	assert.Equal(t, "u1", f.agent.sessions[0])
}

func TestAgentInvoke_MissingFields(t *testing.T) {
	f := setupRouter(t, nil)

	w := postJSON(f.router, "/api/agent/invoke", `{"user_id": "u1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCosts(t *testing.T) {
	f := setupRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/costs", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var report cost.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "USD", report.Currency)
}

func TestHealthEndpoint(t *testing.T) {
	f := setupRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}
