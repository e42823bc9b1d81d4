package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"samvad-relay/backend/internal/workflow"
)

func TestBuildMessengerPayload(t *testing.T) {
	resp := &workflow.Response{
		Text: "pick one",
		QuickReplies: []workflow.QuickReply{
			{Title: "English", Payload: "LANG_en"},
			{Title: "Tamil", Payload: "LANG_ta"},
		},
	}

	payload := buildMessengerPayload("user-1", resp)

	if payload.Recipient.ID != "user-1" {
		t.Errorf("Expected recipient 'user-1', got '%s'", payload.Recipient.ID)
	}
	if payload.Message.Text != "pick one" {
		t.Errorf("Expected text 'pick one', got '%s'", payload.Message.Text)
	}
	if len(payload.Message.QuickReplies) != 2 {
		t.Fatalf("Expected 2 quick replies, got %d", len(payload.Message.QuickReplies))
	}
	if payload.Message.QuickReplies[0].ContentType != "text" {
		t.Errorf("Expected content_type 'text', got '%s'", payload.Message.QuickReplies[0].ContentType)
	}
	if payload.Message.QuickReplies[1].Payload != "LANG_ta" {
		t.Errorf("Expected payload 'LANG_ta', got '%s'", payload.Message.QuickReplies[1].Payload)
	}
}

func TestBuildWhatsAppPayload_Interactive(t *testing.T) {
	resp := &workflow.Response{
		Text: "pick one",
		Buttons: []workflow.Button{
			{ID: "lang_en", Title: "English"},
			{ID: "lang_ta", Title: "Tamil"},
			{ID: "lang_ml", Title: "Malayalam"},
		},
	}

	payload := buildWhatsAppPayload("9715550000", resp)

	if payload.Type != "interactive" {
		t.Fatalf("Expected interactive payload, got '%s'", payload.Type)
	}
	if payload.MessagingProduct != "whatsapp" || payload.To != "9715550000" {
		t.Errorf("Unexpected envelope fields: %+v", payload)
	}
	if payload.Interactive.Body.Body != "pick one" {
		t.Errorf("Expected body text 'pick one', got '%s'", payload.Interactive.Body.Body)
	}
	if len(payload.Interactive.Action.Buttons) != 3 {
		t.Fatalf("Expected 3 buttons, got %d", len(payload.Interactive.Action.Buttons))
	}
	btn := payload.Interactive.Action.Buttons[0]
	if btn.Type != "reply" || btn.Reply.ID != "lang_en" || btn.Reply.Title != "English" {
		t.Errorf("Unexpected first button: %+v", btn)
	}
}

func TestBuildWhatsAppPayload_PlainText(t *testing.T) {
	payload := buildWhatsAppPayload("9715550000", &workflow.Response{Text: "hello"})

	if payload.Type != "text" {
		t.Fatalf("Expected text payload, got '%s'", payload.Type)
	}
	if payload.Text == nil || payload.Text.Body != "hello" {
		t.Errorf("Unexpected text body: %+v", payload.Text)
	}
	if payload.Interactive != nil {
		t.Error("Expected no interactive section for plain text")
	}
}

func TestFacebookSender_Send(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		var payload messengerPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("Failed to decode payload: %v", err)
		}
		if payload.Recipient.ID != "user-1" {
			t.Errorf("Expected recipient 'user-1', got '%s'", payload.Recipient.ID)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewFacebookSender("token-123", server.URL)
	err := sender.Send(context.Background(), "user-1", &workflow.Response{Text: "hi"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if gotPath != "/me/messages" {
		t.Errorf("Expected path /me/messages, got %s", gotPath)
	}
	if !strings.Contains(gotQuery, "access_token=token-123") {
		t.Errorf("Expected access token in query, got %s", gotQuery)
	}
}

func TestFacebookSender_MissingToken(t *testing.T) {
	sender := NewFacebookSender("", "")
	if err := sender.Send(context.Background(), "user-1", &workflow.Response{Text: "hi"}); err == nil {
		t.Error("Expected error for missing token")
	}
}

func TestWhatsAppSender_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/phone-42/messages" {
			t.Errorf("Expected path /phone-42/messages, got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer wa-token" {
			t.Errorf("Expected bearer auth, got '%s'", auth)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewWhatsAppSender("wa-token", "", "phone-42", server.URL)
	err := sender.Send(context.Background(), "9715550000", &workflow.Response{Text: "hi"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
}

func TestInstagramSender_TokenFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "access_token=page-token") {
			t.Errorf("Expected fallback page token, got query %s", r.URL.RawQuery)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewInstagramSender("", "page-token", server.URL)
	if err := sender.Send(context.Background(), "ig-user", &workflow.Response{Text: "hi"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
}

func TestSender_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad token"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	sender := NewFacebookSender("token", server.URL)
	if err := sender.Send(context.Background(), "user-1", &workflow.Response{Text: "hi"}); err == nil {
		t.Error("Expected error for non-2xx response")
	}
}
