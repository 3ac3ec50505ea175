package app

import (
	"errors"
	"testing"

	"gopkg.in/telebot.v3"
)

type mockTelegramClient struct {
	sendFn func(chatID int64, text string) error

	chatIDs []int64
	texts   []string
}

func (m *mockTelegramClient) SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error {
	m.chatIDs = append(m.chatIDs, recipientChatID)
	m.texts = append(m.texts, text)
	if m.sendFn != nil {
		return m.sendFn(recipientChatID, text)
	}
	return nil
}

func TestDispatcher_SendToExplicitTarget(t *testing.T) {
	client := &mockTelegramClient{}
	d := NewDispatcher(client, -100111, newTestLogger(), &stubMetrics{})

	if ok := d.Send("-100222", "hello"); !ok {
		t.Fatal("Send() = false, want true")
	}
	if len(client.chatIDs) != 1 || client.chatIDs[0] != -100222 {
		t.Errorf("sent to %v, want [-100222]", client.chatIDs)
	}
}

func TestDispatcher_EmptyTargetFallsBackToDefault(t *testing.T) {
	client := &mockTelegramClient{}
	d := NewDispatcher(client, -100111, newTestLogger(), &stubMetrics{})

	if ok := d.Send("", "hello"); !ok {
		t.Fatal("Send() = false, want true")
	}
	if len(client.chatIDs) != 1 || client.chatIDs[0] != -100111 {
		t.Errorf("sent to %v, want default [-100111]", client.chatIDs)
	}
}

func TestDispatcher_MalformedTargetFallsBackToDefault(t *testing.T) {
	client := &mockTelegramClient{}
	d := NewDispatcher(client, -100111, newTestLogger(), &stubMetrics{})

	if ok := d.Send("@channel_name", "hello"); !ok {
		t.Fatal("Send() = false, want true")
	}
	if len(client.chatIDs) != 1 || client.chatIDs[0] != -100111 {
		t.Errorf("sent to %v, want default [-100111]", client.chatIDs)
	}
}

func TestDispatcher_DeliveryFailureReturnsFalse(t *testing.T) {
	client := &mockTelegramClient{
		sendFn: func(chatID int64, text string) error {
			return errors.New("telegram: Bad Gateway")
		},
	}
	metrics := &stubMetrics{}
	d := NewDispatcher(client, -100111, newTestLogger(), metrics)

	if ok := d.Send("", "hello"); ok {
		t.Fatal("Send() = true, want false on delivery failure")
	}
	if len(client.chatIDs) != 1 {
		t.Errorf("attempts = %d, want exactly 1 (no retry inside the dispatcher)", len(client.chatIDs))
	}
	if metrics.notifFailed != 1 {
		t.Errorf("failed counter = %d, want 1", metrics.notifFailed)
	}
}

func TestDispatcher_NoTargetAndNoDefault(t *testing.T) {
	client := &mockTelegramClient{}
	d := NewDispatcher(client, 0, newTestLogger(), &stubMetrics{})

	if ok := d.Send("", "hello"); ok {
		t.Fatal("Send() = true, want false when no chat can be resolved")
	}
	if len(client.chatIDs) != 0 {
		t.Errorf("attempts = %d, want 0", len(client.chatIDs))
	}
}

func TestDispatcher_NilClient(t *testing.T) {
	d := NewDispatcher(nil, -100111, newTestLogger(), &stubMetrics{})

	if ok := d.Send("", "hello"); ok {
		t.Fatal("Send() = true, want false when the bot never initialized")
	}
}
