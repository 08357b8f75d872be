package chat

import (
	"context"
	"testing"
	"time"

	"indastreet/models"
	"indastreet/services/enforcement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memMessages struct{ msgs []models.ChatMessage }

func (m *memMessages) Create(_ context.Context, msg *models.ChatMessage) error {
	m.msgs = append(m.msgs, *msg)
	return nil
}

func (m *memMessages) ListSince(_ context.Context, roomID string, since time.Time, limit int64) ([]models.ChatMessage, error) {
	out := []models.ChatMessage{}
	for _, msg := range m.msgs {
		if msg.RoomID == roomID && msg.CreatedAt.After(since) && int64(len(out)) < limit {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memMessages) IsParticipant(_ context.Context, roomID, userID string) (bool, error) {
	for _, msg := range m.msgs {
		if msg.RoomID == roomID && (msg.SenderID == userID || msg.RecipientID == userID) {
			return true, nil
		}
	}
	return false, nil
}

type staticRestrictions map[string]bool

func (s staticRestrictions) IsAccountRestricted(_ context.Context, id string) (bool, error) {
	return s[id], nil
}

type mockEnforcement struct{ mock.Mock }

func (m *mockEnforcement) ValidateAndEnforce(ctx context.Context, msg string, s enforcement.Sender) (enforcement.EnforcementResult, error) {
	args := m.Called(ctx, msg, s)
	return args.Get(0).(enforcement.EnforcementResult), args.Error(1)
}

func (m *mockEnforcement) ViolationsForReview(ctx context.Context, limit int64) ([]models.ContactViolation, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.ContactViolation), args.Error(1)
}

func (m *mockEnforcement) MarkReviewed(ctx context.Context, id, adminID, action string) error {
	return m.Called(ctx, id, adminID, action).Error(0)
}

func newTestChat(t *testing.T, restricted staticRestrictions) (*DefaultChatService, *memMessages, *mockEnforcement) {
	t.Helper()
	sealer, err := NewSealer("test-secret")
	require.NoError(t, err)
	store := &memMessages{}
	enf := &mockEnforcement{}
	svc, err := NewChatService(store, restricted, enf, sealer, nil)
	require.NoError(t, err)
	return svc, store, enf
}

func TestSealer_RoundTrip(t *testing.T) {
	s, err := NewSealer("k")
	require.NoError(t, err)

	ct, err := s.Seal("hello", "room-1")
	require.NoError(t, err)
	assert.NotContains(t, string(ct), "hello")

	got, err := s.Open(ct, "room-1")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = s.Open(ct, "room-2")
	assert.Error(t, err)
	_, err = s.Open([]byte{1, 2}, "room-1")
	assert.ErrorIs(t, err, ErrCiphertextTooShort)

	_, err = NewSealer("")
	assert.Error(t, err)
}

func TestSend_StoresEncrypted(t *testing.T) {
	svc, store, enf := newTestChat(t, staticRestrictions{})
	enf.On("ValidateAndEnforce", mock.Anything, "See you at 3pm", mock.Anything).
		Return(enforcement.EnforcementResult{Allowed: true}, nil)

	res, err := svc.Send(context.Background(), "u1", models.SendMessageRequest{
		RoomID: "room-1", SenderRole: models.RoleUser, RecipientID: "p1", Body: "See you at 3pm",
	})
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	require.NotNil(t, res.Message)
	assert.Equal(t, "See you at 3pm", res.Message.Body)

	require.Len(t, store.msgs, 1)
	assert.Empty(t, store.msgs[0].Body)
	assert.NotEmpty(t, store.msgs[0].Ciphertext)

	for _, reader := range []string{"u1", "p1"} {
		msgs, err := svc.Poll(context.Background(), reader, "room-1", time.Time{}, 0)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "See you at 3pm", msgs[0].Body)
	}
}

func TestPoll_RejectsOutsiders(t *testing.T) {
	svc, store, _ := newTestChat(t, staticRestrictions{})
	sealed, err := svc.Sealer.Seal("meet at the spa", "room-1")
	require.NoError(t, err)
	store.msgs = append(store.msgs, models.ChatMessage{
		ID: "m1", RoomID: "room-1", SenderID: "u1", RecipientID: "p1", Ciphertext: sealed, CreatedAt: time.Now(),
	})

	_, err = svc.Poll(context.Background(), "u2", "room-1", time.Time{}, 0)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = svc.Poll(context.Background(), "u2", "empty-room", time.Time{}, 0)
	assert.ErrorIs(t, err, ErrNotParticipant)

	msgs, err := svc.Poll(context.Background(), "", "room-1", time.Time{}, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestSend_Blocked(t *testing.T) {
	svc, store, enf := newTestChat(t, staticRestrictions{})
	enf.On("ValidateAndEnforce", mock.Anything, mock.Anything, mock.Anything).
		Return(enforcement.EnforcementResult{Allowed: false, WarningMessage: enforcement.WarningMessage}, nil)

	res, err := svc.Send(context.Background(), "u1", models.SendMessageRequest{
		RoomID: "room-1", SenderRole: models.RoleUser, Body: "call me at 081234567890",
	})
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, enforcement.WarningMessage, res.WarningMessage)
	assert.Empty(t, store.msgs)
}

func TestSend_RestrictedAccount(t *testing.T) {
	svc, _, enf := newTestChat(t, staticRestrictions{"u1": true})

	_, err := svc.Send(context.Background(), "u1", models.SendMessageRequest{RoomID: "r", Body: "hi"})
	assert.ErrorIs(t, err, ErrAccountRestricted)
	enf.AssertNotCalled(t, "ValidateAndEnforce", mock.Anything, mock.Anything, mock.Anything)
}

func TestPoll_SkipsUndecryptable(t *testing.T) {
	svc, store, _ := newTestChat(t, staticRestrictions{})
	store.msgs = append(store.msgs, models.ChatMessage{ID: "bad", RoomID: "r", SenderID: "u1", Ciphertext: []byte("garbage"), CreatedAt: time.Now()})

	msgs, err := svc.Poll(context.Background(), "u1", "r", time.Time{}, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
