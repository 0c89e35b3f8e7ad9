package model

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/baliblissed-backend/internal/validation"
)

func userMessage(text string) ChatMessagePayload {
	return ChatMessagePayload{Role: "user", Parts: []map[string]string{{"text": text}}}
}

func TestNewQueryRequest(t *testing.T) {
	req, err := NewQueryRequest(QueryPayload{
		Query: `Best "beach" in Bali?`,
		History: []ChatMessagePayload{
			userMessage("Hello"),
			{Role: "assistant", Parts: []map[string]string{{"text": "Hi!"}}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Best beach in Bali?", req.Query())
	assert.Equal(t, 2, req.HistoryLen())
	assert.Equal(t, "assistant", req.History()[1].Role())
	assert.Equal(t, "Hello", req.History()[0].Parts()[0]["text"])
}

func TestNewQueryRequest_MissingHistory(t *testing.T) {
	req, err := NewQueryRequest(QueryPayload{Query: "Visa rules?"})
	require.NoError(t, err)
	assert.Equal(t, 0, req.HistoryLen())
}

func TestNewQueryRequest_HistoryBoundary(t *testing.T) {
	history := make([]ChatMessagePayload, validation.MaxHistoryLength)
	for i := range history {
		history[i] = userMessage("hi")
	}

	req, err := NewQueryRequest(QueryPayload{Query: "q", History: history})
	require.NoError(t, err)
	assert.Equal(t, validation.MaxHistoryLength, req.HistoryLen())

	_, err = NewQueryRequest(QueryPayload{Query: "q", History: append(history, userMessage("one more"))})
	require.Error(t, err)
	assert.Equal(t, "History must not contain more than 50 items", err.Error())
}

func TestNewQueryRequest_InvalidRoles(t *testing.T) {
	_, err := NewQueryRequest(QueryPayload{
		Query: "q",
		History: []ChatMessagePayload{
			userMessage("ok"),
			{Role: "admin", Parts: []map[string]string{}},
			{Role: "USER", Parts: []map[string]string{{"text": "hi"}}},
		},
	})
	require.Error(t, err)

	var fieldErrors validation.Errors
	require.True(t, errors.As(err, &fieldErrors))
	require.Len(t, fieldErrors, 2)
	assert.Equal(t, "history[1].role", fieldErrors[0].Field)
	assert.Equal(t, "history[2].role", fieldErrors[1].Field)
}

func TestChatMessage_PartsIsADeepCopy(t *testing.T) {
	msg, err := NewChatMessage("history[0]", userMessage("original"))
	require.NoError(t, err)

	parts := msg.Parts()
	parts[0]["text"] = "changed"

	assert.Equal(t, "original", msg.Parts()[0]["text"])
}

func TestNewQueryRequest_MissingParts(t *testing.T) {
	_, err := NewQueryRequest(QueryPayload{
		Query: "q",
		History: []ChatMessagePayload{
			{Role: "user"},
			{Role: "model", Parts: []map[string]string{}},
			{Role: "bot"},
		},
	})
	require.Error(t, err)

	var fieldErrors validation.Errors
	require.True(t, errors.As(err, &fieldErrors))
	require.Len(t, fieldErrors, 3)
	assert.Equal(t, "history[0].parts", fieldErrors[0].Field)
	assert.Equal(t, "Parts is required", fieldErrors[0].Message)
	assert.Equal(t, "history[2].role", fieldErrors[1].Field)
	assert.Equal(t, "history[2].parts", fieldErrors[2].Field)
}

func TestBuildHistory_ReturnsUnexpectedErrors(t *testing.T) {
	failure := errors.New("parts store unavailable")
	calls := 0

	history, fieldErrors, err := buildHistory(
		[]ChatMessagePayload{userMessage("one"), userMessage("two"), userMessage("three")},
		func(prefix string, p ChatMessagePayload) (ChatMessage, error) {
			calls++
			if prefix == "history[1]" {
				return ChatMessage{}, failure
			}
			return NewChatMessage(prefix, p)
		},
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.Contains(t, err.Error(), "invalid history entry 1")
	assert.Nil(t, history)
	assert.Nil(t, fieldErrors)
	assert.Equal(t, 2, calls)

	var asFieldErrors validation.Errors
	assert.False(t, errors.As(err, &asFieldErrors))
}

func TestBuildHistory_CollectsSingleFieldErrors(t *testing.T) {
	_, fieldErrors, err := buildHistory(
		[]ChatMessagePayload{userMessage("one")},
		func(prefix string, _ ChatMessagePayload) (ChatMessage, error) {
			return ChatMessage{}, &validation.FieldError{Field: prefix + ".role", Message: "Role is required"}
		},
	)

	require.NoError(t, err)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "history[0].role", fieldErrors[0].Field)
}
