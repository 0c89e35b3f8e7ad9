package model

import (
	"fmt"
	"maps"

	"github.com/pkg/errors"

	"github.com/deppfellow/baliblissed-backend/internal/validation"
)

// ChatMessagePayload is one entry of the conversation history.
//
// Example:
//
//	{ "role": "user", "parts": [{ "text": "Hello, how are you?" }] }
type ChatMessagePayload struct {
	Role  string              `json:"role"`
	Parts []map[string]string `json:"parts"`
}

// ChatMessage is a validated history entry.
type ChatMessage struct {
	role  string
	parts []map[string]string
}

// NewChatMessage validates the role and the presence of parts, then copies
// the parts. prefix is the entry path used in field names, e.g. "history[3]"
// yields "history[3].role" and "history[3].parts".
func NewChatMessage(prefix string, p ChatMessagePayload) (ChatMessage, error) {
	var fieldErrors validation.Errors

	role, fe := validation.Role(prefix+".role", p.Role)
	fieldErrors.Add(fe)
	fieldErrors.Add(validation.Parts(prefix+".parts", p.Parts))

	if err := fieldErrors.Err(); err != nil {
		return ChatMessage{}, err
	}

	return ChatMessage{role: role, parts: cloneParts(p.Parts)}, nil
}

func (m ChatMessage) Role() string { return m.role }

// Parts returns a deep copy of the message parts.
func (m ChatMessage) Parts() []map[string]string { return cloneParts(m.parts) }

// QueryPayload is the body of POST /api/answer-query.
type QueryPayload struct {
	Query   string               `json:"query"`
	History []ChatMessagePayload `json:"history"`
}

// QueryRequest is a validated conversational query.
type QueryRequest struct {
	query   string
	history []ChatMessage
}

// NewQueryRequest sanitizes the query and validates the history: at most
// validation.MaxHistoryLength entries, each with an allowed role and a parts
// list. A missing history is the same as an empty one.
func NewQueryRequest(p QueryPayload) (QueryRequest, error) {
	var fieldErrors validation.Errors

	query, fe := validation.Query(p.Query)
	fieldErrors.Add(fe)

	var history []ChatMessage
	if fe := validation.History(p.History); fe != nil {
		fieldErrors.Add(fe)
	} else {
		entries, entryErrors, err := buildHistory(p.History, NewChatMessage)
		if err != nil {
			return QueryRequest{}, err
		}
		history = entries
		fieldErrors = append(fieldErrors, entryErrors...)
	}

	if err := fieldErrors.Err(); err != nil {
		return QueryRequest{}, err
	}

	return QueryRequest{query: query, history: history}, nil
}

// buildHistory converts every entry with newMessage. Field violations of all
// entries are collected; any other failure aborts and is returned as is.
func buildHistory(
	entries []ChatMessagePayload,
	newMessage func(prefix string, p ChatMessagePayload) (ChatMessage, error),
) ([]ChatMessage, validation.Errors, error) {
	history := make([]ChatMessage, 0, len(entries))
	var fieldErrors validation.Errors

	for i, entry := range entries {
		msg, err := newMessage(fmt.Sprintf("history[%d]", i), entry)
		if err == nil {
			history = append(history, msg)
			continue
		}

		var entryErrors validation.Errors
		var fe *validation.FieldError
		switch {
		case errors.As(err, &entryErrors):
			fieldErrors = append(fieldErrors, entryErrors...)
		case errors.As(err, &fe):
			fieldErrors.Add(fe)
		default:
			return nil, nil, errors.Wrapf(err, "invalid history entry %d", i)
		}
	}

	return history, fieldErrors, nil
}

func (r QueryRequest) Query() string { return r.query }

// HistoryLen is the number of messages in the conversation history.
func (r QueryRequest) HistoryLen() int { return len(r.history) }

// History returns a copy of the conversation history.
func (r QueryRequest) History() []ChatMessage {
	out := make([]ChatMessage, len(r.history))
	copy(out, r.history)
	return out
}

// QueryResponse is returned by POST /api/answer-query.
type QueryResponse struct {
	Answer string `json:"answer"`
}

func cloneParts(parts []map[string]string) []map[string]string {
	out := make([]map[string]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, maps.Clone(part))
	}
	return out
}
