package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cerebrin.app/backend/internal/model"
)

var (
	ErrUnknownAction  = errors.New("unknown action kind")
	ErrInvalidPayload = errors.New("invalid action payload")
)

// RefID is an entity id inside an action payload. Models emit ids as either
// JSON numbers or strings; both decode, and it always encodes as a string.
type RefID int64

func (r *RefID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("id must be an integer: %w", err)
	}
	*r = RefID(v)
	return nil
}

func (r RefID) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(r), 10))
}

type DocumentCreatePayload struct {
	Kind    model.DocumentKind `json:"kind"`
	Title   string             `json:"title"`
	Content string             `json:"content"`
}

type DocumentUpdatePayload struct {
	DocumentID RefID                 `json:"document_id"`
	Title      *string               `json:"title,omitempty"`
	Content    *string               `json:"content,omitempty"`
	Status     *model.DocumentStatus `json:"status,omitempty"`
}

type DocumentDeletePayload struct {
	DocumentID RefID `json:"document_id"`
}

type IdeaCreatePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type IdeaMovePayload struct {
	IdeaID RefID           `json:"idea_id"`
	Stage  model.IdeaStage `json:"stage"`
}

type IdeaPromotePayload struct {
	IdeaID RefID `json:"idea_id"`
}

type TicketCreatePayload struct {
	Subject  string               `json:"subject"`
	Body     string               `json:"body"`
	Priority model.TicketPriority `json:"priority,omitempty"`
}

type TicketTransitionPayload struct {
	TicketID RefID              `json:"ticket_id"`
	Status   model.TicketStatus `json:"status"`
}

type MemoryWritePayload struct {
	Content string `json:"content"`
}

// ParsePayload decodes and shape-checks the payload for kind. It does not
// look anything up; referenced rows are checked by the architect.
func ParsePayload(kind model.ActionKind, raw json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage(`{}`)
	}

	switch kind {
	case model.ActionDocumentCreate:
		var p DocumentCreatePayload
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}
		if p.Kind == "" {
			p.Kind = model.DocumentKindNote
		}
		if !p.Kind.IsValid() {
			return nil, payloadError("kind %q is not a document kind", p.Kind)
		}
		if strings.TrimSpace(p.Title) == "" {
			return nil, payloadError("title is required")
		}
		return p, nil

	case model.ActionDocumentUpdate:
		var p DocumentUpdatePayload
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}
		if p.DocumentID == 0 {
			return nil, payloadError("document_id is required")
		}
		if p.Title == nil && p.Content == nil && p.Status == nil {
			return nil, payloadError("nothing to update")
		}
		if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
			return nil, payloadError("title cannot be empty")
		}
		if p.Status != nil && !p.Status.IsValid() {
			return nil, payloadError("status %q is not a document status", *p.Status)
		}
		return p, nil

	case model.ActionDocumentDelete:
		var p DocumentDeletePayload
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}
		if p.DocumentID == 0 {
			return nil, payloadError("document_id is required")
		}
		return p, nil

	case model.ActionIdeaCreate:
		var p IdeaCreatePayload
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}
		if strings.TrimSpace(p.Title) == "" {
			return nil, payloadError("title is required")
		}
		return p, nil

	case model.ActionIdeaMove:
		var p IdeaMovePayload
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}
		if p.IdeaID == 0 {
			return nil, payloadError("idea_id is required")
		}
		if !p.Stage.IsValid() || p.Stage == model.IdeaStagePromoted {
			return nil, payloadError("stage %q cannot be reached by a move", p.Stage)
		}
		return p, nil

	case model.ActionIdeaPromote:
		var p IdeaPromotePayload
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}
		if p.IdeaID == 0 {
			return nil, payloadError("idea_id is required")
		}
		return p, nil

	case model.ActionTicketCreate:
		var p TicketCreatePayload
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}
		if strings.TrimSpace(p.Subject) == "" {
			return nil, payloadError("subject is required")
		}
		if p.Priority == "" {
			p.Priority = model.TicketPriorityNormal
		}
		if !p.Priority.IsValid() {
			return nil, payloadError("priority %q is not a ticket priority", p.Priority)
		}
		return p, nil

	case model.ActionTicketTransition:
		var p TicketTransitionPayload
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}
		if p.TicketID == 0 {
			return nil, payloadError("ticket_id is required")
		}
		if !p.Status.IsValid() {
			return nil, payloadError("status %q is not a ticket status", p.Status)
		}
		return p, nil

	case model.ActionMemoryWrite:
		var p MemoryWritePayload
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}
		if strings.TrimSpace(p.Content) == "" {
			return nil, payloadError("content is required")
		}
		if len(p.Content) > maxMemoryContent {
			return nil, payloadError("content exceeds %d bytes", maxMemoryContent)
		}
		return p, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
}

func decodePayload(raw json.RawMessage, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func payloadError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPayload, fmt.Sprintf(format, args...))
}
