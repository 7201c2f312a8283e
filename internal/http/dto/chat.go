package dto

import (
	"encoding/json"

	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/service"
)

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ActionOutcomeResponse struct {
	Action    model.ActionKind     `json:"action"`
	Decision  model.Decision       `json:"decision"`
	RequestID *int64               `json:"request_id,omitempty,string"`
	Status    *model.RequestStatus `json:"status,omitempty"`
	Result    json.RawMessage      `json:"result,omitempty"`
	Error     *string              `json:"error,omitempty"`
}

type ChatResponse struct {
	Reply          string                  `json:"reply"`
	Outcomes       []ActionOutcomeResponse `json:"outcomes"`
	MirrorEnqueued bool                    `json:"mirror_enqueued"`
}

func ToChatResponse(r *service.ChatResult) ChatResponse {
	outcomes := make([]ActionOutcomeResponse, len(r.Outcomes))
	for i, o := range r.Outcomes {
		outcomes[i] = ActionOutcomeResponse(o)
	}
	return ChatResponse{
		Reply:          r.Reply,
		Outcomes:       outcomes,
		MirrorEnqueued: r.MirrorEnqueued,
	}
}
