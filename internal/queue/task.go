package queue

import "fmt"

type TaskType string

const (
	TaskTypeScoreIdea   TaskType = "score_idea"
	TaskTypeMirrorAgent TaskType = "mirror_agent"
)

type Task struct {
	TaskType    TaskType
	IdeaID      *int64
	AgentID     *int64
	WorkspaceID *int64
	// TraceParent is the W3C traceparent of the enqueuing request.
	TraceParent string
	Attempt     int
}

func ScoreIdeaTask(workspaceID, ideaID int64) Task {
	return Task{TaskType: TaskTypeScoreIdea, IdeaID: &ideaID, WorkspaceID: &workspaceID}
}

func MirrorAgentTask(workspaceID, agentID int64) Task {
	return Task{TaskType: TaskTypeMirrorAgent, AgentID: &agentID, WorkspaceID: &workspaceID}
}

// NotificationStreamName is the per-user Redis stream the SSE relay tails.
func NotificationStreamName(prefix string, userID int64) string {
	return fmt.Sprintf("%s:user-%d", prefix, userID)
}
