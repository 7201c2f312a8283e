// Package ladder decides whether an agent may perform an action on a
// workspace resource. Permissions are stored on the agent as a JSON object
// keyed by resource, then action, with "*" as a wildcard at either level:
//
//	{"documents": {"create": "allow", "*": "approval"}, "*": "deny"}
//
// The configured level is then capped by the agent's autonomy.
package ladder

import (
	"strings"

	"github.com/tidwall/gjson"

	"cerebrin.app/backend/internal/model"
)

type Resource string

const (
	ResourceDocuments Resource = "documents"
	ResourceIdeas     Resource = "ideas"
	ResourceTickets   Resource = "tickets"
	ResourceMemory    Resource = "memory"
)

type Action string

const (
	ActionRead       Action = "read"
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionPromote    Action = "promote"
	ActionTransition Action = "transition"
)

const wildcard = "*"

var known = map[Resource][]Action{
	ResourceDocuments: {ActionRead, ActionCreate, ActionUpdate, ActionDelete},
	ResourceIdeas:     {ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionPromote},
	ResourceTickets:   {ActionRead, ActionCreate, ActionUpdate, ActionTransition},
	ResourceMemory:    {ActionRead, ActionCreate, ActionUpdate, ActionDelete},
}

// Resources returns the known resources in a stable order.
func Resources() []Resource {
	return []Resource{ResourceDocuments, ResourceIdeas, ResourceTickets, ResourceMemory}
}

// Actions returns the actions defined for r, or nil when r is unknown.
func Actions(r Resource) []Action {
	return known[r]
}

func IsKnown(r Resource, a Action) bool {
	for _, candidate := range known[r] {
		if candidate == a {
			return true
		}
	}
	return false
}

func (a Action) IsWrite() bool {
	return a != ActionRead
}

func rank(d model.Decision) int {
	switch d {
	case model.DecisionAllow:
		return 2
	case model.DecisionApproval:
		return 1
	default:
		return 0
	}
}

func minDecision(a, b model.Decision) model.Decision {
	if rank(a) <= rank(b) {
		return a
	}
	return b
}

// Evaluate returns the decision for agent performing action on resource.
func Evaluate(agent *model.Agent, resource Resource, action Action) model.Decision {
	if agent == nil || !agent.IsActive {
		return model.DecisionDeny
	}

	decision, ok := Lookup(agent.Permissions, resource, action)
	if !ok {
		decision = defaultFor(agent.AutonomyLevel, action)
	}

	if !action.IsWrite() {
		return decision
	}
	return minDecision(decision, capFor(agent.AutonomyLevel, action))
}

// Lookup finds the configured level for resource/action, trying the exact
// rule, then the resource wildcard, then the global wildcard. Values that are
// not a valid level are skipped.
func Lookup(permissions []byte, resource Resource, action Action) (model.Decision, bool) {
	if len(permissions) == 0 || !gjson.ValidBytes(permissions) {
		return "", false
	}
	paths := []string{
		Path(string(resource), string(action)),
		Path(string(resource), wildcard),
		Path(wildcard),
	}
	for _, p := range paths {
		res := gjson.GetBytes(permissions, p)
		if res.Type != gjson.String {
			continue
		}
		if d := model.Decision(res.String()); d.IsValid() {
			return d, true
		}
	}
	return "", false
}

func defaultFor(level model.AutonomyLevel, action Action) model.Decision {
	if !action.IsWrite() {
		return model.DecisionAllow
	}
	switch level {
	case model.AutonomyAutopilot:
		return model.DecisionAllow
	case model.AutonomyAssistant, model.AutonomyCopilot:
		return model.DecisionApproval
	default:
		return model.DecisionDeny
	}
}

func capFor(level model.AutonomyLevel, action Action) model.Decision {
	switch level {
	case model.AutonomyAutopilot:
		return model.DecisionAllow
	case model.AutonomyCopilot:
		if action == ActionDelete {
			return model.DecisionApproval
		}
		return model.DecisionAllow
	case model.AutonomyAssistant:
		return model.DecisionApproval
	default:
		return model.DecisionDeny
	}
}

// Path joins rule segments into a gjson/sjson path, escaping wildcard and
// separator characters so "*" is matched as a literal key.
func Path(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		var b strings.Builder
		for _, r := range s {
			switch r {
			case '*', '?', '.', '\\', '|', '#', '@':
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
		escaped[i] = b.String()
	}
	return strings.Join(escaped, ".")
}

// ForActionKind maps a proposed agent action onto the ladder.
func ForActionKind(kind model.ActionKind) (Resource, Action, bool) {
	switch kind {
	case model.ActionDocumentCreate:
		return ResourceDocuments, ActionCreate, true
	case model.ActionDocumentUpdate:
		return ResourceDocuments, ActionUpdate, true
	case model.ActionDocumentDelete:
		return ResourceDocuments, ActionDelete, true
	case model.ActionIdeaCreate:
		return ResourceIdeas, ActionCreate, true
	case model.ActionIdeaMove:
		return ResourceIdeas, ActionUpdate, true
	case model.ActionIdeaPromote:
		return ResourceIdeas, ActionPromote, true
	case model.ActionTicketCreate:
		return ResourceTickets, ActionCreate, true
	case model.ActionTicketTransition:
		return ResourceTickets, ActionTransition, true
	case model.ActionMemoryWrite:
		return ResourceMemory, ActionCreate, true
	}
	return "", "", false
}
