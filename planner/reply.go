package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/hupe1980/agentgraph/internal/util"
)

// Reply statuses the model may return.
const (
	StatusInputRequired = "input_required"
	StatusCompleted     = "completed"
	StatusError         = "error"
)

// Task is one step of a plan.
type Task struct {
	ID          int    `json:"id" description:"1-based position of the task in the plan"`
	Description string `json:"description" description:"Self-contained instruction for a single specialised agent"`
	Status      string `json:"status,omitempty" description:"Always pending in a new plan"`
}

// TaskList is the plan produced for a request.
type TaskList struct {
	OriginalQuery string `json:"original_query,omitempty" description:"The request as the user phrased it"`
	Tasks         []Task `json:"tasks" description:"Ordered tasks; each task may use the results of the previous ones"`
}

// Reply is the JSON object the model is asked to produce.
type Reply struct {
	Status   string    `json:"status" enum:"input_required,completed,error"`
	Question string    `json:"question,omitempty" description:"Clarifying question or short error. Empty when status is completed"`
	Content  *TaskList `json:"content,omitempty" description:"The plan. Present when status is completed"`
}

// ErrInvalidReply is returned when the model output cannot be read as a Reply.
var ErrInvalidReply = errors.New("invalid planner reply")

var replySchema = util.CreateSchema(Reply{})

// ParseReply decodes model output into a Reply. Code fences and surrounding
// prose are stripped and malformed JSON is repaired before decoding.
func ParseReply(text string) (*Reply, error) {
	raw := extractObject(text)
	if raw == "" {
		return nil, fmt.Errorf("%w: no JSON object in output", ErrInvalidReply)
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(raw)
		if repairErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReply, repairErr)
		}
		if err := json.Unmarshal([]byte(repaired), &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
		}
		raw = repaired
	}

	if err := util.Validate(obj, replySchema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}

	var reply Reply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	return &reply, nil
}

func extractObject(text string) string {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	if start < 0 {
		return ""
	}
	if end := strings.LastIndex(text, "}"); end > start {
		return text[start : end+1]
	}
	// Truncated output; let the repair close it.
	return text[start:]
}

// Descriptions returns the non-empty task descriptions in plan order.
func (l *TaskList) Descriptions() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.Tasks))
	for _, t := range l.Tasks {
		if d := strings.TrimSpace(t.Description); d != "" {
			out = append(out, d)
		}
	}
	return out
}

// Data converts the task list into the structured payload carried by a
// data part.
func (l *TaskList) Data() (map[string]any, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeTaskList reads a task list from a data payload. It returns false
// when the payload is not a task list.
func DecodeTaskList(data map[string]any) (*TaskList, bool) {
	if _, ok := data["tasks"]; !ok {
		return nil, false
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, false
	}
	var l TaskList
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, false
	}
	return &l, true
}
