package board

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sandeepkv93/apolo/internal/model"
)

func (b *Board) ExportTasks(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b.Tasks()); err != nil {
		return fmt.Errorf("board: export tasks: %w", err)
	}
	return nil
}

// ImportTasks appends a JSON array of tasks. Input that is not an array of
// tasks is rejected and the board is left as it was. Entries without a title
// are skipped. Missing or clashing task and subtask ids, unknown enums and empty histories are
// repaired.
func (b *Board) ImportTasks(r io.Reader) (int, error) {
	var incoming []model.Task
	if err := json.NewDecoder(r).Decode(&incoming); err != nil {
		return 0, fmt.Errorf("board: import tasks: %w", err)
	}
	seen := make(map[string]bool, len(b.tasks)+len(incoming))
	for _, t := range b.tasks {
		seen[t.ID] = true
	}
	now := model.Millis(b.now())
	added := make([]model.Task, 0, len(incoming))
	for _, t := range incoming {
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			continue
		}
		if strings.TrimSpace(t.ID) == "" || seen[t.ID] {
			t.ID = b.newID()
		}
		seen[t.ID] = true
		if !t.Status.IsValid() {
			t.Status = model.StatusTodo
		}
		if !t.Kind.IsValid() {
			t.Kind = model.KindTask
		}
		if t.Priority != "" && !t.Priority.IsValid() {
			t.Priority = model.PriorityNormal
		}
		if t.CreatedAt <= 0 {
			t.CreatedAt = now
		}
		if t.DueDate != "" {
			if _, err := model.ParseDate(t.DueDate); err != nil {
				t.DueDate = ""
			}
		}
		t.Subtasks = b.repairSubtasks(t.Subtasks)
		if len(t.History) == 0 {
			t.History = []model.HistoryEntry{{Timestamp: now, Action: "imported"}}
		}
		added = append(added, t.Clone())
	}
	if len(added) == 0 {
		return 0, nil
	}
	b.tasks = append(b.tasks, added...)
	b.mirrorTasks()
	return len(added), nil
}

func (b *Board) repairSubtasks(in []model.SubTask) []model.SubTask {
	out := make([]model.SubTask, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, st := range in {
		if strings.TrimSpace(st.ID) == "" || seen[st.ID] {
			st.ID = b.newID()
		}
		seen[st.ID] = true
		out = append(out, st)
	}
	return out
}
