package service

import (
	"encoding/json"
	"time"

	"flowtasks/internal/domain"
)

// ChangeSet is the result of diffing a task against a partial update: the
// history entries to append plus the side signals that drive extra
// notifications. Entries share acting user and timestamp.
type ChangeSet struct {
	Entries         []*domain.TaskHistory
	StatusChanged   bool
	AssigneeChanged bool
}

// ComputeChanges diffs task against patch and returns the mutated copy plus
// the change set. It is a pure function: the input task is not modified and
// nothing is persisted here.
//
// A nil patch field is left untouched and produces no entry; a field equal to
// the current value produces no entry; a changed field produces exactly one
// entry with stringified old/new values ("Unassigned"/"None" stand in for
// absent optionals). Attachments are replaced but never tracked. UpdatedAt is
// set to now regardless of whether anything changed.
func ComputeChanges(task *domain.Task, patch domain.TaskPatch, userID string, now time.Time) (*domain.Task, *ChangeSet) {
	mutated := *task
	mutated.Labels = append([]string(nil), task.Labels...)
	mutated.Attachments = append([]string(nil), task.Attachments...)

	cs := &ChangeSet{}
	record := func(field string, oldVal, newVal *string) {
		cs.Entries = append(cs.Entries, &domain.TaskHistory{
			TaskID:    task.ID,
			UserID:    userID,
			Field:     field,
			OldValue:  oldVal,
			NewValue:  newVal,
			CreatedAt: now,
		})
	}

	if patch.Summary != nil && *patch.Summary != task.Summary {
		record(domain.FieldSummary, strPtr(task.Summary), strPtr(*patch.Summary))
		mutated.Summary = *patch.Summary
	}

	if patch.Description != nil {
		newDesc := optionalFromPatch(*patch.Description)
		if !strPtrEqual(newDesc, task.Description) {
			record(domain.FieldDescription, task.Description, newDesc)
			mutated.Description = newDesc
		}
	}

	if patch.Type != nil && *patch.Type != task.Type {
		record(domain.FieldType, strPtr(task.Type.Display()), strPtr(patch.Type.Display()))
		mutated.Type = *patch.Type
	}

	if patch.Status != nil && *patch.Status != task.Status {
		record(domain.FieldStatus, strPtr(task.Status.Display()), strPtr(patch.Status.Display()))
		mutated.Status = *patch.Status
		cs.StatusChanged = true
	}

	if patch.Priority != nil && *patch.Priority != task.Priority {
		record(domain.FieldPriority, strPtr(task.Priority.Display()), strPtr(patch.Priority.Display()))
		mutated.Priority = *patch.Priority
	}

	if patch.AssigneeID != nil {
		newAssignee := optionalFromPatch(*patch.AssigneeID)
		if !strPtrEqual(newAssignee, task.AssigneeID) {
			record(domain.FieldAssignee,
				strPtr(orSentinel(task.AssigneeID, domain.ValueUnassigned)),
				strPtr(orSentinel(newAssignee, domain.ValueUnassigned)))
			mutated.AssigneeID = newAssignee
			mutated.Assignee = nil
			cs.AssigneeChanged = true
		}
	}

	if patch.DueDate != nil {
		var newDue *time.Time
		if !patch.DueDate.IsZero() {
			d := *patch.DueDate
			newDue = &d
		}
		if !timePtrEqual(newDue, task.DueDate) {
			record(domain.FieldDueDate, strPtr(timeValue(task.DueDate)), strPtr(timeValue(newDue)))
			mutated.DueDate = newDue
		}
	}

	if patch.Labels != nil {
		if !stringsEqual(patch.Labels, task.Labels) {
			record(domain.FieldLabels, strPtr(labelsValue(task.Labels)), strPtr(labelsValue(patch.Labels)))
			mutated.Labels = append([]string(nil), patch.Labels...)
		}
	}

	if patch.SprintID != nil {
		newSprint := optionalFromPatch(*patch.SprintID)
		if !strPtrEqual(newSprint, task.SprintID) {
			record(domain.FieldSprint,
				strPtr(orSentinel(task.SprintID, domain.ValueNone)),
				strPtr(orSentinel(newSprint, domain.ValueNone)))
			mutated.SprintID = newSprint
		}
	}

	if patch.EpicID != nil {
		newEpic := optionalFromPatch(*patch.EpicID)
		if !strPtrEqual(newEpic, task.EpicID) {
			record(domain.FieldEpic,
				strPtr(orSentinel(task.EpicID, domain.ValueNone)),
				strPtr(orSentinel(newEpic, domain.ValueNone)))
			mutated.EpicID = newEpic
		}
	}

	if patch.ParentID != nil {
		newParent := optionalFromPatch(*patch.ParentID)
		if !strPtrEqual(newParent, task.ParentID) {
			record(domain.FieldParent,
				strPtr(orSentinel(task.ParentID, domain.ValueNone)),
				strPtr(orSentinel(newParent, domain.ValueNone)))
			mutated.ParentID = newParent
		}
	}

	// Attachments are updated without an audit entry.
	if patch.Attachments != nil && !stringsEqual(patch.Attachments, task.Attachments) {
		mutated.Attachments = append([]string(nil), patch.Attachments...)
	}

	mutated.UpdatedAt = &now
	return &mutated, cs
}

func strPtr(s string) *string { return &s }

// optionalFromPatch maps the clear convention: an empty string in a patch
// clears the optional field (stored as NULL).
func optionalFromPatch(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func orSentinel(v *string, sentinel string) string {
	if v == nil {
		return sentinel
	}
	return *v
}

func timeValue(t *time.Time) string {
	if t == nil {
		return domain.ValueNone
	}
	return t.UTC().Format(time.RFC3339)
}

// labelsValue is the canonical serialized form used for label comparison in
// history entries. Comparison itself is order-sensitive over the raw lists.
func labelsValue(labels []string) string {
	if len(labels) == 0 {
		return "[]"
	}
	b, err := json.Marshal(labels)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
