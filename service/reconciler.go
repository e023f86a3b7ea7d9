package service

import (
	"time"

	"github.com/Euroteck-developer/Reminder-App/types"
)

// DiffAssignees partitions the previous and submitted assignee sets.
// Duplicates are dropped and input order is kept, so toAdd and toRetain
// follow next while toRemove follows old.
func DiffAssignees(old, next []int64) (toAdd, toRetain, toRemove []int64) {
	inOld := make(map[int64]bool, len(old))
	for _, id := range old {
		inOld[id] = true
	}
	inNext := make(map[int64]bool, len(next))
	for _, id := range next {
		if inNext[id] {
			continue
		}
		inNext[id] = true
		if inOld[id] {
			toRetain = append(toRetain, id)
		} else {
			toAdd = append(toAdd, id)
		}
	}
	seen := make(map[int64]bool, len(old))
	for _, id := range old {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !inNext[id] {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRetain, toRemove
}

// ClassifyAdded splits incoming assignees into truly new users and users
// whose latest history entry on the task is Lost.
func ClassifyAdded(toAdd []int64, latest map[int64]types.HistoryStatus) (trulyNew, reactivated []int64) {
	for _, id := range toAdd {
		if latest[id] == types.HistoryLost {
			reactivated = append(reactivated, id)
		} else {
			trulyNew = append(trulyNew, id)
		}
	}
	return trulyNew, reactivated
}

// Reconcile computes the delta of one reconciliation pass. latest must hold
// the latest history status of every member of the submitted set that is
// not currently assigned; it is read before any write of the pass.
func Reconcile(old, next []int64, latest map[int64]types.HistoryStatus) types.AssignmentDelta {
	toAdd, toRetain, toRemove := DiffAssignees(old, next)
	trulyNew, reactivated := ClassifyAdded(toAdd, latest)
	return types.AssignmentDelta{
		Added:       trulyNew,
		Reactivated: reactivated,
		Retained:    toRetain,
		Removed:     toRemove,
	}
}

// Pass identifies one reconciliation pass: every row it writes shares the
// actor, the timestamp and the change id.
type Pass struct {
	TaskID   int64
	Actor    int64
	At       time.Time
	ChangeID string
}

// HistoryEntries returns the rows a pass appends, tagged New, Old, Lost and
// Reassigned in that order.
func HistoryEntries(d types.AssignmentDelta, p Pass) []types.HistoryEntry {
	entries := make([]types.HistoryEntry, 0, len(d.Added)+len(d.Retained)+len(d.Removed)+len(d.Reactivated))
	add := func(ids []int64, status types.HistoryStatus) {
		for _, id := range ids {
			entries = append(entries, types.HistoryEntry{
				TaskID:    p.TaskID,
				UserID:    id,
				Status:    status,
				ChangedBy: p.Actor,
				ChangedAt: p.At,
				ChangeID:  p.ChangeID,
			})
		}
	}
	add(d.Added, types.HistoryNew)
	add(d.Retained, types.HistoryOld)
	add(d.Removed, types.HistoryLost)
	add(d.Reactivated, types.HistoryReassigned)
	return entries
}

// AssigneeRows returns the task_assignees rows to insert: truly new and
// reactivated users alike.
func AssigneeRows(d types.AssignmentDelta, p Pass) []types.TaskAssignee {
	rows := make([]types.TaskAssignee, 0, len(d.Added)+len(d.Reactivated))
	actor := p.Actor
	for _, ids := range [][]int64{d.Added, d.Reactivated} {
		for _, id := range ids {
			rows = append(rows, types.TaskAssignee{
				TaskID:     p.TaskID,
				UserID:     id,
				AssignedBy: &actor,
				AssignedAt: p.At,
			})
		}
	}
	return rows
}

// TaskMeta is the task information carried by notification intents.
type TaskMeta struct {
	TaskID    int64
	TaskName  string
	ActorName string
	Priority  types.Priority
	Due       *time.Time
}

func (m TaskMeta) intent(kind types.IntentKind, recipient int64) types.NotificationIntent {
	taskID := m.TaskID
	return types.NotificationIntent{
		Kind:      kind,
		Recipient: recipient,
		TaskID:    &taskID,
		TaskName:  m.TaskName,
		ActorName: m.ActorName,
		Priority:  m.Priority,
		When:      m.Due,
	}
}

// ReconcileIntents returns one intent per added, reactivated and removed user.
// Retained users are not notified.
func ReconcileIntents(d types.AssignmentDelta, meta TaskMeta) []types.NotificationIntent {
	intents := make([]types.NotificationIntent, 0, len(d.Added)+len(d.Reactivated)+len(d.Removed))
	for _, id := range d.Added {
		intents = append(intents, meta.intent(types.IntentAssigned, id))
	}
	for _, id := range d.Reactivated {
		intents = append(intents, meta.intent(types.IntentReassigned, id))
	}
	for _, id := range d.Removed {
		intents = append(intents, meta.intent(types.IntentRemoved, id))
	}
	return intents
}
