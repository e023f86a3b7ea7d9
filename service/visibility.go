package service

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/Euroteck-developer/Reminder-App/types"
)

// TaskScopeFor returns the task rows an actor may list: every task for the
// admin tiers, otherwise tasks the actor created or is assigned to.
func TaskScopeFor(a types.Actor) types.TaskScope {
	if a.Can(types.CapViewAllTasks) {
		return types.TaskScope{All: true}
	}
	return types.TaskScope{UserID: a.ID}
}

// CanViewTask applies TaskScopeFor to a single task.
func CanViewTask(a types.Actor, task *types.Task, assignees []int64) bool {
	scope := TaskScopeFor(a)
	if scope.All {
		return true
	}
	return task.CreatedBy == scope.UserID || slices.Contains(assignees, scope.UserID)
}

func MeetingScopeFor(a types.Actor) types.MeetingScope {
	if a.Can(types.CapViewAllMeetings) {
		return types.MeetingScope{All: true}
	}
	return types.MeetingScope{UserID: a.ID}
}

// ResolveStatsQuery validates a statistics request against the actor's role.
// An empty type means assigned. "self" or an empty user resolve to the
// actor, except for the all view where an empty user leaves it unfiltered.
func ResolveStatsQuery(a types.Actor, rawType, rawUser string) (types.StatsQuery, error) {
	statsType := types.StatsType(strings.TrimSpace(rawType))
	if statsType == "" {
		statsType = types.StatsAssigned
	}
	if !statsType.Valid() {
		return types.StatsQuery{}, validationError("invalid type %q", rawType)
	}
	if !slices.Contains(a.Role.AllowedStatsTypes(), statsType) {
		return types.StatsQuery{}, forbiddenError("access denied")
	}

	q := types.StatsQuery{Type: statsType}
	switch rawUser = strings.TrimSpace(rawUser); rawUser {
	case "self":
		q.UserID = a.ID
	case "":
		if statsType != types.StatsAll {
			q.UserID = a.ID
		}
	default:
		id, err := strconv.ParseInt(rawUser, 10, 64)
		if err != nil || id <= 0 {
			return types.StatsQuery{}, validationError("invalid userId %q", rawUser)
		}
		q.UserID = id
	}
	return q, nil
}

// CanAssign reports whether a may put target on a task. Everyone may assign
// themselves. Plain users may assign nobody else, managers may assign plain
// users and managers deeper in the hierarchy, the superadmin anyone below
// the director tiers, and directors anyone.
func CanAssign(a types.Actor, target *types.User) bool {
	if target == nil || target.IsDeleted {
		return false
	}
	if target.ID == a.ID {
		return true
	}
	switch {
	case a.Can(types.CapAssignAnyone):
		return true
	case a.Role == types.RoleSuperAdmin:
		return !target.RoleID.IsTopTier()
	case a.Role == types.RoleManager:
		if target.RoleID == types.RoleUser {
			return true
		}
		return target.RoleID == types.RoleManager && target.Level > a.Level
	default:
		return false
	}
}

// FilterAssignable keeps the users a may assign, preserving order.
func FilterAssignable(a types.Actor, users []types.User) []types.User {
	out := make([]types.User, 0, len(users))
	for i := range users {
		if CanAssign(a, &users[i]) {
			out = append(out, users[i])
		}
	}
	return out
}

// ClassifyPerformance derives a statistics row's status. A Lost entry counts
// unless a later Reassigned entry cleared it.
func ClassifyPerformance(row *types.PerformanceRow) types.PerformanceStatus {
	latestLost := row.LatestHistoryStatus != nil && *row.LatestHistoryStatus == types.HistoryLost
	lostSinceReassign := row.LastLostDate != nil &&
		(row.LastReassignDate == nil || row.LastLostDate.After(*row.LastReassignDate))
	switch {
	case latestLost || lostSinceReassign:
		return types.PerformanceLost
	case row.TaskStatus == types.StatusCompleted:
		return types.PerformanceCompleted
	default:
		return types.PerformancePending
	}
}

// SummarizePerformance classifies every row in place and aggregates the
// counts. completed + lost + pending always equals len(rows).
func SummarizePerformance(rows []types.PerformanceRow) types.PerformanceSummary {
	var s types.PerformanceSummary
	for i := range rows {
		status := ClassifyPerformance(&rows[i])
		rows[i].PerformanceStatus = status
		switch status {
		case types.PerformanceCompleted:
			s.Completed++
		case types.PerformanceLost:
			s.Lost++
		default:
			s.Pending++
		}
	}
	s.TotalTasks = len(rows)
	s.PerformancePercentage = Percentage(s.Completed, s.TotalTasks)
	return s
}

// Percentage is part/total*100 rounded to two decimals, 0 for an empty total.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}
