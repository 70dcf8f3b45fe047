package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskdesk/internal/models"
)

var (
	lead  = Identity{ID: 1, Role: models.RoleLead}
	team  = Identity{ID: 2, Role: models.RoleTeam}
	other = Identity{ID: 3, Role: models.RoleTeam}
)

func taskAssignedTo(id int64) *models.Task {
	return &models.Task{ID: 10, AssignedToID: &id}
}

func unassignedTask() *models.Task {
	return &models.Task{ID: 10}
}

func TestCanCreateTask(t *testing.T) {
	assert.True(t, CanCreateTask(lead).Allowed)
	d := CanCreateTask(team)
	assert.False(t, d.Allowed)
	assert.NotEmpty(t, d.Reason)
}

func TestCanDeleteTask(t *testing.T) {
	assert.True(t, CanDeleteTask(lead).Allowed)
	assert.False(t, CanDeleteTask(team).Allowed)
}

func TestCanUpdateTask(t *testing.T) {
	tests := []struct {
		name  string
		actor Identity
		task  *models.Task
		scope UpdateScope
		want  bool
	}{
		{"lead touches anything", lead, taskAssignedTo(2), UpdateScope{TouchesTitle: true, TouchesAssignee: true}, true},
		{"lead on unassigned task", lead, unassignedTask(), UpdateScope{TouchesAssignee: true}, true},
		{"assignee updates status", team, taskAssignedTo(2), UpdateScope{}, true},
		{"assignee touches title", team, taskAssignedTo(2), UpdateScope{TouchesTitle: true}, false},
		{"assignee touches assignee", team, taskAssignedTo(2), UpdateScope{TouchesAssignee: true}, false},
		{"non-assignee", other, taskAssignedTo(2), UpdateScope{}, false},
		{"team on unassigned task", team, unassignedTask(), UpdateScope{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanUpdateTask(tt.actor, tt.task, tt.scope)
			assert.Equal(t, tt.want, d.Allowed)
			if !tt.want {
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

func TestCanViewTask(t *testing.T) {
	assert.True(t, CanViewTask(lead, unassignedTask()).Allowed)
	assert.True(t, CanViewTask(team, taskAssignedTo(2)).Allowed)
	assert.False(t, CanViewTask(team, taskAssignedTo(3)).Allowed)
	assert.False(t, CanViewTask(team, unassignedTask()).Allowed)
}

func TestCanViewTaskHistory_FollowsViewRule(t *testing.T) {
	assert.Equal(t, CanViewTask(team, taskAssignedTo(2)), CanViewTaskHistory(team, taskAssignedTo(2)))
	assert.Equal(t, CanViewTask(team, unassignedTask()), CanViewTaskHistory(team, unassignedTask()))
}
