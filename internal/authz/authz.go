package authz

import "taskdesk/internal/models"

// Identity is the caller resolved from the session token. It is built once
// per request by the auth middleware and passed explicitly to every service
// call; nothing caches it across requests.
type Identity struct {
	ID    int64
	Email string
	Role  models.Role
}

func (id Identity) IsLead() bool {
	return id.Role == models.RoleLead
}

// Decision is the outcome of a capability check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// CanCreateTask: only LEAD users create tasks.
func CanCreateTask(actor Identity) Decision {
	if !actor.IsLead() {
		return deny("only LEAD users can create tasks")
	}
	return allow()
}

// UpdateScope describes which restricted fields the update payload touches.
// Presence is what matters: an explicit null assignedToId still counts.
type UpdateScope struct {
	TouchesTitle    bool
	TouchesAssignee bool
}

// CanUpdateTask: LEAD may change any field on any task; the current assignee
// may change status and description only.
func CanUpdateTask(actor Identity, task *models.Task, scope UpdateScope) Decision {
	if actor.IsLead() {
		return allow()
	}
	if task.AssignedToID == nil || *task.AssignedToID != actor.ID {
		return deny("you are not assigned to this task")
	}
	if scope.TouchesTitle || scope.TouchesAssignee {
		return deny("team members can only update status and description")
	}
	return allow()
}

// CanDeleteTask: only LEAD users delete tasks.
func CanDeleteTask(actor Identity) Decision {
	if !actor.IsLead() {
		return deny("only LEAD users can delete tasks")
	}
	return allow()
}

// CanViewTask: LEAD sees every task; TEAM only tasks assigned to them.
func CanViewTask(actor Identity, task *models.Task) Decision {
	if actor.IsLead() {
		return allow()
	}
	if task.AssignedToID == nil || *task.AssignedToID != actor.ID {
		return deny("you are not assigned to this task")
	}
	return allow()
}

// CanViewTaskHistory follows the same rule as viewing the task itself.
func CanViewTaskHistory(actor Identity, task *models.Task) Decision {
	return CanViewTask(actor, task)
}
