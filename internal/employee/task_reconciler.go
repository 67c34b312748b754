package employee

import "go-ems/internal/task"

// taskReconciliation is the outcome of merging a client-supplied task list
// into an employee's persisted tasks.
type taskReconciliation struct {
	// Updates are existing tasks whose fields were overwritten in place.
	Updates []task.Task
	// Creates are brand-new tasks, parented to the employee, to append.
	Creates []task.Task
}

// reconcileTasks merges incoming DTOs into the employee's current tasks.
// A DTO whose id matches an existing task (first match by id; ids are
// unique) overwrites that task's fields in place. A DTO with no match
// becomes a new task owned by the employee. Persisted tasks absent from
// the incoming list are left untouched: this is a non-destructive merge,
// not a replace.
func reconcileTasks(employeeID int64, existing []task.Task, incoming []task.TaskDTO) taskReconciliation {
	var result taskReconciliation

	for _, dto := range incoming {
		var matched *task.Task
		for i := range existing {
			if existing[i].ID != 0 && existing[i].ID == dto.ID {
				matched = &existing[i]
				break
			}
		}

		if matched != nil {
			dto.ApplyTo(matched)
			result.Updates = append(result.Updates, *matched)
			continue
		}

		created := dto.ToEntity()
		created.ID = 0
		eid := employeeID
		created.EmployeeID = &eid
		result.Creates = append(result.Creates, created)
	}

	return result
}
