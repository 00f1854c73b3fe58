package studyplan

import "github.com/abhisek/studybuddy/internal/api"

// plansMsg carries the plan list fetched on open.
type plansMsg struct {
	Plans []api.StudyPlan
	Err   error
}

// createdMsg is the outcome of creating a plan.
type createdMsg struct {
	Plan *api.StudyPlan
	Err  error
}

// deletedMsg is the outcome of deleting plan ID.
type deletedMsg struct {
	ID  string
	Err error
}
