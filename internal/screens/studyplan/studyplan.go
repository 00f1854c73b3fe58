package studyplan

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/appstate"
	"github.com/abhisek/studybuddy/internal/logging"
	"github.com/abhisek/studybuddy/internal/notify"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
)

// User-facing messages.
const (
	MsgTopicRequired = "Please enter a topic"
	MsgInvalidHours  = "Daily hours must be greater than 0"
	MsgInvalidDays   = "Target days must be greater than 0"
	MsgCreateFailed  = "Failed to create study plan. Please try again."
	MsgDeleteFailed  = "Failed to delete plan"
)

const requestTimeout = 90 * time.Second

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
	modeDetail
)

// Form fields, in tab order.
const (
	fieldTopic = iota
	fieldHours
	fieldDays
	numFields
)

// StudyPlanScreen lists, creates and deletes study plans. The list is
// read from the app state store.
type StudyPlanScreen struct {
	svc   api.Service
	state *appstate.Store
	log   *logrus.Logger

	mode     mode
	selected int
	fields   [numFields]components.TextInput
	focus    int
	busy     bool
	errMsg   string
}

var _ screen.Screen = (*StudyPlanScreen)(nil)
var _ screen.KeyHintProvider = (*StudyPlanScreen)(nil)
var _ screen.EscapeHandler = (*StudyPlanScreen)(nil)

// New creates the study plan screen.
func New(svc api.Service, state *appstate.Store, log *logrus.Logger) *StudyPlanScreen {
	if log == nil {
		log = logging.Discard()
	}
	s := &StudyPlanScreen{svc: svc, state: state, log: log}
	s.resetForm()
	return s
}

func (s *StudyPlanScreen) resetForm() {
	s.fields[fieldTopic] = components.NewTextInput("e.g. python", components.KindText, 80)
	s.fields[fieldHours] = components.NewTextInput("2", components.KindDecimal, 4)
	s.fields[fieldHours].SetValue("2")
	s.fields[fieldDays] = components.NewTextInput("30", components.KindInteger, 3)
	s.fields[fieldHours].Blur()
	s.fields[fieldDays].Blur()
	s.focus = fieldTopic
	s.errMsg = ""
}

func (s *StudyPlanScreen) Init() tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		plans, err := svc.StudyPlans(ctx)
		return plansMsg{Plans: plans, Err: err}
	}
}

func (s *StudyPlanScreen) Title() string {
	return "Study Plans"
}

// HandlesEscape reports whether Esc closes an inner view.
func (s *StudyPlanScreen) HandlesEscape() bool {
	return s.mode != modeList
}

func (s *StudyPlanScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeForm:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Create"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeConfirmDelete:
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Keep"},
		}
	case modeDetail:
		return []layout.KeyHint{{Key: "Esc", Description: "Back to list"}}
	default:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Details"},
			{Key: "N", Description: "New plan"},
			{Key: "D", Description: "Delete"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (s *StudyPlanScreen) plans() []api.StudyPlan {
	return s.state.State().StudyPlans
}

func (s *StudyPlanScreen) current() *api.StudyPlan {
	plans := s.plans()
	if s.selected < 0 || s.selected >= len(plans) {
		return nil
	}
	return &plans[s.selected]
}

func (s *StudyPlanScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case plansMsg:
		if msg.Err != nil {
			s.log.WithError(msg.Err).Warn("studyplan: list failed")
			return s, nil
		}
		s.state.Dispatch(appstate.SetStudyPlans{Plans: msg.Plans})
		s.clampSelection()
		return s, nil

	case createdMsg:
		return s.handleCreated(msg)

	case deletedMsg:
		return s.handleDeleted(msg)

	case tea.KeyMsg:
		switch s.mode {
		case modeForm:
			return s.handleFormKey(msg)
		case modeConfirmDelete:
			return s.handleConfirmKey(msg)
		case modeDetail:
			if msg.String() == "esc" {
				s.mode = modeList
			}
			return s, nil
		default:
			return s.handleListKey(msg)
		}
	}

	if s.mode == modeForm {
		return s.updateFocused(msg)
	}
	return s, nil
}

func (s *StudyPlanScreen) clampSelection() {
	n := len(s.plans())
	if s.selected >= n {
		s.selected = n - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

func (s *StudyPlanScreen) handleListKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.plans())-1 {
			s.selected++
		}
	case "enter":
		if s.current() != nil {
			s.mode = modeDetail
		}
	case "n":
		s.resetForm()
		s.mode = modeForm
		return s, s.fields[fieldTopic].Focus()
	case "d":
		if s.current() != nil {
			s.mode = modeConfirmDelete
		}
	}
	return s, nil
}

func (s *StudyPlanScreen) updateFocused(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return s, cmd
}

func (s *StudyPlanScreen) setFocus(field int) tea.Cmd {
	for i := range s.fields {
		s.fields[i].Blur()
	}
	s.focus = field
	return s.fields[field].Focus()
}

func (s *StudyPlanScreen) handleFormKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	switch msg.String() {
	case "esc":
		s.mode = modeList
		return s, nil
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % numFields)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + numFields - 1) % numFields)
	case "enter":
		return s.submit()
	}
	return s.updateFocused(msg)
}

// formRequest validates the form and builds the create request.
func (s *StudyPlanScreen) formRequest() (api.PlanRequest, string) {
	topic := s.fields[fieldTopic].Value()
	if topic == "" {
		return api.PlanRequest{}, MsgTopicRequired
	}
	hours, err := s.fields[fieldHours].FloatValue()
	if err != nil || hours <= 0 {
		return api.PlanRequest{}, MsgInvalidHours
	}
	days, err := s.fields[fieldDays].IntValue()
	if err != nil || days <= 0 {
		return api.PlanRequest{}, MsgInvalidDays
	}
	return api.PlanRequest{Topic: topic, DailyHours: hours, TargetDays: days}, ""
}

func (s *StudyPlanScreen) submit() (screen.Screen, tea.Cmd) {
	req, problem := s.formRequest()
	if problem != "" {
		s.errMsg = problem
		return s, nil
	}
	s.errMsg = ""
	s.busy = true

	svc := s.svc
	return s, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		plan, err := svc.CreateStudyPlan(ctx, req)
		return createdMsg{Plan: plan, Err: err}
	}
}

func (s *StudyPlanScreen) handleCreated(msg createdMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil || msg.Plan == nil {
		s.log.WithError(msg.Err).Warn("studyplan: create failed")
		s.errMsg = MsgCreateFailed
		return s, screen.Notify("Error", MsgCreateFailed, notify.KindError)
	}
	st := s.state.Dispatch(appstate.AddStudyPlan{Plan: *msg.Plan})
	s.selected = len(st.StudyPlans) - 1
	s.mode = modeList
	return s, screen.Notify("Study plan created",
		fmt.Sprintf("%s: %d hours over %d weeks", msg.Plan.Topic, msg.Plan.TotalHours, len(msg.Plan.WeeklyGoals)),
		notify.KindSuccess)
}

func (s *StudyPlanScreen) handleConfirmKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "y":
		plan := s.current()
		s.mode = modeList
		if plan == nil {
			return s, nil
		}
		id := plan.ID
		svc := s.svc
		return s, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			return deletedMsg{ID: id, Err: svc.DeleteStudyPlan(ctx, id)}
		}
	case "n", "esc":
		s.mode = modeList
	}
	return s, nil
}

func (s *StudyPlanScreen) handleDeleted(msg deletedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.log.WithError(msg.Err).WithField("plan", msg.ID).Warn("studyplan: delete failed")
		s.errMsg = MsgDeleteFailed
		return s, screen.Notify("Error", MsgDeleteFailed, notify.KindError)
	}
	s.errMsg = ""
	s.state.Dispatch(appstate.DeleteStudyPlan{ID: msg.ID})
	s.clampSelection()
	return s, screen.Notify("Study plan deleted", "", notify.KindInfo)
}
