package home

import "github.com/abhisek/studybuddy/internal/api"

type profileMsg struct {
	Profile *api.UserProfile
	Err     error
}

type sessionsMsg struct {
	Sessions []api.StudySession
	Err      error
}

type motivationMsg struct {
	Text string
}

type sessionStartedMsg struct {
	Topic   string
	Session *api.StudySession
	Err     error
}

type sessionEndedMsg struct {
	Session *api.StudySession
	Err     error
}
