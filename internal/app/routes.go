package app

import (
	"fmt"
	"sort"

	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/screens/chat"
	"github.com/abhisek/studybuddy/internal/screens/flashcards"
	"github.com/abhisek/studybuddy/internal/screens/history"
	"github.com/abhisek/studybuddy/internal/screens/home"
	"github.com/abhisek/studybuddy/internal/screens/quiz"
	"github.com/abhisek/studybuddy/internal/screens/studyplan"
)

// HomePath is the root view.
const HomePath = "/"

// routes maps view paths to screen constructors.
var routes = map[string]func(Deps) screen.Screen{
	HomePath: func(d Deps) screen.Screen {
		return home.New(d.Service, d.State, d.Log)
	},
	"/ai-chat": func(d Deps) screen.Screen {
		return chat.New(d.Service, d.State, d.Log)
	},
	"/quiz": func(d Deps) screen.Screen {
		return quiz.New(d.Service, d.State, d.Board, d.Log)
	},
	"/study-plan": func(d Deps) screen.Screen {
		return studyplan.New(d.Service, d.State, d.Log)
	},
	"/flashcards": func(d Deps) screen.Screen {
		return flashcards.New(d.Service, d.KV, d.Scheduler, d.Log)
	},
	"/history": func(d Deps) screen.Screen {
		return history.New(d.Service, d.State, d.Log)
	},
}

// Paths returns the known view paths, sorted.
func Paths() []string {
	out := make([]string, 0, len(routes))
	for p := range routes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// screenFor builds the screen registered at path.
func screenFor(path string, d Deps) (screen.Screen, error) {
	build, ok := routes[path]
	if !ok {
		return nil, fmt.Errorf("unknown route %q", path)
	}
	return build(d), nil
}
