package appstate

import "sync"

// State is the single process-wide application state. It is created once
// at startup and passed by handle to every handler; there are no package
// globals. Both the UI thread and menu callbacks touch it, so every
// access goes through the mutex.
type State struct {
	mu          sync.Mutex
	initialFile string
	hasInitial  bool
	activeFont  string
}

// New seeds the state with the file passed on the command line.
// An empty path means the app was started without a file.
func New(initialFile string) *State {
	return &State{
		initialFile: initialFile,
		hasInitial:  initialFile != "",
	}
}

// TakeInitialFile returns the seeded startup file exactly once.
// Every later call, from any goroutine, reports no file.
func (s *State) TakeInitialFile() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasInitial {
		return "", false
	}
	s.hasInitial = false
	path := s.initialFile
	s.initialFile = ""
	return path, true
}

func (s *State) SetActiveFont(id string) {
	s.mu.Lock()
	s.activeFont = id
	s.mu.Unlock()
}

func (s *State) ActiveFont() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeFont
}
