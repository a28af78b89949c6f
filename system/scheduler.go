package system

import "github.com/milk9111/swingkit/component"

// Scheduler runs controllers in registration order every tick.
type Scheduler struct {
	controllers []Controller
}

func NewScheduler(controllers ...Controller) *Scheduler {
	s := &Scheduler{}
	for _, c := range controllers {
		s.Add(c)
	}
	return s
}

func (s *Scheduler) Add(c Controller) {
	if c == nil {
		return
	}
	s.controllers = append(s.controllers, c)
}

func (s *Scheduler) Step(t Tick, in component.Input) {
	for _, c := range s.controllers {
		c.Step(t, in)
	}
}

func (s *Scheduler) Controllers() []Controller {
	controllers := make([]Controller, 0, len(s.controllers))
	return append(controllers, s.controllers...)
}
