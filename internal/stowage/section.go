package stowage

import (
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/model"
)

// Sections within a round. Section 1 discharges port-destined containers,
// section 2 processes sales call bookings.
const (
	SectionDischarge = 1
	SectionSalesCall = 2
)

// SectionMachine governs the two-phase round flow for one player in one
// room. Every round starts in section 1; advancing to section 2 is gated on
// having no container destined for the current port left in any bay cell.
type SectionMachine struct {
	round       int
	totalRounds int
	section     int
	port        string
}

// NewSectionMachine starts at round 1, section 1, at the given port.
func NewSectionMachine(totalRounds int, port string) *SectionMachine {
	return &SectionMachine{round: 1, totalRounds: totalRounds, section: SectionDischarge, port: port}
}

// RestoreSectionMachine rebuilds a machine from persisted state.
func RestoreSectionMachine(round, totalRounds, section int, port string) *SectionMachine {
	if section != SectionSalesCall {
		section = SectionDischarge
	}
	return &SectionMachine{round: round, totalRounds: totalRounds, section: section, port: port}
}

// Round returns the current round number (1-based).
func (s *SectionMachine) Round() int { return s.round }

// Section returns 1 (discharge) or 2 (sales calls).
func (s *SectionMachine) Section() int { return s.section }

// Port returns the port the player currently calls at.
func (s *SectionMachine) Port() string { return s.port }

// FinalPhase reports whether the schedule is exhausted: only discharging
// remains and no further round advance is possible.
func (s *SectionMachine) FinalPhase() bool { return s.round > s.totalRounds }

// Advance moves from section 1 to section 2. It walks the bay-placed
// containers and refuses with ErrSectionGated while any of them is destined
// for the current port; dock containers do not gate. In the final unloading
// phase it refuses with ErrFinalPhase.
func (s *SectionMachine) Advance(m *PlacementMap, containers map[string]model.Container) error {
	if s.FinalPhase() {
		return ErrFinalPhase
	}
	if s.section == SectionSalesCall {
		return nil // already there; advancing twice is harmless
	}
	for _, p := range m.Placements() {
		if p.Cell.IsDock() {
			continue
		}
		if c, ok := containers[p.ContainerID]; ok && c.Destination == s.port {
			return ErrSectionGated
		}
	}
	s.section = SectionSalesCall
	return nil
}

// Swap applies the external swap_bays signal: the round advances, the player
// rotates to nextPort and the section resets to 1. Callers also discard any
// in-flight drag (Controller.Reset) and re-fetch arena data.
func (s *SectionMachine) Swap(nextPort string) {
	s.round++
	s.section = SectionDischarge
	if nextPort != "" {
		s.port = nextPort
	}
}
