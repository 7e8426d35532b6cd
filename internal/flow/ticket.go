package flow

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ekyte/intake/internal/domain"
)

// ErrOrganizerContract is returned when an Organizer adds, drops or swaps
// phases instead of only reordering them.
var ErrOrganizerContract = errors.New("ticket flow organizer changed the phase set")

// Organizer puts a ticket flow into its final order.
type Organizer interface {
	Organize(phases []domain.TicketFlowPhase) []domain.TicketFlowPhase
}

// SequentialOrganizer orders phases by their sequential, then by phase id.
type SequentialOrganizer struct{}

func (SequentialOrganizer) Organize(phases []domain.TicketFlowPhase) []domain.TicketFlowPhase {
	out := append([]domain.TicketFlowPhase(nil), phases...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sequential != out[j].Sequential {
			return out[i].Sequential < out[j].Sequential
		}
		return out[i].TicketPhaseID < out[j].TicketPhaseID
	})
	return out
}

// BuildTicketFlow creates one phase per active ticket phase template, all
// assigned to the analyst, and lets the organizer order them.
func BuildTicketFlow(templates []domain.TicketPhaseTemplate, analystID string, org Organizer) ([]domain.TicketFlowPhase, error) {
	phases := make([]domain.TicketFlowPhase, 0, len(templates))
	for _, t := range templates {
		if !t.Active {
			continue
		}
		phases = append(phases, domain.TicketFlowPhase{
			TicketPhaseID: t.ID,
			Sequential:    t.Sequential,
			ExecutorID:    analystID,
		})
	}

	organized := org.Organize(phases)
	if err := sameMembers(phases, organized); err != nil {
		return nil, err
	}
	return organized, nil
}

func sameMembers(in, out []domain.TicketFlowPhase) error {
	if len(in) != len(out) {
		return fmt.Errorf("%d phases in, %d out: %w", len(in), len(out), ErrOrganizerContract)
	}
	seen := make(map[int64]int, len(in))
	for _, p := range in {
		seen[p.TicketPhaseID]++
	}
	for _, p := range out {
		if seen[p.TicketPhaseID] == 0 {
			return fmt.Errorf("unexpected phase %d: %w", p.TicketPhaseID, ErrOrganizerContract)
		}
		seen[p.TicketPhaseID]--
	}
	return nil
}
