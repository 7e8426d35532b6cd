package service

import (
	"context"
	"fmt"

	"github.com/ekyte/intake/internal/contract"
	"github.com/ekyte/intake/internal/domain"
)

// resolveTaskType loads a live task type the company may use: its own, its
// headquarters' when the workflow is shared, or the platform's.
func resolveTaskType(ctx context.Context, r *txRepos, id int64, company *domain.Company) (*domain.TaskType, error) {
	tt, err := r.taskTypes.GetVisible(ctx, id, company.ID, company.HeadquarterID)
	if isNotFound(err) {
		return nil, contract.NotFound(30, "task type %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading task type: %w", err)
	}
	return tt, nil
}
