package domain

import (
	"errors"
	"fmt"
)

// ErrPriorityOutOfRange is returned for priority groups outside [0, 100].
var ErrPriorityOutOfRange = errors.New("priority group must be between 0 and 100")

// BucketPriority maps a 0-100 priority group onto its named bucket:
// 0 is not prioritized, then four equal-width bands of 25.
func BucketPriority(group int) (Priority, error) {
	switch {
	case group < 0 || group > 100:
		return "", fmt.Errorf("%d: %w", group, ErrPriorityOutOfRange)
	case group == 0:
		return PriorityNotPrioritized, nil
	case group <= 25:
		return PriorityLow, nil
	case group <= 50:
		return PriorityMedium, nil
	case group <= 75:
		return PriorityHigh, nil
	default:
		return PriorityUrgent, nil
	}
}
