package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ekyte/intake/internal/artifact"
	"github.com/ekyte/intake/internal/contract"
)

// extractAttachments moves the inline attachments of text to the blob store
// and records them. It runs inside the creating transaction, so a failure
// leaves no entity behind.
func extractAttachments(ctx context.Context, r *txRepos, c Collaborators, text string, target artifact.Target) (string, error) {
	if c.Store == nil {
		return text, nil
	}
	out, artifacts, err := artifact.NewExtractor(c.Store).Upload(ctx, text, target)
	if errors.Is(err, artifact.ErrMalformedAttachment) {
		return "", contract.Unprocessable(90, "%s body carries a malformed attachment", target.Context)
	}
	if err != nil {
		return "", fmt.Errorf("uploading %s attachments: %w", target.Context, err)
	}
	for i := range artifacts {
		if err := r.artifacts.Create(ctx, &artifacts[i]); err != nil {
			return "", fmt.Errorf("recording attachment: %w", err)
		}
	}
	return out, nil
}
