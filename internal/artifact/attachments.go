package artifact

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/storage"
)

// ErrMalformedAttachment is returned for an inline data URI whose payload is
// not valid base64.
var ErrMalformedAttachment = errors.New("malformed inline attachment")

var dataURI = regexp.MustCompile(`data:([\w.+-]+/[\w.+-]+);base64,([A-Za-z0-9+/]+=*)`)

// Target identifies the entity a body belongs to.
type Target struct {
	Context     domain.AttachmentContext
	WorkspaceID int64
	CreatedByID string
}

// Extractor moves inline base64 attachments out of rich-text bodies into
// blob storage, leaving the stored URL in their place.
type Extractor struct {
	store storage.Store
	now   func() time.Time
}

func NewExtractor(store storage.Store) *Extractor {
	return &Extractor{store: store, now: time.Now}
}

// Upload stores every inline attachment of text and returns the rewritten
// text with the artifacts created. Any failure aborts the whole body.
func (e *Extractor) Upload(ctx context.Context, text string, target Target) (string, []domain.Artifact, error) {
	matches := dataURI.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil, nil
	}

	var out strings.Builder
	var artifacts []domain.Artifact
	last := 0
	for _, m := range matches {
		declared := text[m[2]:m[3]]
		payload := text[m[4]:m[5]]

		a, err := e.put(ctx, declared, payload, target)
		if err != nil {
			return "", nil, err
		}
		out.WriteString(text[last:m[0]])
		out.WriteString(a.URL)
		last = m[1]
		artifacts = append(artifacts, a)
	}
	out.WriteString(text[last:])
	return out.String(), artifacts, nil
}

func (e *Extractor) put(ctx context.Context, declared, payload string, target Target) (domain.Artifact, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("%w: %v", ErrMalformedAttachment, err)
	}

	mt := mimetype.Detect(data)
	contentType := mt.String()
	ext := mt.Extension()
	// Plain octet streams tell us nothing; trust the declared type then.
	if mt.Is("application/octet-stream") {
		contentType = declared
		if byName := mimetype.Lookup(declared); byName != nil {
			ext = byName.Extension()
		}
	}

	id := uuid.NewString()
	key := fmt.Sprintf("%s/%d/%s%s", target.Context, target.WorkspaceID, id, ext)
	url, err := e.store.Put(ctx, storage.Object{Key: key, ContentType: contentType, Body: data})
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("storing inline attachment: %w", err)
	}
	return domain.Artifact{
		ID:          id,
		Context:     target.Context,
		WorkspaceID: target.WorkspaceID,
		ObjectKey:   key,
		URL:         url,
		ContentType: contentType,
		Size:        len(data),
		CreatedByID: target.CreatedByID,
		CreatedAt:   e.now().UTC(),
	}, nil
}
