package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ekyte/intake/internal/artifact"
	"github.com/ekyte/intake/internal/contract"
	"github.com/ekyte/intake/internal/db"
	"github.com/ekyte/intake/internal/domain"
)

type boardService struct {
	c        Collaborators
	observer UseCaseObserver
}

func NewBoardService(c Collaborators, observers ...UseCaseObserver) BoardService {
	return &boardService{c: c.withDefaults(), observer: useCaseObserverOrNoop(observers)}
}

func (s *boardService) Create(ctx context.Context, req contract.CreateBoardRequest) (out *contract.Created, err error) {
	uc := startUseCase(s.observer, "board.create", map[string]any{"company_id": req.CompanyID})
	defer func() {
		if out != nil {
			uc.event.Fields["board_id"] = out.ID
		}
		uc.done(ctx, err)
	}()

	if err := checkTenant(ctx, req.Auth); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, contract.Validation(1, "title is required")
	}

	var board *domain.Board
	err = s.c.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		company, err := loadCompany(ctx, r, req.CompanyID)
		if err != nil {
			return err
		}
		user, link, err := findMember(ctx, r, company.ID, req.UserEmail)
		if err != nil {
			return err
		}
		if link == nil {
			return contract.Validation(10, "user %s does not belong to company %d", req.UserEmail, company.ID)
		}
		workspaceID, err := pickWorkspace(ctx, r, company.ID, req.WorkspaceID, link)
		if err != nil {
			return err
		}

		description, err := extractAttachments(ctx, r, s.c, req.Description, artifact.Target{
			Context:     domain.AttachmentBoard,
			WorkspaceID: workspaceID,
			CreatedByID: user.ID,
		})
		if err != nil {
			return err
		}
		board = &domain.Board{
			WorkspaceID: workspaceID,
			Title:       strings.TrimSpace(req.Title),
			Description: description,
			Active:      true,
			StartDate:   time.Now().In(s.c.Settings.Location),
			CreatedByID: user.ID,
		}
		if err := r.boards.Create(ctx, board); err != nil {
			return fmt.Errorf("creating board: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &contract.Created{Entity: "board", ID: board.ID}, nil
}

type noteService struct {
	c        Collaborators
	observer UseCaseObserver
}

func NewNoteService(c Collaborators, observers ...UseCaseObserver) NoteService {
	return &noteService{c: c.withDefaults(), observer: useCaseObserverOrNoop(observers)}
}

func (s *noteService) Create(ctx context.Context, req contract.CreateNoteRequest) (out *contract.Created, err error) {
	uc := startUseCase(s.observer, "note.create", map[string]any{
		"company_id": req.CompanyID,
		"board_id":   req.BoardID,
	})
	defer func() {
		if out != nil {
			uc.event.Fields["note_id"] = out.ID
		}
		uc.done(ctx, err)
	}()

	if err := checkTenant(ctx, req.Auth); err != nil {
		return nil, err
	}
	switch {
	case req.BoardID <= 0:
		return nil, contract.Validation(1, "board is required")
	case strings.TrimSpace(req.Title) == "":
		return nil, contract.Validation(1, "title is required")
	case strings.TrimSpace(req.Category) == "":
		return nil, contract.Validation(1, "category is required")
	}

	var note *domain.Note
	err = s.c.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		company, err := loadCompany(ctx, r, req.CompanyID)
		if err != nil {
			return err
		}
		board, err := r.boards.GetVisible(ctx, req.BoardID, company.VisibleCompanyIDs())
		if isNotFound(err) {
			return contract.NotFound(40, "board %d not found", req.BoardID)
		}
		if err != nil {
			return fmt.Errorf("loading board: %w", err)
		}
		user, link, err := findMember(ctx, r, company.ID, req.UserEmail)
		if err != nil {
			return err
		}
		if link == nil {
			return contract.Permission(20, "user %s does not belong to company %d", req.UserEmail, company.ID)
		}

		categoryID, err := s.category(ctx, r, board.ID, strings.TrimSpace(req.Category))
		if err != nil {
			return err
		}
		content, err := extractAttachments(ctx, r, s.c, req.Content, artifact.Target{
			Context:     domain.AttachmentNote,
			WorkspaceID: board.WorkspaceID,
			CreatedByID: user.ID,
		})
		if err != nil {
			return err
		}
		note = &domain.Note{
			BoardID:     board.ID,
			CategoryID:  categoryID,
			Title:       strings.TrimSpace(req.Title),
			Description: req.Description,
			Content:     content,
			Active:      true,
			CreatedByID: user.ID,
		}
		if err := r.notes.Create(ctx, note); err != nil {
			return fmt.Errorf("creating note: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &contract.Created{Entity: "note", ID: note.ID}, nil
}

// category finds the board category matching title, ignoring accents, case
// and spaces, and creates it at the end of the board when missing.
func (s *noteService) category(ctx context.Context, r *txRepos, boardID int64, title string) (int64, error) {
	categories, err := r.boards.ListCategories(ctx, boardID)
	if err != nil {
		return 0, fmt.Errorf("listing categories: %w", err)
	}
	if c, ok := domain.MatchCategory(categories, title); ok {
		return c.ID, nil
	}
	c := &domain.NoteCategory{
		BoardID:    boardID,
		Title:      title,
		Sequential: domain.NextCategorySequential(categories),
	}
	if err := r.boards.CreateCategory(ctx, c); err != nil {
		return 0, fmt.Errorf("creating category: %w", err)
	}
	return c.ID, nil
}
