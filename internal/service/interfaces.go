package service

import (
	"context"

	"github.com/ekyte/intake/internal/contract"
)

type TaskService interface {
	Create(ctx context.Context, req contract.CreateTaskRequest) (*contract.Created, error)
}

type TicketService interface {
	Create(ctx context.Context, req contract.CreateTicketRequest) (*contract.Created, error)
}

type BoardService interface {
	Create(ctx context.Context, req contract.CreateBoardRequest) (*contract.Created, error)
}

type NoteService interface {
	Create(ctx context.Context, req contract.CreateNoteRequest) (*contract.Created, error)
}

type ProjectService interface {
	Create(ctx context.Context, req contract.CreateProjectRequest) (*contract.Created, error)
}

type WorkspaceService interface {
	Create(ctx context.Context, req contract.CreateWorkspaceRequest) (*contract.Created, error)
}
