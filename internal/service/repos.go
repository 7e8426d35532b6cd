package service

import (
	"github.com/ekyte/intake/internal/artifact"
	"github.com/ekyte/intake/internal/db"
	"github.com/ekyte/intake/internal/flow"
	"github.com/ekyte/intake/internal/repository"
)

// txRepos binds every repository to one transaction.
type txRepos struct {
	companies    *repository.SQLiteCompanyRepo
	users        *repository.SQLiteUserRepo
	squads       *repository.SQLiteSquadRepo
	workspaces   *repository.SQLiteWorkspaceRepo
	tags         *repository.SQLiteTagRepo
	taskTypes    *repository.SQLiteTaskTypeRepo
	teamMembers  *repository.SQLiteTeamMemberRepo
	channels     *repository.SQLiteChannelRepo
	checklists   *repository.SQLiteChecklistRepo
	forms        *repository.SQLiteFormRepo
	projects     *repository.SQLiteProjectRepo
	tasks        *repository.SQLiteTaskRepo
	ticketPhases *repository.SQLiteTicketPhaseRepo
	tickets      *repository.SQLiteTicketRepo
	boards       *repository.SQLiteBoardRepo
	notes        *repository.SQLiteNoteRepo
	artifacts    *repository.SQLiteArtifactRepo
}

func newTxRepos(tx db.DBTX) *txRepos {
	return &txRepos{
		companies:    repository.NewSQLiteCompanyRepo(tx),
		users:        repository.NewSQLiteUserRepo(tx),
		squads:       repository.NewSQLiteSquadRepo(tx),
		workspaces:   repository.NewSQLiteWorkspaceRepo(tx),
		tags:         repository.NewSQLiteTagRepo(tx),
		taskTypes:    repository.NewSQLiteTaskTypeRepo(tx),
		teamMembers:  repository.NewSQLiteTeamMemberRepo(tx),
		channels:     repository.NewSQLiteChannelRepo(tx),
		checklists:   repository.NewSQLiteChecklistRepo(tx),
		forms:        repository.NewSQLiteFormRepo(tx),
		projects:     repository.NewSQLiteProjectRepo(tx),
		tasks:        repository.NewSQLiteTaskRepo(tx),
		ticketPhases: repository.NewSQLiteTicketPhaseRepo(tx),
		tickets:      repository.NewSQLiteTicketRepo(tx),
		boards:       repository.NewSQLiteBoardRepo(tx),
		notes:        repository.NewSQLiteNoteRepo(tx),
		artifacts:    repository.NewSQLiteArtifactRepo(tx),
	}
}

func (r *txRepos) flowBuilder() *flow.Builder {
	return flow.NewBuilder(flow.NewExecutorChain(r.teamMembers), flow.NewRateResolver(r.users))
}

func (r *txRepos) generator(placementHour int) *artifact.Generator {
	return artifact.NewGenerator(r.channels, r.checklists, r.forms, placementHour)
}
