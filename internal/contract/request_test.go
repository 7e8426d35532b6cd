package contract

import (
	"context"
	"testing"
	"time"

	"github.com/ekyte/intake/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateTaskRequest_Planned(t *testing.T) {
	req := NewCreateTaskRequest()
	assert.True(t, req.PlanTask)
	assert.Nil(t, req.PriorityGroup)
	assert.Nil(t, req.ProjectID)
}

func TestNewCreateTicketRequest_DefaultsToRequest(t *testing.T) {
	assert.Equal(t, domain.TicketRequest, NewCreateTicketRequest().Type)
}

func TestNewCreateWorkspaceRequest_Active(t *testing.T) {
	req := NewCreateWorkspaceRequest()
	assert.True(t, req.Active)
	assert.Empty(t, req.DefaultLanguage)
	assert.Nil(t, req.EnableGenAI)
}

func TestCaller(t *testing.T) {
	_, ok := CallerFrom(context.Background())
	assert.False(t, ok)

	id, ok := CallerFrom(WithCaller(context.Background(), 7))
	require.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, time.April, 12, 0, 0, 0, 0, time.UTC)

	d, err := ParseDate("2024-04-12", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, want, *d)

	d, err = ParseDate("2024-04-12T15:30:00Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, want, *d)

	d, err = ParseDate("  ", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseDate("12/04/2024", time.UTC)
	assert.Error(t, err)
}

func TestParseStrictDate_RejectsTimestamps(t *testing.T) {
	_, err := ParseStrictDate("2024-04-12T15:30:00Z", time.UTC)
	assert.Error(t, err)

	d, err := ParseStrictDate("2024-04-12", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 12, d.Day())
}

func TestCreated_String(t *testing.T) {
	assert.Equal(t, "Created task 42", Created{Entity: "task", ID: 42}.String())
}
