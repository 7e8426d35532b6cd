package flow

import (
	"context"
	"testing"

	"github.com/ekyte/intake/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalystChain(t *testing.T) {
	users := &fakeUsers{
		users: map[string]*domain.User{
			"member":     {ID: "member", Email: "member@acme.test"},
			"outsider":   {ID: "outsider", Email: "out@other.test"},
			"ws-analyst": {ID: "ws-analyst"},
			"co-analyst": {ID: "co-analyst"},
		},
		links: map[string]*domain.UserCompany{
			"member":   {UserID: "member", CompanyID: 2},
			"outsider": {UserID: "outsider", CompanyID: 9},
		},
	}
	chain := NewAnalystChain(users)

	tests := []struct {
		name string
		q    AnalystQuery
		want string
	}{
		{"requested member", AnalystQuery{CompanyID: 2, RequestedEmail: "member@acme.test", WorkspaceAnalystID: "ws-analyst", OwnerID: "owner"}, "member"},
		{"requested outsider is ignored", AnalystQuery{CompanyID: 2, RequestedEmail: "out@other.test", WorkspaceAnalystID: "ws-analyst", OwnerID: "owner"}, "ws-analyst"},
		{"unknown requested email", AnalystQuery{CompanyID: 2, RequestedEmail: "ghost@acme.test", CompanyAnalystID: "co-analyst", OwnerID: "owner"}, "co-analyst"},
		{"deleted workspace analyst", AnalystQuery{CompanyID: 2, WorkspaceAnalystID: "gone", CompanyAnalystID: "co-analyst", OwnerID: "owner"}, "co-analyst"},
		{"owner fallback", AnalystQuery{CompanyID: 2, CompanyAnalystID: "gone", OwnerID: "owner"}, "owner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := chain.Resolve(context.Background(), tt.q)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
