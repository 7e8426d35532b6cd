package contract

type CreateBoardRequest struct {
	Auth
	Title       string `json:"title"`
	Description string `json:"description"`
	WorkspaceID *int64 `json:"workspaceId,omitempty"`
}

type CreateNoteRequest struct {
	Auth
	BoardID     int64  `json:"planId"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

type CreateProjectRequest struct {
	Auth
	Name        string `json:"name"`
	Alias       string `json:"alias"`
	Description string `json:"description"`
	WorkspaceID *int64 `json:"workspaceId,omitempty"`
	// Tags is a "|" separated list of tag names.
	Tags      string `json:"tags"`
	StartDate string `json:"startDate"`
}

type CreateWorkspaceRequest struct {
	Auth
	Name                      string  `json:"name"`
	Description               string  `json:"description"`
	Active                    bool    `json:"active"`
	DefaultLanguage           string  `json:"defaultLanguage"`
	ShareAudiencesAndPersonas bool    `json:"shareAudiencesAndPersonas"`
	ShareChannels             bool    `json:"shareChannels"`
	EnableGenAI               *bool   `json:"enableGenAi,omitempty"`
	AvatarID                  *int64  `json:"avatarId,omitempty"`
	SquadID                   *int64  `json:"squadId,omitempty"`
	ExternalID                string  `json:"externalId"`
	Companies                 []int64 `json:"companies"`
}

// NewCreateWorkspaceRequest returns a request for an active workspace.
// Language and gen-AI settings left empty are inherited from the company.
func NewCreateWorkspaceRequest() CreateWorkspaceRequest {
	return CreateWorkspaceRequest{Active: true}
}
