package service

import (
	"time"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/models"
)

// Outcome of a movement write.
const (
	OutcomeSynced    = "synced"
	OutcomeLocalOnly = "local_only"
)

// Return modes of the checkout form.
const (
	ReturnModeHours = "hours"
	ReturnModeDays  = "days"
)

// Empty is the message of procedures that take or return nothing.
type Empty struct{}

// MovementView is the wire form of a movement. Times are RFC 3339; absent
// times are omitted.
type MovementView struct {
	ID                string `json:"id"`
	Requester         string `json:"requester"`
	Tool              string `json:"tool"`
	AssetTag          string `json:"assetTag,omitempty"`
	Kind              string `json:"kind"`
	Project           string `json:"project,omitempty"`
	CheckedOutAt      string `json:"checkedOutAt,omitempty"`
	ExpectedReturnAt  string `json:"expectedReturnAt,omitempty"`
	SameDayReturn     bool   `json:"sameDayReturn"`
	HasExpectedReturn bool   `json:"hasExpectedReturn"`
	ReturnedAt        string `json:"returnedAt,omitempty"`
	Notes             string `json:"notes,omitempty"`
	CreatedAt         int64  `json:"createdAt"`
}

type ToolView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	AssetTags   []string `json:"assetTags"`
	Description string   `json:"description,omitempty"`
	Available   int      `json:"available"`
}

type RequesterView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ProjectView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SubmitCheckoutRequest mirrors the checkout form. Dates are YYYY-MM-DD and
// times HH:MM. In hours mode ReturnTime is required and the expected return
// is the checkout day at that time; in days mode ReturnDate is required.
type SubmitCheckoutRequest struct {
	Requester    string `json:"requester"`
	Tool         string `json:"tool"`
	AssetTag     string `json:"assetTag"`
	Project      string `json:"project"`
	CheckoutDate string `json:"checkoutDate"`
	CheckoutTime string `json:"checkoutTime"`
	ReturnMode   string `json:"returnMode"`
	ReturnTime   string `json:"returnTime"`
	ReturnDate   string `json:"returnDate"`
	Notes        string `json:"notes"`
}

// MovementResponse reports a committed movement and whether it also
// reached the remote spreadsheet.
type MovementResponse struct {
	Movement MovementView `json:"movement"`
	Outcome  string       `json:"outcome"`
	Message  string       `json:"message"`
}

type ReportBrokenRequest struct {
	Requester string `json:"requester"`
	Tool      string `json:"tool"`
	AssetTag  string `json:"assetTag"`
	Notes     string `json:"notes"`
}

// RecordReturnRequest closes a checkout. ReturnedAt is RFC 3339 and
// defaults to now.
type RecordReturnRequest struct {
	MovementID string `json:"movementId"`
	ReturnedAt string `json:"returnedAt"`
}

type RecordReturnResponse struct {
	Movement MovementView `json:"movement"`
}

type CountView struct {
	Key     string `json:"key"`
	Count   int    `json:"count"`
	Percent string `json:"percent"`
}

type MonthView struct {
	Month int    `json:"month"`
	Year  int    `json:"year"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type DashboardResponse struct {
	TotalMovements   int         `json:"totalMovements"`
	StockTotal       int         `json:"stockTotal"`
	InUse            int         `json:"inUse"`
	Broken           int         `json:"broken"`
	Available        int         `json:"available"`
	InUsePercent     string      `json:"inUsePercent"`
	BrokenPercent    string      `json:"brokenPercent"`
	AvailablePercent string      `json:"availablePercent"`
	ByTool           []CountView `json:"byTool"`
	ByRequester      []CountView `json:"byRequester"`
	ByMonth          []MonthView `json:"byMonth"`
}

// ToolOption is one entry of the form's tool picker.
type ToolOption struct {
	Name      string   `json:"name"`
	Available int      `json:"available"`
	Label     string   `json:"label"`
	AssetTags []string `json:"assetTags"`
}

type ListToolOptionsResponse struct {
	Options []ToolOption `json:"options"`
}

type ListRequestersResponse struct {
	Requesters []RequesterView `json:"requesters"`
}

type ListProjectsResponse struct {
	Projects []ProjectView `json:"projects"`
}

type ListToolsResponse struct {
	Tools []ToolView `json:"tools"`
}

// AddToolsRequest holds one tool per line as "Name:tag1,tag2".
type AddToolsRequest struct {
	Text string `json:"text"`
}

// UpdateToolRequest replaces a tool's name, description and asset tags.
type UpdateToolRequest struct {
	ToolID      string   `json:"toolId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	AssetTags   []string `json:"assetTags"`
}

type UpdateToolResponse struct {
	Tool ToolView `json:"tool"`
}

type RemoveToolRequest struct {
	ToolID string `json:"toolId"`
}

type RemoveAssetTagRequest struct {
	ToolID   string `json:"toolId"`
	AssetTag string `json:"assetTag"`
}

// AddNamesRequest holds one requester or project name per line.
type AddNamesRequest struct {
	Text string `json:"text"`
}

type RemoveProjectRequest struct {
	ProjectID string `json:"projectId"`
}

type ListMovementsResponse struct {
	Movements []MovementView `json:"movements"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	Username  string `json:"username"`
}

func formatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(time.RFC3339)
}

func toMovementView(m *models.Movement, loc *time.Location) MovementView {
	return MovementView{
		ID:                m.ID,
		Requester:         m.Requester,
		Tool:              m.Tool,
		AssetTag:          m.AssetTag,
		Kind:              string(m.Kind),
		Project:           m.Project,
		CheckedOutAt:      formatTime(m.CheckedOutAt, loc),
		ExpectedReturnAt:  formatTime(m.ExpectedReturnAt, loc),
		SameDayReturn:     m.SameDayReturn,
		HasExpectedReturn: m.HasExpectedReturn,
		ReturnedAt:        formatTime(m.ReturnedAt, loc),
		Notes:             m.Notes,
		CreatedAt:         m.CreatedAt,
	}
}

func toToolView(t *models.Tool) ToolView {
	tags := t.AssetTags
	if tags == nil {
		tags = []string{}
	}
	return ToolView{
		ID:          t.ID,
		Name:        t.Name,
		AssetTags:   tags,
		Description: t.Description,
		Available:   t.Available(),
	}
}

func toRequesterViews(requesters []*models.Requester) []RequesterView {
	views := make([]RequesterView, 0, len(requesters))
	for _, r := range requesters {
		views = append(views, RequesterView{ID: r.ID, Name: r.Name})
	}
	return views
}

func toProjectViews(projects []*models.Project) []ProjectView {
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, ProjectView{ID: p.ID, Name: p.Name})
	}
	return views
}
