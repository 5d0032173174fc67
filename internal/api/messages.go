package api

import (
	"time"

	"github.com/dmitrijs2005/gophreach/internal/server/models"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	Identity    models.Identity `json:"identity"`
}

type RegisterRequest struct {
	NationalID          string `json:"national_id"`
	FullName            string `json:"full_name"`
	Phone               string `json:"phone"`
	Email               string `json:"email,omitempty"`
	Locality            string `json:"locality"`
	ReferredByContactID string `json:"referred_by_contact_id,omitempty"`
	ReferredByName      string `json:"referred_by_name,omitempty"`
	Notes               string `json:"notes,omitempty"`
}

type RegisterResponse struct {
	Contact models.Contact `json:"contact"`
	Updated bool           `json:"updated"`
}

type SearchContactsRequest struct {
	Query string `json:"query"`
}

type SearchContactsResponse struct {
	Matches []models.ContactMatch `json:"matches"`
}

type CatalogRequest struct{}

type CatalogResponse struct {
	Localities    []string              `json:"localities"`
	Roles         []models.Role         `json:"roles"`
	States        []models.State        `json:"states"`
	ActivityKinds []models.ActivityKind `json:"activity_kinds"`
	Event         models.EventInfo      `json:"event"`
	Templates     []models.Template     `json:"templates"`
}

type MeRequest struct{}

type MeResponse struct {
	Identity models.Identity `json:"identity"`
}

type ListContactsRequest struct{}

type ListContactsResponse struct {
	Contacts []models.Contact `json:"contacts"`
}

type GetContactRequest struct {
	ContactID string `json:"contact_id"`
}

type GetContactResponse struct {
	Contact models.Contact `json:"contact"`
}

type ApplyOutcomeRequest struct {
	TargetID         string `json:"target_id"`
	CallOutcome      string `json:"call_outcome,omitempty"`
	MessagingOutcome string `json:"messaging_outcome,omitempty"`
	PersonResponse   string `json:"person_response,omitempty"`
	Note             string `json:"note,omitempty"`
	Observations     string `json:"observations,omitempty"`
	TemplateName     string `json:"template_name,omitempty"`
}

type ApplyOutcomeResponse struct {
	NewState models.State             `json:"new_state"`
	Contact  *models.Contact          `json:"contact,omitempty"`
	Record   *models.HistoricalRecord `json:"record,omitempty"`
	Entries  []models.Activity        `json:"entries"`
}

type ListBaseRequest struct {
	Filter   string `json:"filter,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

type ListBaseResponse struct {
	Records  []models.HistoricalRecord `json:"records"`
	Total    int                       `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
}

type StatsRequest struct{}

type StatsResponse struct {
	Pending  int                    `json:"pending"`
	Attended int                    `json:"attended"`
	Total    int                    `json:"total"`
	Timeline []models.TimelinePoint `json:"timeline"`
}

type AutoAssignRequest struct {
	Count int `json:"count,omitempty"`
}

type AllocationFailure struct {
	NationalID string `json:"national_id"`
	Error      string `json:"error"`
}

type AutoAssignResponse struct {
	Assigned []models.HistoricalRecord `json:"assigned"`
	Failed   []AllocationFailure       `json:"failed,omitempty"`
}

type AssignRequest struct {
	ContactID  string `json:"contact_id,omitempty"`
	NationalID string `json:"national_id,omitempty"`
	UserID     string `json:"user_id"`
}

type AssignResponse struct {
	Assignment models.Assignment `json:"assignment"`
	Created    bool              `json:"created"`
}

type ListAssignmentsRequest struct{}

type ListAssignmentsResponse struct {
	Assignments []models.Assignment `json:"assignments"`
}

type DeactivateAssignmentRequest struct {
	AssignmentID string `json:"assignment_id"`
}

type DeactivateAssignmentResponse struct {
	Assignment models.Assignment `json:"assignment"`
}

type MyQueueRequest struct {
	Limit int `json:"limit,omitempty"`
}

type MyQueueResponse struct {
	Items    []models.HistoricalRecord `json:"items"`
	Pending  int                       `json:"pending"`
	Assigned int                       `json:"assigned"`
}

// ListActivityRequest filters by contact id or national id.
type ListActivityRequest struct {
	Key string `json:"key"`
}

type ListActivityResponse struct {
	Entries []models.Activity `json:"entries"`
}

type TeamReportRequest struct{}

type MemberProgress struct {
	UserID         string      `json:"user_id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           models.Role `json:"role"`
	Assigned       int         `json:"assigned"`
	Managed        int         `json:"managed"`
	Confirmed      int         `json:"confirmed"`
	Rejected       int         `json:"rejected"`
	Pending        int         `json:"pending"`
	CompletionRate float64     `json:"completion_rate"`
}

type TeamReportResponse struct {
	Members []MemberProgress `json:"members"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []models.User `json:"users"`
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type CreateUserResponse struct {
	User models.User `json:"user"`
}

type ListTemplatesRequest struct{}

type ListTemplatesResponse struct {
	Templates []models.Template `json:"templates"`
}

type SaveTemplateRequest struct {
	Template models.Template `json:"template"`
}

type SaveTemplateResponse struct {
	Template models.Template `json:"template"`
}

type RenderTemplateRequest struct {
	TemplateID string `json:"template_id,omitempty"`
	Content    string `json:"content,omitempty"`
	TargetID   string `json:"target_id"`
}

type RenderTemplateResponse struct {
	Text string `json:"text"`
}

type ExportWorkbookRequest struct{}

type ExportWorkbookResponse struct {
	Key       string         `json:"key"`
	URL       string         `json:"url"`
	ExpiresAt time.Time      `json:"expires_at"`
	Rows      map[string]int `json:"rows"`
}
