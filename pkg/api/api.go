// Package api defines the request and response messages of the nbang RPC
// services. Messages are plain structs encoded as JSON; amounts are decimal
// strings so they survive the wire without float rounding.
package api

import "github.com/shopspring/decimal"

// User is the public view of an account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Exclusion struct {
	ParticipantID   string `json:"participantId"`
	ParticipantName string `json:"participantName,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

type Round struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	PayerID    string          `json:"payerId"`
	PayerName  string          `json:"payerName"`
	Exclusions []*Exclusion    `json:"exclusions"`
	CreatedAt  int64           `json:"createdAt"`
}

type Gathering struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	StartDate    string         `json:"startDate"`
	EndDate      string         `json:"endDate"`
	Participants []*Participant `json:"participants"`
	Rounds       []*Round       `json:"rounds,omitempty"`
	CreatedAt    int64          `json:"createdAt"`
}

type CreateGatheringRequest struct {
	Name             string   `json:"name"`
	Type             string   `json:"type"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	ParticipantNames []string `json:"participantNames,omitempty"`
}

type CreateGatheringResponse struct {
	Gathering *Gathering `json:"gathering"`
}

type GetGatheringRequest struct {
	GatheringID string `json:"gatheringId"`
}

type GetGatheringResponse struct {
	Gathering *Gathering `json:"gathering"`
}

type ListGatheringsRequest struct{}

type ListGatheringsResponse struct {
	Gatherings []*Gathering `json:"gatherings"`
}

type UpdateGatheringRequest struct {
	GatheringID string `json:"gatheringId"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

type UpdateGatheringResponse struct {
	Gathering *Gathering `json:"gathering"`
}

type DeleteGatheringRequest struct {
	GatheringID string `json:"gatheringId"`
}

type DeleteGatheringResponse struct{}

type AddParticipantRequest struct {
	GatheringID string `json:"gatheringId"`
	Name        string `json:"name"`
}

type AddParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type RemoveParticipantRequest struct {
	GatheringID   string `json:"gatheringId"`
	ParticipantID string `json:"participantId"`
}

type RemoveParticipantResponse struct{}

type CreateRoundRequest struct {
	GatheringID string          `json:"gatheringId"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	PayerID     string          `json:"payerId"`
	Exclusions  []*Exclusion    `json:"exclusions,omitempty"`
}

type CreateRoundResponse struct {
	Round *Round `json:"round"`
}

type UpdateRoundRequest struct {
	RoundID    string          `json:"roundId"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	PayerID    string          `json:"payerId"`
	Exclusions []*Exclusion    `json:"exclusions,omitempty"`
}

type UpdateRoundResponse struct {
	Round *Round `json:"round"`
}

type DeleteRoundRequest struct {
	RoundID string `json:"roundId"`
}

type DeleteRoundResponse struct{}

// ParticipantBalance is one participant's position across all rounds.
type ParticipantBalance struct {
	ParticipantID string          `json:"participantId"`
	Name          string          `json:"name"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	TotalOwed     decimal.Decimal `json:"totalOwed"`
	NetBalance    decimal.Decimal `json:"netBalance"`
}

// Debt is a recommended transfer, in whole currency units.
type Debt struct {
	From              string          `json:"from"`
	To                string          `json:"to"`
	FromParticipantID string          `json:"fromParticipantId"`
	ToParticipantID   string          `json:"toParticipantId"`
	Amount            decimal.Decimal `json:"amount"`
}

type Calculation struct {
	GatheringID   string                `json:"gatheringId"`
	GatheringName string                `json:"gatheringName"`
	TotalAmount   decimal.Decimal       `json:"totalAmount"`
	Balances      []*ParticipantBalance `json:"balances"`
	Debts         []*Debt               `json:"debts"`
}

type CalculateRequest struct {
	GatheringID string `json:"gatheringId"`
}

type CalculateResponse struct {
	Calculation *Calculation `json:"calculation"`
}

type CreateShareLinkRequest struct {
	GatheringID string `json:"gatheringId"`
}

type CreateShareLinkResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type GetSharedSettlementRequest struct {
	Token string `json:"token"`
}

type GetSharedSettlementResponse struct {
	GatheringName string       `json:"gatheringName"`
	GatheringType string       `json:"gatheringType"`
	Calculation   *Calculation `json:"calculation"`
	Rounds        []*Round     `json:"rounds"`
	ExpiresAt     int64        `json:"expiresAt"`
}
