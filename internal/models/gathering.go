package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the format of gathering start and end dates.
const DateLayout = "2006-01-02"

// GatheringType classifies what a gathering is for.
type GatheringType string

const (
	GatheringTravel   GatheringType = "TRAVEL"
	GatheringDining   GatheringType = "DINING"
	GatheringMeeting  GatheringType = "MEETING"
	GatheringDate     GatheringType = "DATE"
	GatheringCeremony GatheringType = "CEREMONY"
	GatheringHobby    GatheringType = "HOBBY"
	GatheringOther    GatheringType = "OTHER"
)

var gatheringTypes = []GatheringType{
	GatheringTravel,
	GatheringDining,
	GatheringMeeting,
	GatheringDate,
	GatheringCeremony,
	GatheringHobby,
	GatheringOther,
}

// ParseGatheringType resolves a case-insensitive type name.
// An empty value defaults to GatheringOther.
func ParseGatheringType(value string) (GatheringType, error) {
	if value == "" {
		return GatheringOther, nil
	}
	upper := GatheringType(strings.ToUpper(value))
	for _, t := range gatheringTypes {
		if t == upper {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown gathering type: %s", value)
}

// Gathering is an event whose expenses are settled together.
type Gathering struct {
	// ID is the unique identifier for the gathering (UUID format).
	ID string

	// OwnerID is the user who created the gathering.
	// Only the owner can modify it or create share links for it.
	OwnerID string

	// Name is the display name (e.g., "Jeju trip", "Team dinner").
	Name string

	// Type classifies the gathering.
	Type GatheringType

	// StartDate and EndDate bound the gathering, formatted with DateLayout.
	StartDate string
	EndDate   string

	// Participants are the people sharing costs, in the order they were added.
	// Populated by the store on reads.
	Participants []Participant

	// CreatedAt is the Unix timestamp when the gathering was created.
	CreatedAt int64
}

// IsOwnedBy reports whether userID owns the gathering.
func (g *Gathering) IsOwnedBy(userID string) bool {
	return g.OwnerID == userID
}

// ValidateDates checks that both dates parse and start is not after end.
func ValidateDates(startDate, endDate string) error {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if start.After(end) {
		return fmt.Errorf("start date %s is after end date %s", startDate, endDate)
	}
	return nil
}

// Participant is a person taking part in one gathering.
type Participant struct {
	ID          string
	GatheringID string
	Name        string
}
