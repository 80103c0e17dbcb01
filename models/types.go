package models

import "time"

// Role constants
type Role string

const (
	RoleFieldResearcher Role = "field_researcher"
	RoleSupervisor      Role = "supervisor"
	RoleAdmin           Role = "admin"
)

// Position error codes, same numbering as the browser Geolocation API
const (
	PositionPermissionDenied = 1
	PositionUnavailable      = 2
	PositionTimeout          = 3
)

// Domain types

type Campaign struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Theme         string   `json:"theme"`
	IsActive      bool     `json:"isActive"`
	ResponseGoal  int      `json:"responseGoal"` // 0 means no goal
	ResearcherIDs []string `json:"researcherIds"`
}

// AssignedTo reports whether profileID is among the campaign's researchers
func (c Campaign) AssignedTo(profileID string) bool {
	for _, id := range c.ResearcherIDs {
		if id == profileID {
			return true
		}
	}
	return false
}

type SurveyResponse struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaignId"`
}

type AuthenticatedUser struct {
	Role      Role   `json:"role"`
	ProfileID string `json:"profileId"`
}

// IsFieldResearcher reports whether the user should report their location
func (u *AuthenticatedUser) IsFieldResearcher() bool {
	return u != nil && u.Role == RoleFieldResearcher
}

// GeoPoint is the payload of one route update. It is built per accepted
// sample, sent once and dropped.
type GeoPoint struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
}

// Position is one sample delivered by a position source. Timestamp is the
// time reported by the device, not the time the sample reached us.
type Position struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type PositionError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e PositionError) Error() string {
	return e.Message
}

// View types

type CampaignCard struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Theme         string  `json:"theme"`
	Description   string  `json:"description"`
	ResponseCount int     `json:"response_count"`
	ResponseGoal  int     `json:"response_goal"`
	Progress      float64 `json:"progress"`
	GoalMet       bool    `json:"goal_met"`
	SurveyURL     string  `json:"survey_url"`
}

type DashboardView struct {
	Loading      bool           `json:"loading"`
	Query        string         `json:"query"`
	Cards        []CampaignCard `json:"cards"`
	EmptyMessage string         `json:"empty_message,omitempty"`

	// TrackLocation tells the tab whether to report its position
	TrackLocation bool `json:"track_location"`
}

// Request types

type CapabilityRequest struct {
	Geolocation bool `json:"geolocation"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
