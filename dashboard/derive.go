// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dashboard

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/danielhkuo/fieldsurvey/models"
)

// Empty-state messages
const (
	NoMatchMessage      = "No campaigns match your search."
	NoAssignmentMessage = "You have no active campaigns assigned to you yet."
)

// SurveyPath is the survey-taking route for a campaign
func SurveyPath(campaignID string) string {
	return "/user/survey/" + url.PathEscape(campaignID)
}

// VisibleCampaigns returns, in input order, the active campaigns assigned to
// user whose name contains query, ignoring case. No user means no campaigns.
func VisibleCampaigns(user *models.AuthenticatedUser, campaigns []models.Campaign, query string) []models.Campaign {
	if user == nil {
		return nil
	}

	lower := cases.Lower(language.Und)
	needle := lower.String(query)

	visible := []models.Campaign{}
	for _, c := range campaigns {
		if !c.IsActive {
			continue
		}
		if !c.AssignedTo(user.ProfileID) {
			continue
		}
		if !strings.Contains(lower.String(c.Name), needle) {
			continue
		}
		visible = append(visible, c)
	}
	return visible
}

// ResponseCount counts the responses that belong to campaignID
func ResponseCount(campaignID string, responses []models.SurveyResponse) int {
	count := 0
	for _, r := range responses {
		if r.CampaignID == campaignID {
			count++
		}
	}
	return count
}

// GoalMet reports whether a non-zero goal has been reached
func GoalMet(count, goal int) bool {
	return goal > 0 && count >= goal
}

// ProgressPercent is the bar width for count out of goal, capped at 100.
// A goal of zero or less always yields 0.
func ProgressPercent(count, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	return min(100, 100*float64(count)/float64(goal))
}

// BuildCard derives the card for one visible campaign
func BuildCard(c models.Campaign, responses []models.SurveyResponse) models.CampaignCard {
	count := ResponseCount(c.ID, responses)
	return models.CampaignCard{
		ID:            c.ID,
		Name:          c.Name,
		Theme:         c.Theme,
		Description:   c.Description,
		ResponseCount: count,
		ResponseGoal:  c.ResponseGoal,
		Progress:      ProgressPercent(count, c.ResponseGoal),
		GoalMet:       GoalMet(count, c.ResponseGoal),
		SurveyURL:     SurveyPath(c.ID),
	}
}

// BuildView derives the whole dashboard. It does not modify its inputs.
func BuildView(user *models.AuthenticatedUser, campaigns []models.Campaign, responses []models.SurveyResponse, query string, loading bool) models.DashboardView {
	view := models.DashboardView{
		Loading:       loading,
		Query:         query,
		Cards:         []models.CampaignCard{},
		TrackLocation: user.IsFieldResearcher(),
	}
	if loading {
		return view
	}

	for _, c := range VisibleCampaigns(user, campaigns, query) {
		view.Cards = append(view.Cards, BuildCard(c, responses))
	}

	if len(view.Cards) == 0 {
		if query != "" {
			view.EmptyMessage = NoMatchMessage
		} else {
			view.EmptyMessage = NoAssignmentMessage
		}
	}
	return view
}
