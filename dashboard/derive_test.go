package dashboard

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/fieldsurvey/models"
)

var me = &models.AuthenticatedUser{Role: models.RoleFieldResearcher, ProfileID: "r1"}

func sampleCampaigns() []models.Campaign {
	return []models.Campaign{
		{ID: "c1", Name: "Harbour Workers", IsActive: true, ResponseGoal: 10, ResearcherIDs: []string{"r1"}},
		{ID: "c2", Name: "Market Traders", IsActive: true, ResponseGoal: 4, ResearcherIDs: []string{"r2", "r1"}},
		{ID: "c3", Name: "Harbour Pilots", IsActive: false, ResponseGoal: 5, ResearcherIDs: []string{"r1"}},
		{ID: "c4", Name: "School Staff", IsActive: true, ResponseGoal: 0, ResearcherIDs: []string{"r2"}},
		{ID: "c5", Name: "ÉCOLE Parents", IsActive: true, ResponseGoal: 0, ResearcherIDs: []string{"r1"}},
	}
}

func ids(campaigns []models.Campaign) []string {
	out := []string{}
	for _, c := range campaigns {
		out = append(out, c.ID)
	}
	return out
}

func TestVisibleCampaigns(t *testing.T) {
	tests := []struct {
		name  string
		user  *models.AuthenticatedUser
		query string
		want  []string
	}{
		{"no user", nil, "", []string{}},
		{"empty query keeps every eligible campaign in order", me, "", []string{"c1", "c2", "c5"}},
		{"case-insensitive substring", me, "HARBOUR", []string{"c1"}},
		{"inactive excluded even when matching", me, "pilots", []string{}},
		{"unassigned excluded", me, "school", []string{}},
		{"unicode lowercasing", me, "école", []string{"c5"}},
		{"mid-word match", me, "rade", []string{"c2"}},
		{"other researcher", &models.AuthenticatedUser{Role: models.RoleFieldResearcher, ProfileID: "r2"}, "", []string{"c2", "c4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(VisibleCampaigns(tt.user, sampleCampaigns(), tt.query))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("VisibleCampaigns() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVisibleCampaigns_DoesNotMutateInput(t *testing.T) {
	campaigns := sampleCampaigns()
	before := sampleCampaigns()

	VisibleCampaigns(me, campaigns, "harbour")
	BuildView(me, campaigns, nil, "", false)

	if diff := cmp.Diff(before, campaigns); diff != "" {
		t.Errorf("input campaigns were modified (-before +after):\n%s", diff)
	}
}

func TestResponseCount(t *testing.T) {
	responses := []models.SurveyResponse{
		{ID: "s1", CampaignID: "c1"},
		{ID: "s2", CampaignID: "c2"},
		{ID: "s3", CampaignID: "c1"},
	}

	if got := ResponseCount("c1", responses); got != 2 {
		t.Errorf("ResponseCount(c1) = %d, want 2", got)
	}
	if got := ResponseCount("c9", responses); got != 0 {
		t.Errorf("ResponseCount(c9) = %d, want 0", got)
	}
	if got := ResponseCount("c1", nil); got != 0 {
		t.Errorf("ResponseCount with no responses = %d, want 0", got)
	}
}

func TestGoalAndProgress(t *testing.T) {
	tests := []struct {
		name         string
		count, goal  int
		wantMet      bool
		wantProgress float64
	}{
		{"no goal, no responses", 0, 0, false, 0},
		{"no goal, many responses", 50, 0, false, 0},
		{"negative goal", 3, -1, false, 0},
		{"over goal clamps", 12, 10, true, 100},
		{"exactly goal", 10, 10, true, 100},
		{"quarter", 1, 4, false, 25},
		{"fractional", 1, 3, false, 100.0 / 3},
		{"nothing yet", 0, 5, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GoalMet(tt.count, tt.goal); got != tt.wantMet {
				t.Errorf("GoalMet(%d, %d) = %v, want %v", tt.count, tt.goal, got, tt.wantMet)
			}
			if got := ProgressPercent(tt.count, tt.goal); got != tt.wantProgress {
				t.Errorf("ProgressPercent(%d, %d) = %v, want %v", tt.count, tt.goal, got, tt.wantProgress)
			}
		})
	}
}

func TestBuildCard(t *testing.T) {
	c := models.Campaign{ID: "c 1", Name: "Harbour", Theme: "labour", Description: "Dock workers", IsActive: true, ResponseGoal: 4, ResearcherIDs: []string{"r1"}}
	responses := []models.SurveyResponse{{ID: "s1", CampaignID: "c 1"}}

	want := models.CampaignCard{
		ID:            "c 1",
		Name:          "Harbour",
		Theme:         "labour",
		Description:   "Dock workers",
		ResponseCount: 1,
		ResponseGoal:  4,
		Progress:      25,
		GoalMet:       false,
		SurveyURL:     "/user/survey/c%201",
	}
	if diff := cmp.Diff(want, BuildCard(c, responses)); diff != "" {
		t.Errorf("BuildCard() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildView(t *testing.T) {
	responses := make([]models.SurveyResponse, 0, 12)
	for i := 0; i < 12; i++ {
		responses = append(responses, models.SurveyResponse{CampaignID: "c1"})
	}
	responses = append(responses, models.SurveyResponse{CampaignID: "c2"})

	view := BuildView(me, sampleCampaigns(), responses, "", false)

	if view.EmptyMessage != "" {
		t.Errorf("unexpected empty message %q", view.EmptyMessage)
	}
	if len(view.Cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(view.Cards))
	}
	if !view.Cards[0].GoalMet || view.Cards[0].Progress != 100 {
		t.Errorf("c1 card = %+v, want goal met at 100%%", view.Cards[0])
	}
	if view.Cards[1].GoalMet || view.Cards[1].Progress != 25 {
		t.Errorf("c2 card = %+v, want 25%%", view.Cards[1])
	}
	if view.Cards[2].GoalMet || view.Cards[2].Progress != 0 {
		t.Errorf("c5 card = %+v, no goal means 0%% and never met", view.Cards[2])
	}
}

func TestBuildView_EmptyStates(t *testing.T) {
	tests := []struct {
		name      string
		campaigns []models.Campaign
		query     string
		want      string
	}{
		{"no assignments", nil, "", NoAssignmentMessage},
		{"no match", sampleCampaigns(), "zzz", NoMatchMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := BuildView(me, tt.campaigns, nil, tt.query, false)
			if view.EmptyMessage != tt.want {
				t.Errorf("EmptyMessage = %q, want %q", view.EmptyMessage, tt.want)
			}
			if len(view.Cards) != 0 {
				t.Errorf("expected no cards, got %d", len(view.Cards))
			}
		})
	}
}

func TestBuildView_Loading(t *testing.T) {
	view := BuildView(me, sampleCampaigns(), nil, "", true)
	if !view.Loading || len(view.Cards) != 0 || view.EmptyMessage != "" {
		t.Errorf("loading view = %+v, want no cards and no empty message", view)
	}
}

func TestBuildView_TrackLocation(t *testing.T) {
	tests := []struct {
		name string
		user *models.AuthenticatedUser
		want bool
	}{
		{"field researcher", me, true},
		{"supervisor", &models.AuthenticatedUser{Role: models.RoleSupervisor, ProfileID: "r1"}, false},
		{"no user", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, loading := range []bool{true, false} {
				if got := BuildView(tt.user, sampleCampaigns(), nil, "", loading).TrackLocation; got != tt.want {
					t.Errorf("TrackLocation (loading=%v) = %v, want %v", loading, got, tt.want)
				}
			}
		})
	}
}
