// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, view, and request/response types for the dashboard.

# Domain Types

Data owned by the survey backend and read by the dashboard:

  - Campaign: survey initiative with active flag, response goal, and assigned researchers
  - SurveyResponse: one response, only its campaign association is used here
  - AuthenticatedUser: role and profile ID supplied by the auth collaborator
  - GeoPoint: payload of a single route update
  - Position / PositionError: what a position source delivers

# View Types

  - CampaignCard: one rendered campaign with count, goal, progress, and goal-met state
  - DashboardView: cards plus the empty-state message

# Constants

Roles:

	RoleFieldResearcher = "field_researcher"
	RoleSupervisor      = "supervisor"
	RoleAdmin           = "admin"

Only RoleFieldResearcher turns on location reporting.

Position error codes follow the Geolocation API:

	PositionPermissionDenied = 1
	PositionUnavailable      = 2
	PositionTimeout          = 3
*/
package models
