package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/ballot-board/internal/crud"
	"github.com/saxenaaman628/ballot-board/internal/models"
)

type dashboardInput struct {
	Name          string   `mapstructure:"name"`
	BallotIDs     []string `mapstructure:"ballotIds"`
	AttendanceIDs []string `mapstructure:"attendanceIds"`
}

type dashboardSummary struct {
	*models.Dashboard
	BallotCount     int `json:"ballotCount"`
	AttendanceCount int `json:"attendanceCount"`
}

func validateDashboardCreate(body crud.Body) crud.Validation {
	_, msg := requiredString(body, "name", maxNameLen)
	return validation(
		msg,
		optionalStringList(body, "ballotIds"),
		optionalStringList(body, "attendanceIds"),
	)
}

func validateDashboardUpdate(body crud.Body) crud.Validation {
	return validation(
		optionalString(body, "name", maxNameLen),
		optionalStringList(body, "ballotIds"),
		optionalStringList(body, "attendanceIds"),
	)
}

// buildDashboard rejects a name already used by another dashboard.
func (a *API) buildDashboard(body crud.Body, existing []*models.Dashboard) (*models.Dashboard, error) {
	var in dashboardInput
	if err := decode(body, &in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	for _, d := range existing {
		if strings.EqualFold(d.Name, name) {
			return nil, crud.Invalidf("A dashboard named %q already exists", name)
		}
	}
	now := a.timestamp()
	return &models.Dashboard{
		ID:            a.newID(),
		Name:          name,
		BallotIDs:     uniqueIDs(in.BallotIDs),
		AttendanceIDs: uniqueIDs(in.AttendanceIDs),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (a *API) applyDashboard(current *models.Dashboard, body crud.Body) (*models.Dashboard, error) {
	var in dashboardInput
	if err := decode(body, &in); err != nil {
		return nil, err
	}
	next := *current
	if _, ok := body["name"]; ok {
		next.Name = strings.TrimSpace(in.Name)
	}
	if _, ok := body["ballotIds"]; ok {
		next.BallotIDs = uniqueIDs(in.BallotIDs)
	}
	if _, ok := body["attendanceIds"]; ok {
		next.AttendanceIDs = uniqueIDs(in.AttendanceIDs)
	}
	next.UpdatedAt = a.timestamp()
	return &next, nil
}

func (a *API) dashboardHandlers() handlerSet {
	res := a.Dashboards
	return handlerSet{
		list: crud.List(res, crud.ListOptions[*models.Dashboard]{
			Transform: func(_ *gin.Context, items []*models.Dashboard) any {
				out := make([]dashboardSummary, 0, len(items))
				for _, d := range items {
					out = append(out, dashboardSummary{
						Dashboard:       d,
						BallotCount:     len(d.BallotIDs),
						AttendanceCount: len(d.AttendanceIDs),
					})
				}
				return out
			},
		}),
		get: crud.Get(res, crud.GetOptions[*models.Dashboard]{
			Attributes: func(d *models.Dashboard) map[string]any {
				return map[string]any{
					"dashboard.ballots":    len(d.BallotIDs),
					"dashboard.attendance": len(d.AttendanceIDs),
				}
			},
		}),
		create: crud.Create(res, crud.CreateOptions[*models.Dashboard]{
			Validate: validateDashboardCreate,
			Build:    a.buildDashboard,
		}),
		update: crud.Update(res, crud.UpdateOptions[*models.Dashboard]{
			Validate: validateDashboardUpdate,
			Apply:    a.applyDashboard,
		}),
		remove: crud.Delete(res, crud.DeleteOptions[*models.Dashboard]{}),
	}
}
