package api

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/ballot-board/internal/crud"
	"github.com/saxenaaman628/ballot-board/internal/models"
)

type responseInput struct {
	Name      string `mapstructure:"name"`
	Attending bool   `mapstructure:"attending"`
	Comment   string `mapstructure:"comment"`
	CreatedAt string `mapstructure:"createdAt"`
}

type attendanceInput struct {
	Title     string          `mapstructure:"title"`
	Date      string          `mapstructure:"date"`
	Responses []responseInput `mapstructure:"responses"`
}

type attendanceSummary struct {
	*models.Attendance
	AttendingCount    int `json:"attendingCount"`
	NotAttendingCount int `json:"notAttendingCount"`
}

func validDate(body crud.Body, required bool) string {
	raw, ok := body["date"]
	if !ok && !required {
		return ""
	}
	s, _ := raw.(string)
	if _, err := time.Parse(models.DateLayout, strings.TrimSpace(s)); err != nil {
		return "date must be in YYYY-MM-DD format"
	}
	return ""
}

func validateAttendanceCreate(body crud.Body) crud.Validation {
	_, msg := requiredString(body, "title", maxNameLen)
	return validation(msg, validDate(body, true))
}

func validateAttendanceUpdate(body crud.Body) crud.Validation {
	return validation(optionalString(body, "title", maxNameLen), validDate(body, false))
}

func validateResponse(body crud.Body) crud.Validation {
	_, msg := requiredString(body, "name", maxNameLen)
	if msg == "" {
		if _, ok := body["attending"].(bool); !ok {
			msg = "attending must be a boolean"
		}
	}
	return validation(msg, optionalString(body, "comment", maxCommentLen))
}

func (a *API) response(in responseInput) (models.Response, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Response{}, crud.Invalidf("response name is required")
	}
	createdAt := in.CreatedAt
	if createdAt == "" {
		createdAt = a.timestamp()
	}
	return models.Response{
		Name:      name,
		Attending: in.Attending,
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: createdAt,
	}, nil
}

func (a *API) buildAttendance(body crud.Body, _ []*models.Attendance) (*models.Attendance, error) {
	var in attendanceInput
	if err := decode(body, &in); err != nil {
		return nil, err
	}
	now := a.timestamp()
	return &models.Attendance{
		ID:        a.newID(),
		Title:     strings.TrimSpace(in.Title),
		Date:      strings.TrimSpace(in.Date),
		Responses: []models.Response{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (a *API) applyAttendance(current *models.Attendance, body crud.Body) (*models.Attendance, error) {
	var in attendanceInput
	if err := decode(body, &in); err != nil {
		return nil, err
	}
	next := *current
	if _, ok := body["title"]; ok {
		next.Title = strings.TrimSpace(in.Title)
	}
	if _, ok := body["date"]; ok {
		next.Date = strings.TrimSpace(in.Date)
	}
	if raw, ok := body["responses"]; ok && raw != nil {
		responses := make([]models.Response, 0, len(in.Responses))
		for _, ri := range in.Responses {
			r, err := a.response(ri)
			if err != nil {
				return nil, err
			}
			responses = append(responses, r)
		}
		next.Responses = responses
	}
	next.UpdatedAt = a.timestamp()
	return &next, nil
}

// upsertResponse handles POST /attendance/:id/responses: one participant's
// answer replaces any earlier answer under the same name.
func (a *API) upsertResponse(current *models.Attendance, body crud.Body) (*models.Attendance, error) {
	var in responseInput
	if err := decode(body, &in); err != nil {
		return nil, err
	}
	r, err := a.response(in)
	if err != nil {
		return nil, err
	}
	next := *current
	next.Responses = append([]models.Response{}, current.Responses...)
	next.Upsert(r)
	next.UpdatedAt = a.timestamp()
	return &next, nil
}

func (a *API) attendanceHandlers() handlerSet {
	res := a.Attendance
	return handlerSet{
		list: crud.List(res, crud.ListOptions[*models.Attendance]{
			Less: func(x, y *models.Attendance) bool { return x.Date < y.Date },
			Transform: func(_ *gin.Context, items []*models.Attendance) any {
				out := make([]attendanceSummary, 0, len(items))
				for _, item := range items {
					if item.Responses == nil {
						item.Responses = []models.Response{}
					}
					yes, no := item.Counts()
					out = append(out, attendanceSummary{Attendance: item, AttendingCount: yes, NotAttendingCount: no})
				}
				return out
			},
		}),
		get: crud.Get(res, crud.GetOptions[*models.Attendance]{
			Attributes: func(item *models.Attendance) map[string]any {
				return map[string]any{"attendance.responses": len(item.Responses)}
			},
		}),
		create: crud.Create(res, crud.CreateOptions[*models.Attendance]{
			Validate: validateAttendanceCreate,
			Build:    a.buildAttendance,
		}),
		update: crud.Update(res, crud.UpdateOptions[*models.Attendance]{
			Validate: validateAttendanceUpdate,
			Apply:    a.applyAttendance,
		}),
		remove: crud.Delete(res, crud.DeleteOptions[*models.Attendance]{}),
	}
}

func (a *API) attendanceResponseHandler() gin.HandlerFunc {
	return crud.Update(a.Attendance, crud.UpdateOptions[*models.Attendance]{
		Validate:         validateResponse,
		Apply:            a.upsertResponse,
		SkipVersionCheck: true,
	})
}
