package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fullgorilla/internal/models/request_models"
	"fullgorilla/internal/models/response_models"
	"fullgorilla/internal/services"
	"fullgorilla/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	now              func() time.Time
}

func NewDashboardController(dashboardService services.DashboardServiceInterface) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		now:              time.Now,
	}
}

// MealPlan godoc
// @Summary Weekly meal plan
// @Description Builds the week's meal plan from the cookbooks the account can open
// @Tags Dashboard
// @Produce json
// @Param week query string false "Any date in the wanted week (YYYY-MM-DD). Defaults to the current week"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dashboard/meal-plan [get]
func (d *DashboardController) MealPlan(c *gin.Context) {
	id, ok := currentAccount(c)
	if !ok {
		return
	}

	weekOf := d.now().UTC()
	if week := c.Query("week"); week != "" {
		parsed, err := time.Parse(time.DateOnly, week)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "week must be a date (e.g. 2025-03-10)")
			return
		}
		weekOf = parsed
	}

	plan, err := d.dashboardService.MealPlan(c.Request.Context(), id, weekOf)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Meal plan fetched successfully")
}

// RateMeal godoc
// @Summary Rate a meal
// @Description Records or replaces the account's rating for a meal
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param id path int true "Meal ID"
// @Param request body request_models.RateMealRequest true "Rating payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dashboard/meals/{id}/rating [post]
func (d *DashboardController) RateMeal(c *gin.Context) {
	id, ok := currentAccount(c)
	if !ok {
		return
	}

	mealID, err := strconv.Atoi(c.Param("id"))
	if err != nil || mealID <= 0 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid meal ID")
		return
	}

	var req request_models.RateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	rating, err := d.dashboardService.RateMeal(c.Request.Context(), id, mealID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, rating, "Meal rated successfully")
}

// Ratings godoc
// @Summary List my meal ratings
// @Tags Dashboard
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dashboard/ratings [get]
func (d *DashboardController) Ratings(c *gin.Context) {
	id, ok := currentAccount(c)
	if !ok {
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page parameter")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size parameter")
		return
	}

	ratings, err := d.dashboardService.Ratings(c.Request.Context(), id, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, ratings, "Ratings fetched successfully")
}

// Stats godoc
// @Summary Admin dashboard report
// @Description KPI blocks, new user and completion series, plan mix and top cookbooks
// @Tags Admin
// @Produce json
// @Param start    query string false "RFC3339 start (e.g. 2025-03-01T00:00:00Z)"
// @Param end      query string false "RFC3339 end   (e.g. 2025-03-31T23:59:59Z)"
// @Param last_days query int   false "Relative lookback in days (mutually exclusive with start/end). Default 30"
// @Param interval query string false "Bucket size: day | week | month (default: day)"
// @Param tz       query string false "IANA timezone for bucketing (default: UTC)"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/dashboard/stats [get]
func (d *DashboardController) Stats(c *gin.Context) {
	interval := c.DefaultQuery("interval", "day")
	tz := c.DefaultQuery("tz", "UTC")

	if !validInterval(interval) {
		utils.RespondError(c, http.StatusBadRequest, "interval must be one of: day, week, month")
		return
	}
	if _, err := time.LoadLocation(tz); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "tz must be an IANA timezone (e.g. America/New_York)")
		return
	}

	var (
		start, end time.Time
		err        error
	)

	startStr := c.Query("start")
	endStr := c.Query("end")
	lastDaysStr := c.Query("last_days")

	if lastDaysStr != "" && (startStr != "" || endStr != "") {
		utils.RespondError(c, http.StatusBadRequest, "provide either last_days or start/end (not both)")
		return
	}

	switch {
	case lastDaysStr != "":
		days, convErr := strconv.Atoi(lastDaysStr)
		if convErr != nil || days <= 0 {
			utils.RespondError(c, http.StatusBadRequest, "last_days must be a positive integer")
			return
		}
		end = d.now().UTC()
		start = end.AddDate(0, 0, -days)

	default:
		if startStr != "" {
			start, err = time.Parse(time.RFC3339, startStr)
			if err != nil {
				utils.RespondError(c, http.StatusBadRequest, "start must be RFC3339 (e.g. 2025-03-01T00:00:00Z)")
				return
			}
		}
		if endStr != "" {
			end, err = time.Parse(time.RFC3339, endStr)
			if err != nil {
				utils.RespondError(c, http.StatusBadRequest, "end must be RFC3339 (e.g. 2025-03-31T23:59:59Z)")
				return
			}
		}
	}

	report, err := d.dashboardService.BuildReport(c.Request.Context(), response_models.TimeRange{
		Start:    start,
		End:      end,
		Interval: interval,
		Timezone: tz,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, report, "Dashboard data fetched successfully")
}

func validInterval(s string) bool {
	switch s {
	case "day", "week", "month":
		return true
	default:
		return false
	}
}
