package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/limaJavier/classscheduler/internal/api/response"
	"github.com/limaJavier/classscheduler/internal/config"
	"github.com/limaJavier/classscheduler/internal/export"
	"github.com/limaJavier/classscheduler/internal/report"
	"github.com/limaJavier/classscheduler/internal/store"
	"github.com/limaJavier/classscheduler/pkg/model"
)

const (
	FormatJson = "json"
	FormatIcs  = "ics"
	FormatXlsx = "xlsx"
)

// SchedulerHandler serves schedule synthesis and validation
type SchedulerHandler struct {
	scheduler *model.Scheduler
	datasets  store.DatasetRepository
	search    config.SearchConfig
	term      export.Term
	logger    *zap.Logger
}

func NewSchedulerHandler(
	scheduler *model.Scheduler,
	datasets store.DatasetRepository,
	search config.SearchConfig,
	term export.Term,
	logger *zap.Logger,
) *SchedulerHandler {
	return &SchedulerHandler{
		scheduler: scheduler,
		datasets:  datasets,
		search:    search,
		term:      term,
		logger:    logger,
	}
}

// Schedule returns the conflict-minimal schedule found by the configured strategy
// POST /api/v1/class-scheduler
func (h *SchedulerHandler) Schedule(c *gin.Context) {
	h.synthesizePayload(c, h.search.Strategy)
}

// ScheduleOptimal returns the ranked list of best schedules
// POST /api/v1/class-scheduler-optimal
func (h *SchedulerHandler) ScheduleOptimal(c *gin.Context) {
	h.synthesizePayload(c, model.StrategyRanked)
}

// ScheduleDataset runs a synthesis over a saved dataset, the body only carries options
// POST /api/datasets/:id/schedule?strategy=ranked
func (h *SchedulerHandler) ScheduleDataset(c *gin.Context) {
	dataset, err := h.datasets.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	catalog, err := dataset.Catalog()
	if err != nil {
		handleError(c, err)
		return
	}

	inputJson := map[string]any{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&inputJson); err != nil {
			response.BadRequest(c, response.CodeBadRequest, fmt.Sprintf("invalid json: %v", err))
			return
		}
	}
	_, rawOptions, err := model.DecodeRawCatalog(inputJson)
	if err != nil {
		handleError(c, err)
		return
	}

	h.synthesize(c, c.DefaultQuery("strategy", h.search.Strategy), catalog, rawOptions)
}

// Validate reports the conflicts of a hand-made selection
// POST /api/v1/class-scheduler/validate
func (h *SchedulerHandler) Validate(c *gin.Context) {
	inputJson, ok := bindJson(c)
	if !ok {
		return
	}

	catalog, _, err := decodeCatalog(inputJson)
	if err != nil {
		handleError(c, err)
		return
	}
	selections, err := model.DecodeSelections(inputJson)
	if err != nil {
		handleError(c, err)
		return
	}

	conflicts, err := h.scheduler.Validate(catalog, selections)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report.NewValidation(catalog, conflicts))
}

func (h *SchedulerHandler) synthesizePayload(c *gin.Context, strategy string) {
	inputJson, ok := bindJson(c)
	if !ok {
		return
	}
	catalog, rawOptions, err := decodeCatalog(inputJson)
	if err != nil {
		handleError(c, err)
		return
	}
	h.synthesize(c, strategy, catalog, rawOptions)
}

func (h *SchedulerHandler) synthesize(c *gin.Context, strategy string, catalog model.Catalog, rawOptions model.RawOptions) {
	format := c.DefaultQuery("format", FormatJson)
	if format != FormatJson && format != FormatIcs && format != FormatXlsx {
		response.BadRequest(c, response.CodeBadRequest, fmt.Sprintf("unknown format %q", format))
		return
	}

	options, err := rawOptions.Options(h.search.DefaultResultCount, h.search.MaxResultCount, h.search.ExcludeWeekend)
	if err != nil {
		handleError(c, err)
		return
	}
	// Requests may lower the server budget but never raise it
	if options.MaxExplored == 0 || (h.search.MaxExplored > 0 && options.MaxExplored > h.search.MaxExplored) {
		options.MaxExplored = h.search.MaxExplored
	}

	result, err := h.scheduler.Synthesize(c.Request.Context(), strategy, catalog, options)
	if err != nil {
		handleError(c, err)
		return
	}

	switch format {
	case FormatJson:
		c.JSON(http.StatusOK, report.NewSynthesis(catalog, result))
	case FormatIcs:
		best, _ := result.Best()
		c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
		c.Header("Content-Type", "text/calendar; charset=utf-8")
		c.Status(http.StatusOK)
		if err := export.WriteCalendar(c.Writer, catalog, best, h.term); err != nil {
			h.logger.Error("cannot write calendar", zap.Error(err))
		}
	case FormatXlsx:
		c.Header("Content-Disposition", `attachment; filename="schedules.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Status(http.StatusOK)
		if err := export.WriteWorkbook(c.Writer, catalog, result.Schedules); err != nil {
			h.logger.Error("cannot write workbook", zap.Error(err))
		}
	}
}

func bindJson(c *gin.Context) (map[string]any, bool) {
	var inputJson map[string]any
	if err := c.ShouldBindJSON(&inputJson); err != nil {
		response.BadRequest(c, response.CodeBadRequest, fmt.Sprintf("invalid json: %v", err))
		return nil, false
	}
	return inputJson, true
}

func decodeCatalog(inputJson map[string]any) (model.Catalog, model.RawOptions, error) {
	rawCatalog, rawOptions, err := model.DecodeRawCatalog(inputJson)
	if err != nil {
		return model.Catalog{}, model.RawOptions{}, err
	}
	catalog, err := model.ProcessRawCatalog(rawCatalog)
	return catalog, rawOptions, err
}
