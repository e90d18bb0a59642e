package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/limaJavier/classscheduler/internal/api/response"
	"github.com/limaJavier/classscheduler/internal/store"
	"github.com/limaJavier/classscheduler/pkg/model"
)

// DatasetHandler serves the saved course catalogs
type DatasetHandler struct {
	datasets store.DatasetRepository
}

func NewDatasetHandler(datasets store.DatasetRepository) *DatasetHandler {
	return &DatasetHandler{datasets: datasets}
}

type datasetSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Program     string `json:"program"`
	Term        string `json:"term"`
	CourseCount int    `json:"course_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// List
// GET /api/datasets
func (h *DatasetHandler) List(c *gin.Context) {
	datasets, err := h.datasets.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	summaries := make([]datasetSummary, 0, len(datasets))
	for _, dataset := range datasets {
		summaries = append(summaries, datasetSummary{
			ID:          dataset.ID,
			Name:        dataset.Name,
			Program:     dataset.Program,
			Term:        dataset.Term,
			CourseCount: dataset.CourseCount,
			CreatedAt:   dataset.CreatedAt.Format(timeLayout),
			UpdatedAt:   dataset.UpdatedAt.Format(timeLayout),
		})
	}
	response.OK(c, summaries)
}

// Get returns the dataset with its courses
// GET /api/datasets/:id
func (h *DatasetHandler) Get(c *gin.Context) {
	dataset, err := h.datasets.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, dataset)
}

// Create
// POST /api/datasets
func (h *DatasetHandler) Create(c *gin.Context) {
	rawCatalog, ok := bindRawCatalog(c)
	if !ok {
		return
	}

	dataset, err := store.NewDataset(rawCatalog)
	if err != nil {
		handleError(c, err)
		return
	}
	if err := h.datasets.Create(c.Request.Context(), dataset); err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, dataset)
}

// Update replaces the program, term and courses of a dataset
// PUT /api/datasets/:id
func (h *DatasetHandler) Update(c *gin.Context) {
	rawCatalog, ok := bindRawCatalog(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	dataset, err := h.datasets.GetByID(ctx, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	if err := dataset.Replace(rawCatalog); err != nil {
		handleError(c, err)
		return
	}
	if err := h.datasets.Update(ctx, dataset); err != nil {
		handleError(c, err)
		return
	}

	updated, err := h.datasets.GetByID(ctx, dataset.ID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, updated)
}

// Delete
// DELETE /api/datasets/:id
func (h *DatasetHandler) Delete(c *gin.Context) {
	if err := h.datasets.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"id": c.Param("id")})
}

const timeLayout = time.RFC3339

func bindRawCatalog(c *gin.Context) (model.RawCatalog, bool) {
	inputJson, ok := bindJson(c)
	if !ok {
		return model.RawCatalog{}, false
	}
	rawCatalog, _, err := model.DecodeRawCatalog(inputJson)
	if err != nil {
		handleError(c, err)
		return model.RawCatalog{}, false
	}
	return rawCatalog, true
}
