package handler

// Handler groups the handlers the router mounts
type Handler struct {
	Scheduler *SchedulerHandler
	Dataset   *DatasetHandler
}

func NewHandler(scheduler *SchedulerHandler, dataset *DatasetHandler) *Handler {
	return &Handler{Scheduler: scheduler, Dataset: dataset}
}
