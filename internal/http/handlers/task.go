package handlers

import (
	"net/http"
	"strconv"

	"flowtasks/internal/domain"
	"flowtasks/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	task, err := h.TaskService.Create(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	task, err := h.TaskService.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ListTasks returns a filtered, sorted page of a project's tasks. Unknown
// enum values in filters are rejected rather than silently ignored.
func (h *Handler) ListTasks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	filter, err := parseTaskFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.TaskService.ListFiltered(c.Request.Context(), c.Param("id"), userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func parseTaskFilter(c *gin.Context) (domain.TaskFilter, error) {
	f := domain.TaskFilter{
		Search:     c.Query("search"),
		AssigneeID: c.Query("assignee_id"),
		SprintID:   c.Query("sprint_id"),
		SortDesc:   c.Query("order") == "desc",
	}

	if v := c.Query("status"); v != "" {
		s := domain.TaskStatus(v)
		if !s.Valid() {
			return f, domain.NewValidationError("unknown status filter")
		}
		f.Status = &s
	}
	if v := c.Query("type"); v != "" {
		t := domain.TaskType(v)
		if !t.Valid() {
			return f, domain.NewValidationError("unknown type filter")
		}
		f.Type = &t
	}
	if v := c.Query("priority"); v != "" {
		p := domain.TaskPriority(v)
		if !p.Valid() {
			return f, domain.NewValidationError("unknown priority filter")
		}
		f.Priority = &p
	}

	switch key := domain.TaskSortKey(c.DefaultQuery("sort", string(domain.SortByCreated))); key {
	case domain.SortByCreated, domain.SortBySummary, domain.SortByPriority, domain.SortByStatus, domain.SortByDueDate:
		f.SortBy = key
	default:
		return f, domain.NewValidationError("unknown sort key")
	}

	f.Page, _ = strconv.Atoi(c.Query("page"))
	f.PageSize, _ = strconv.Atoi(c.Query("page_size"))
	return f, nil
}

func (h *Handler) UpdateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var patch domain.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	task, err := h.TaskService.Update(c.Request.Context(), c.Param("id"), userID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	if err := h.TaskService.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) GetBoard(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	board, err := h.TaskService.Board(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *Handler) GetTaskHistory(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	entries, err := h.TaskService.History(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}
