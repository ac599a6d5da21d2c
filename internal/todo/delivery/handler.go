package delivery

import (
	"net/http"

	"mailtodo-backend/internal/todo/usecase"
	"mailtodo-backend/pkg/sse"

	"github.com/gin-gonic/gin"
)

// TodoHandler handles todo-related HTTP requests
type TodoHandler struct {
	todoUsecase usecase.TodoUsecase
	events      *sse.Hub
}

// NewTodoHandler creates a new TodoHandler
func NewTodoHandler(todoUsecase usecase.TodoUsecase) *TodoHandler {
	return &TodoHandler{
		todoUsecase: todoUsecase,
	}
}

// SetEventHub wires the SSE hub used to signal list refreshes
func (h *TodoHandler) SetEventHub(hub *sse.Hub) {
	h.events = hub
}

func (h *TodoHandler) notifyChanged() {
	if h.events != nil {
		h.events.Broadcast(sse.EventDataChanged, nil)
	}
}

// CreateTodoRequest represents the request body for creating a todo
type CreateTodoRequest struct {
	Task     string `json:"task" binding:"required"`
	Memo     string `json:"memo"`
	Deadline string `json:"deadline"`
}

// GetTodos returns todos for a view
// GET /api/todos?view=active|trash
func (h *TodoHandler) GetTodos(c *gin.Context) {
	todos, err := h.todoUsecase.GetTodos(c.DefaultQuery("view", "active"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"todos": todos})
}

// CreateTodo creates a new todo manually
// POST /api/todos
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo, err := h.todoUsecase.CreateTodo(req.Task, req.Memo, req.Deadline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.notifyChanged()
	c.JSON(http.StatusCreated, todo)
}

// SetDeadline updates a todo's deadline
// PUT /api/todos/:id/deadline
func (h *TodoHandler) SetDeadline(c *gin.Context) {
	var req struct {
		Deadline string `json:"deadline"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo, err := h.todoUsecase.SetDeadline(c.Param("id"), req.Deadline)
	if err != nil {
		if err.Error() == "todo not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.notifyChanged()
	c.JSON(http.StatusOK, todo)
}

// SetCompleted toggles a todo's completion state
// PUT /api/todos/:id/complete
func (h *TodoHandler) SetCompleted(c *gin.Context) {
	var req struct {
		Done bool `json:"done"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo, err := h.todoUsecase.SetCompleted(c.Param("id"), req.Done)
	if err != nil {
		if err.Error() == "todo not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.notifyChanged()
	c.JSON(http.StatusOK, todo)
}

// DismissTodo suppresses a todo and records its title as an exclude keyword
// POST /api/todos/:id/dismiss
func (h *TodoHandler) DismissTodo(c *gin.Context) {
	if err := h.todoUsecase.DismissTodo(c.Param("id")); err != nil {
		if err.Error() == "todo not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.notifyChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Todo dismissed"})
}

// MoveToTrash moves a todo to the trash view
// DELETE /api/todos/:id
func (h *TodoHandler) MoveToTrash(c *gin.Context) {
	if err := h.todoUsecase.MoveToTrash(c.Param("id")); err != nil {
		if err.Error() == "todo not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.notifyChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Todo moved to trash"})
}

// ReorderTodos swaps the positions of two todos
// POST /api/todos/reorder
func (h *TodoHandler) ReorderTodos(c *gin.Context) {
	var req struct {
		FirstID  string `json:"first_id" binding:"required"`
		SecondID string `json:"second_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.todoUsecase.ReorderTodos(req.FirstID, req.SecondID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.notifyChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Todos reordered"})
}

// EmptyTrash permanently deletes trashed todos
// DELETE /api/todos/trash
func (h *TodoHandler) EmptyTrash(c *gin.Context) {
	if err := h.todoUsecase.EmptyTrash(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.notifyChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Trash emptied"})
}
