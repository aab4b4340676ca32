package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/ogtodo/internal/apierrors"
	"github.com/julianstephens/ogtodo/internal/server/dto"
	"github.com/julianstephens/ogtodo/internal/server/mapper"
	"github.com/julianstephens/ogtodo/internal/server/middleware"
)

type TodoHandler struct {
	todos TodoService
}

func NewTodoHandler(todos TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// ListTodos returns the caller's todos, optionally bounded by from and to.
func (h *TodoHandler) ListTodos(c *gin.Context) {
	todos, err := h.todos.List(c.Request.Context(), middleware.GetUserID(c), c.Query("from"), c.Query("to"))
	if err != nil {
		abortWithError(c, "list todos", err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToTodoItems(todos))
}

func (h *TodoHandler) GetTodo(c *gin.Context) {
	todo, err := h.todos.Get(c.Request.Context(), middleware.GetUserID(c), c.Param("date"))
	if err != nil {
		abortWithError(c, "get todo", err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToTodoItem(todo))
}

// PutTodo creates or replaces the todo for the date. It answers 201 on create.
func (h *TodoHandler) PutTodo(c *gin.Context) {
	var req dto.PutTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	todo, created, err := h.todos.Put(c.Request.Context(), middleware.GetUserID(c), c.Param("date"), mapper.FromPutTodoRequest(req))
	if err != nil {
		abortWithError(c, "save todo", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, mapper.ToTodoItem(todo))
}

func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	if err := h.todos.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("date")); err != nil {
		abortWithError(c, "delete todo", err)
		return
	}
	c.Status(http.StatusNoContent)
}
