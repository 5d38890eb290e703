package handlers

import (
	"log"

	"ratlist/internal/middleware"
	"ratlist/internal/models"
	"ratlist/internal/services"
	"ratlist/internal/session"
	"ratlist/internal/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// TaskHandler handles HTTP requests related to tasks.
type TaskHandler struct {
	service *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// RegisterRoutes registers the task routes. All of them require a session.
func (h *TaskHandler) RegisterRoutes(router fiber.Router) {
	auth := middleware.AuthRequired()

	router.Get("/", auth, h.ListAll)
	router.Post("/", auth, h.AddTask)
	router.Get("/completedTasks", auth, h.ListCompleted)
	router.Get("/pendingTasks", auth, h.ListPending)
	// Mutations stay on GET for link compatibility.
	router.Get("/deleteTask/:id", auth, h.DeleteTask)
	router.Get("/completeTask/:id", auth, h.ToggleTask)
}

// ListAll renders every task of the current user.
func (h *TaskHandler) ListAll(c *fiber.Ctx) error {
	return h.render(c, nil, views.SortAll)
}

// ListCompleted renders the finished tasks of the current user.
func (h *TaskHandler) ListCompleted(c *fiber.Ctx) error {
	status := models.StatusFinished
	return h.render(c, &status, views.SortCompleted)
}

// ListPending renders the incomplete tasks of the current user.
func (h *TaskHandler) ListPending(c *fiber.Ctx) error {
	status := models.StatusIncomplete
	return h.render(c, &status, views.SortPending)
}

func (h *TaskHandler) render(c *fiber.Ctx, status *models.TaskStatus, sort string) error {
	identity, _ := session.CurrentIdentity(c)

	tasks, err := h.service.ListTasks(c.UserContext(), identity.Username, status)
	if err != nil {
		log.Printf("Error listing tasks for %s: %v", identity.Username, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Could not load tasks")
	}

	return c.Render("home", fiber.Map{
		"Name":     identity.Name,
		"Sort":     sort,
		"TaskList": tasks,
	})
}

// AddTask creates a task from the addTask form field.
func (h *TaskHandler) AddTask(c *fiber.Ctx) error {
	identity, _ := session.CurrentIdentity(c)

	text := utils.CopyString(c.FormValue("addTask"))
	if _, err := h.service.AddTask(c.UserContext(), identity.Username, text); err != nil {
		log.Printf("Error adding task for %s: %v", identity.Username, err)
	}
	return c.Redirect("/")
}

// DeleteTask deletes a task by id and returns home whatever the outcome.
func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteTask(c.UserContext(), id); err != nil {
		log.Printf("Error deleting task %s: %v", id, err)
	}
	return c.Redirect("/")
}

// ToggleTask flips a task's completion and returns home whatever the outcome.
func (h *TaskHandler) ToggleTask(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.service.ToggleTask(c.UserContext(), id); err != nil {
		log.Printf("Error toggling task %s: %v", id, err)
	}
	return c.Redirect("/")
}
