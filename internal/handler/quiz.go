package handler

import (
	"quizify/internal/dto"
	"quizify/internal/logger"
	"quizify/internal/service"
	"quizify/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, validator *validation.Validator) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validator,
	}
}

// GenerateQuiz handles POST /api/quizzes. It validates the request,
// runs one quiz-generation run and returns the finished quiz; the
// response may contain fewer questions than requested.
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse generate-quiz request", zap.Error(err))
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if errs := h.validator.ValidateGenerateQuizRequest(req.Topic, req.NumQuestions); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.GenerateQuiz(c.Context(), &req)
	if err != nil {
		return err
	}

	logger.Get().Info("Quiz generated",
		zap.String("quiz_id", resp.ID),
		zap.String("topic", resp.Topic),
		zap.Int("num_generated", resp.NumGenerated))

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetQuiz handles GET /api/quizzes/:id and returns an archived quiz.
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	id := c.Params("id")
	if errs := h.validator.ValidateQuizID(id); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.GetQuizByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
