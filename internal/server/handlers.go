package server

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/diogo/askweb/internal/inference"
	"github.com/diogo/askweb/internal/models"
)

func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(models.HealthResponse{Message: MessageRunning})
}

// handleReady reports whether the model can serve requests
func (s *Server) handleReady(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
	defer cancel()
	if err := s.gen.Ready(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "not_ready",
			"details": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ready"})
}

// handlePredict answers one question. Model and inference failures are
// reported in the body with a 200 status; only malformed requests get a 400.
func (s *Server) handlePredict(c *fiber.Ctx) error {
	var req models.PredictRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.PredictResponse{Error: MessageInvalidBody})
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.PredictResponse{Error: "question cannot be empty"})
	}

	rid := requestID(c)

	readyCtx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
	err := s.gen.Ready(readyCtx)
	cancel()
	if err != nil {
		s.log.Printf("[%s] model not ready: %v", rid, err)
		return c.Status(fiber.StatusOK).JSON(models.PredictResponse{Error: MessageModelNotLoaded})
	}

	s.log.Printf("[%s] Received question: %s", rid, question)

	answer, err := inference.Answer(c.UserContext(), s.gen, question)
	if err != nil {
		s.log.Printf("[%s] Error during inference: %v", rid, err)
		return c.Status(fiber.StatusOK).JSON(models.PredictResponse{Error: MessageInferenceError + err.Error()})
	}

	s.log.Printf("[%s] Generated response: %s", rid, answer)
	return c.Status(fiber.StatusOK).JSON(models.PredictResponse{
		Question: question,
		Answer:   answer,
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return "-"
}
