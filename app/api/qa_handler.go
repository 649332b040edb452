package api

import (
	"log/slog"
	"slices"

	"github.com/gofiber/fiber/v2"

	"medrag/app/agent"
	"medrag/app/metrics"
	"medrag/types"
)

// QAHandler serves the retrieval and grounded-QA endpoints. The retriever and
// composer hold the collaborator handles; each request is stateless.
type QAHandler struct {
	retriever *agent.Retriever
	composer  *agent.Composer
	logger    *slog.Logger
}

func NewQAHandler(retriever *agent.Retriever, composer *agent.Composer) *QAHandler {
	return &QAHandler{
		retriever: retriever,
		composer:  composer,
		logger:    slog.Default(),
	}
}

func (h *QAHandler) HandleRetrieve(c *fiber.Ctx) error {
	var params types.QueryParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	chunks, citations, err := h.retriever.Retrieve(c.Context(), params.Question, params.TopK)
	if err != nil {
		return err
	}

	return c.JSON(types.RetrieveResponse{
		Question:  params.Question,
		TopK:      params.TopK,
		Chunks:    chunks,
		Citations: citations,
	})
}

func (h *QAHandler) HandleQuery(c *fiber.Ctx) error {
	var params types.QueryParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	chunks, citations, err := h.retriever.Retrieve(c.Context(), params.Question, params.TopK)
	if err != nil {
		return err
	}

	result, err := h.composer.Answer(c.Context(), params.Question, chunks, citations)
	if err != nil {
		return err
	}

	if slices.Contains(result.WarningFlags, types.FlagLowRetrievalConfidence) {
		metrics.QueriesAbstained.Inc()
	}
	if slices.Contains(result.WarningFlags, types.FlagMissingCitations) {
		metrics.AnswersMissingCitations.Inc()
	}

	var best any
	if result.Grounding.BestDistance != nil {
		best = *result.Grounding.BestDistance
	}
	h.logger.Info("query_result",
		"status", "ok",
		"abstained", result.Grounding.Abstained,
		"best_distance", best,
		"flags", result.WarningFlags,
	)

	return c.JSON(result)
}
