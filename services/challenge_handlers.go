package services

import (
	"fmt"
	"log"
	"strings"

	"skate-challenge-service/apperrors"
	"skate-challenge-service/middleware"
	"skate-challenge-service/models"
	"skate-challenge-service/rules"
	"skate-challenge-service/store"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

type userRequest struct {
	UserID string `json:"userId"`
}

type attemptRequest struct {
	UserID   string  `json:"userId"`
	Landed   *bool   `json:"landed"`
	VideoURL *string `json:"videoUrl"`
}

// GetAllChallenges lists challenges, optionally filtered by userId, status
// and trick.
func (s *ChallengeService) GetAllChallenges(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return respondError(c, err)
	}

	challenges, err := s.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(challenges)
}

func (s *ChallengeService) GetChallengeByID(c *fiber.Ctx) error {
	challenge, err := s.Get(c.UserContext(), pathID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(challenge)
}

// GetUserChallenges lists the challenges a user created or joined.
func (s *ChallengeService) GetUserChallenges(c *fiber.Ctx) error {
	challenges, err := s.List(c.UserContext(), store.ChallengeFilter{UserID: pathID(c)})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(challenges)
}

func (s *ChallengeService) CreateChallenge(c *fiber.Ctx) error {
	var in models.ChallengeInput
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, invalidBody(err))
	}
	in.CreatorID = middleware.UserID(c, in.CreatorID)

	challenge, err := s.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(challenge)
}

// UpdateChallenge applies a partial edit. Fields driven by the challenge
// rules are rejected; use the join, attempt and admin routes for those.
func (s *ChallengeService) UpdateChallenge(c *fiber.Ctx) error {
	var patch models.ChallengePatch
	if err := c.BodyParser(&patch); err != nil {
		return respondError(c, invalidBody(err))
	}

	challenge, err := s.Patch(c.UserContext(), pathID(c), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(challenge)
}

func (s *ChallengeService) JoinChallenge(c *fiber.Ctx) error {
	var req userRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, invalidBody(err))
		}
	}

	challenge, err := s.Join(c.UserContext(), pathID(c), middleware.UserID(c, req.UserID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(challenge)
}

func (s *ChallengeService) GetAttempts(c *fiber.Ctx) error {
	attempts, err := s.Attempts(c.UserContext(), pathID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(attempts)
}

// CreateAttempt records the turn holder's attempt and returns it. The
// updated challenge is available from GET /challenges/:id.
func (s *ChallengeService) CreateAttempt(c *fiber.Ctx) error {
	var req attemptRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, invalidBody(err))
	}
	if req.Landed == nil {
		return respondError(c, apperrors.New(apperrors.CodeValidation, "landed is required"))
	}

	attempt, _, err := s.RecordAttempt(c.UserContext(), models.AttemptInput{
		ChallengeID: pathID(c),
		UserID:      middleware.UserID(c, req.UserID),
		VideoURL:    req.VideoURL,
		Landed:      *req.Landed,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(attempt)
}

// AdminAssignLetter gives a participant their next letter regardless of turn.
func (s *ChallengeService) AdminAssignLetter(c *fiber.Ctx) error {
	var req userRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, invalidBody(err))
	}

	challenge, err := s.AssignLetter(c.UserContext(), pathID(c), req.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(challenge)
}

func (s *ChallengeService) AdminForceExpire(c *fiber.Ctx) error {
	challenge, err := s.ForceExpire(c.UserContext(), pathID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(challenge)
}

// pathID returns the :id param as a string the handler may keep; the
// param itself aliases a request buffer that is reused after the response.
func pathID(c *fiber.Ctx) string {
	return fiberutils.CopyString(c.Params("id"))
}

func parseFilter(c *fiber.Ctx) (store.ChallengeFilter, error) {
	filter := store.ChallengeFilter{
		UserID: fiberutils.CopyString(strings.TrimSpace(c.Query("userId"))),
		Status: models.ChallengeStatus(fiberutils.CopyString(strings.TrimSpace(c.Query("status")))),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return filter, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("unknown status %q", filter.Status))
	}
	if trick := strings.TrimSpace(c.Query("trick")); trick != "" {
		filter.TrickSlug = rules.TrickSlug(trick)
	}
	return filter, nil
}

func invalidBody(err error) error {
	return apperrors.Wrap(apperrors.CodeValidation, "invalid request body", err)
}

// respondError writes err as {"error", "code"} with the status for its code.
func respondError(c *fiber.Ctx, err error) error {
	code := apperrors.CodeOf(err)
	status := fiber.StatusInternalServerError
	switch code {
	case apperrors.CodeNotFound:
		status = fiber.StatusNotFound
	case apperrors.CodeNotYourTurn:
		status = fiber.StatusForbidden
	case apperrors.CodeInvalidState, apperrors.CodeSelfJoin, apperrors.CodeValidation:
		status = fiber.StatusBadRequest
	case apperrors.CodeConflict:
		status = fiber.StatusConflict
	}

	message := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Printf("[HTTP] ❌ %s %s failed: %v", c.Method(), c.Path(), err)
		message = "internal server error"
	}
	return c.Status(status).JSON(fiber.Map{"error": message, "code": code})
}
