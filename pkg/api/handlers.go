package api

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/delcain/drawsync/pkg/draw"
	"github.com/delcain/drawsync/pkg/engine"
	"github.com/delcain/drawsync/pkg/index"
)

// Handler errors
var (
	// ErrDrawNotFound is returned when the requested draw number is not stored
	ErrDrawNotFound = fiber.NewError(fiber.StatusNotFound, "draw not found")
	// ErrInvalidDrawNumber is returned when the draw number is not a positive integer
	ErrInvalidDrawNumber = fiber.NewError(fiber.StatusBadRequest, "invalid draw number")
	// ErrInvalidBallNumber is returned when the queried ball is outside the drawable range
	ErrInvalidBallNumber = fiber.NewError(fiber.StatusBadRequest, "ball number out of range")
	// ErrInvalidCombination is returned when the numbers parameter is not a valid combination
	ErrInvalidCombination = fiber.NewError(fiber.StatusBadRequest, "numbers must be a comma-separated list of integers")
)

// Server implements the query API handlers over the engine surface.
type Server struct {
	engine engine.Service
	log    logrus.FieldLogger
}

// NewServer creates a new API server instance
func NewServer(eng engine.Service, log logrus.FieldLogger) *Server {
	return &Server{
		engine: eng,
		log:    log.WithField("component", "api.handlers"),
	}
}

// GetStatus handles GET /api/v1/status
func (s *Server) GetStatus(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(s.engine.Stats())
}

// ListDraws handles GET /api/v1/draws with optional from/to bounds
func (s *Server) ListDraws(c fiber.Ctx) error {
	draws := s.engine.AllDraws()

	from, err := queryInt(c, "from", 0)
	if err != nil {
		return ErrInvalidDrawNumber
	}

	to, err := queryInt(c, "to", 0)
	if err != nil {
		return ErrInvalidDrawNumber
	}

	filtered := make([]draw.Record, 0, len(draws))

	for i := range draws {
		if from > 0 && draws[i].Number < from {
			continue
		}

		if to > 0 && draws[i].Number > to {
			continue
		}

		filtered = append(filtered, draws[i])
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"draws": filtered,
		"total": len(filtered),
	})
}

// GetDraw handles GET /api/v1/draws/:number
func (s *Server) GetDraw(c fiber.Ctx) error {
	number, err := strconv.Atoi(c.Params("number"))
	if err != nil || number <= 0 {
		return ErrInvalidDrawNumber
	}

	rec, ok := s.engine.Draw(number)
	if !ok {
		return ErrDrawNotFound
	}

	return c.Status(fiber.StatusOK).JSON(rec)
}

// GetNumber handles GET /api/v1/numbers/:number, returning frequency and gap
func (s *Server) GetNumber(c fiber.Ctx) error {
	number, err := strconv.Atoi(c.Params("number"))
	if err != nil || number < 1 || number > draw.MaxNumber {
		return ErrInvalidBallNumber
	}

	gap := s.engine.DrawsSinceLastSeen(number)

	resp := fiber.Map{
		"number":      number,
		"occurrences": s.engine.OccurrenceCount(number),
		"neverDrawn":  gap == index.NeverDrawn,
	}

	if gap != index.NeverDrawn {
		resp["drawsSinceLastSeen"] = gap
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// CheckCombination handles GET /api/v1/combinations/check?numbers=4,8,15,16,23,42
func (s *Server) CheckCombination(c fiber.Ctx) error {
	raw := strings.Split(c.Query("numbers"), ",")
	if len(raw) != draw.Size {
		return ErrInvalidCombination
	}

	numbers := make([]int, 0, draw.Size)

	for _, part := range raw {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return ErrInvalidCombination
		}

		numbers = append(numbers, n)
	}

	sort.Ints(numbers)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"numbers": numbers,
		"known":   s.engine.IsKnownCombination(numbers),
	})
}

func queryInt(c fiber.Ctx, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}

	return strconv.Atoi(v)
}
