package http

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"chessrules/internal/core"
	"chessrules/internal/processor"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitRate = 10 // req/sec

type HTTPHandler struct {
	proc *processor.Processor
}

func NewHTTPHandler(proc *processor.Processor) *HTTPHandler {
	return &HTTPHandler{proc: proc}
}

func NewFiberApp(proc *processor.Processor, devMode bool) *fiber.App {
	h := NewHTTPHandler(proc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  10 * time.Second,
		// Long-poll requests hold the connection for up to WaitTimeout
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:          maxReq,
		Expiration:   1 * time.Second,
		KeyGenerator: clientKey,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	api.Post("/games", h.CreateGame)

	games := api.Group("/games/:gameId", gameIDValidator)
	games.Get("", h.GetGame)
	games.Delete("", h.DeleteGame)
	games.Put("/players", h.ConfigurePlayers)
	games.Get("/moves", h.LegalMoves)
	games.Post("/moves", h.MakeMove)
	games.Post("/undo", h.UndoMove)
	games.Get("/board", h.GetBoard)
	games.Get("/board.svg", h.GetBoardSVG)

	return app
}

// clientKey identifies the caller for rate limiting, preferring the first
// X-Forwarded-For hop
func clientKey(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	return c.IP()
}

// contentTypeValidator ensures POST and PUT requests have application/json
func contentTypeValidator(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodPost || method == fiber.MethodPut {
		contentType := c.Get("Content-Type")
		if contentType != "" && !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// gameIDValidator rejects game ids that are not UUIDs before any handler runs
func gameIDValidator(c *fiber.Ctx) error {
	if !isValidUUID(c.Params("gameId")) {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid game ID format",
			Code:    core.ErrInvalidRequest,
			Details: "game ID must be a valid UUID",
		})
	}
	return c.Next()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps processor error codes to HTTP status codes
func statusFor(code string) int {
	switch code {
	case core.ErrGameNotFound:
		return fiber.StatusNotFound
	case core.ErrGameOver:
		return fiber.StatusConflict
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

// respond writes a processor response with the given success status
func respond(c *fiber.Ctx, resp processor.ProcessorResponse, okStatus int) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	if resp.Data == nil {
		return c.SendStatus(okStatus)
	}
	return c.Status(okStatus).JSON(resp.Data)
}

// validatedBody returns the request decoded by validationMiddleware
func validatedBody[T any](c *fiber.Ctx) (T, error) {
	var zero T
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return zero, fiber.NewError(fiber.StatusInternalServerError, "validation bypass detected")
	}
	body, ok := c.Locals("validatedBody").(*T)
	if !ok || body == nil {
		return zero, fiber.NewError(fiber.StatusInternalServerError, "validation data missing")
	}
	return *body, nil
}

// Health check endpoint
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.proc.StorageHealth(),
	})
}

// CreateGame creates a new game with specified player types
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, err := validatedBody[core.CreateGameRequest](c)
	if err != nil {
		return err
	}

	resp := h.proc.Execute(processor.NewCreateGameCommand(req))
	return respond(c, resp, fiber.StatusCreated)
}

// ConfigurePlayers updates player configuration mid-game
func (h *HTTPHandler) ConfigurePlayers(c *fiber.Ctx) error {
	req, err := validatedBody[core.ConfigurePlayersRequest](c)
	if err != nil {
		return err
	}

	resp := h.proc.Execute(processor.NewConfigurePlayersCommand(c.Params("gameId"), req))
	return respond(c, resp, fiber.StatusOK)
}

// GetGame retrieves current game state. With wait=true and moveCount=n the
// request is held until the game moves past n moves or changes state.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	if c.Query("wait") == "true" {
		moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
		if err != nil {
			moveCount = -1
		}

		err = h.proc.Wait(c.Context(), gameID, moveCount)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Client went away or server is shutting down
			return nil
		}
		// Not-found and fresh state are both reported by the read below
	}

	resp := h.proc.Execute(processor.NewGetGameCommand(gameID))
	return respond(c, resp, fiber.StatusOK)
}

// LegalMoves lists legal destinations, for one piece with ?from=e2 or for the
// whole side to move
func (h *HTTPHandler) LegalMoves(c *fiber.Ctx) error {
	resp := h.proc.Execute(processor.NewLegalMovesCommand(c.Params("gameId"), c.Query("from")))
	return respond(c, resp, fiber.StatusOK)
}

// MakeMove submits a move
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	req, err := validatedBody[core.MoveRequest](c)
	if err != nil {
		return err
	}

	resp := h.proc.Execute(processor.NewMakeMoveCommand(c.Params("gameId"), req))
	if resp.Success && resp.Pending {
		return c.Status(fiber.StatusAccepted).JSON(resp.Data)
	}
	return respond(c, resp, fiber.StatusOK)
}

// UndoMove undoes one or more moves
func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	req, err := validatedBody[core.UndoRequest](c)
	if err != nil {
		return err
	}

	resp := h.proc.Execute(processor.NewUndoMoveCommand(c.Params("gameId"), req))
	return respond(c, resp, fiber.StatusOK)
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	resp := h.proc.Execute(processor.NewDeleteGameCommand(c.Params("gameId")))
	return respond(c, resp, fiber.StatusNoContent)
}

// GetBoard returns the ASCII board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	resp := h.proc.Execute(processor.NewGetBoardCommand(c.Params("gameId"), processor.BoardArgs{}))
	return respond(c, resp, fiber.StatusOK)
}

// GetBoardSVG returns the board as an SVG image. ?mark=e2 highlights the
// legal destinations of that piece, ?perspective=b draws Black at the bottom,
// ?size=60 sets the square size and ?coords=false drops the labels.
func (h *HTTPHandler) GetBoardSVG(c *fiber.Ctx) error {
	args := processor.BoardArgs{
		Format:     processor.FormatSVG,
		Mark:       c.Query("mark"),
		SquareSize: c.QueryInt("size"),
		HideCoords: !c.QueryBool("coords", true),
	}
	if c.Query("perspective") == "b" {
		args.Perspective = core.ColorBlack
	}

	resp := h.proc.Execute(processor.NewGetBoardCommand(c.Params("gameId"), args))
	if !resp.Success {
		return respond(c, resp, fiber.StatusOK)
	}

	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.SendString(resp.Data.(core.BoardResponse).SVG)
}
