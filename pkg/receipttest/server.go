package receipttest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/DSACMS/receipt-processor-client/pkg/webclient"
	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	slogfiber "github.com/samber/slog-fiber"
	"github.com/tidwall/buntdb"
)

// BaseURL is a host name for clients of Transport. It is never dialed.
const BaseURL = "http://receipts.test"

const keyPrefix = "receipt:"

type Options struct {
	// Request logs. Discarded when nil.
	Logger *slog.Logger
}

// Request is one call the fake has seen.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

type Server struct {
	app *fiber.App
	db  *buntdb.DB

	mu       sync.Mutex
	requests []Request
}

func New(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("open receipt store: %w", err)
	}

	s := &Server{db: db}

	app := fiber.New(fiber.Config{
		ErrorHandler:          errorHandler(logger),
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(otelfiber.Middleware())
	app.Use(slogfiber.NewWithConfig(logger, slogfiber.Config{
		WithRequestID: true,
		WithSpanID:    true,
		WithTraceID:   true,
	}))
	app.Use(s.capture)

	app.Post("/receipts/process", s.process)
	app.Get("/receipts/process", methodNotAllowed)
	app.Get("/receipts/:id/points", s.points)
	app.Get("/receipts/:id/breakdown", s.breakdown)

	s.app = app
	return s, nil
}

func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var e *fiber.Error
		if !errors.As(err, &e) {
			e = fiber.ErrInternalServerError
		}

		logger.Debug("fake receipts api error", "code", e.Code, "message", e.Message)

		return c.Status(e.Code).SendString(e.Message)
	}
}

// App exposes the fiber app, e.g. to call app.Listener in a test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Transport serves requests in process through app.Test.
func (s *Server) Transport() webclient.HTTPTransport {
	return appTransport{app: s.app}
}

type appTransport struct {
	app *fiber.App
}

func (t appTransport) Do(req *http.Request) (*http.Response, error) {
	return t.app.Test(req, -1)
}

// Requests returns every request seen, oldest first.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Request(nil), s.requests...)
}

// Stored counts accepted receipts.
func (s *Server) Stored() int {
	n := 0
	_ = s.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(keyPrefix+"*", func(_, _ string) bool {
			n++
			return true
		})
	})
	return n
}

func (s *Server) Close() error {
	return s.db.Close()
}

func (s *Server) capture(c *fiber.Ctx) error {
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: c.Method(),
		Path:   c.Path(),
		Body:   append([]byte(nil), c.Body()...),
	})
	s.mu.Unlock()

	return c.Next()
}

func jsonError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func methodNotAllowed(*fiber.Ctx) error {
	return fiber.ErrMethodNotAllowed
}

func (s *Server) process(c *fiber.Ctx) error {
	var r receipt
	if err := json.Unmarshal(c.Body(), &r); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "The receipt is invalid: "+err.Error())
	}
	if err := r.validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "The receipt is invalid: "+err.Error())
	}

	b, err := json.Marshal(r)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	err = s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(keyPrefix+id, string(b), nil)
		return err
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"id": id})
}

func (s *Server) lookup(id string) (receipt, bool, error) {
	var raw string
	err := s.db.View(func(tx *buntdb.Tx) error {
		var err error
		raw, err = tx.Get(keyPrefix + id)
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return receipt{}, false, nil
	}
	if err != nil {
		return receipt{}, false, err
	}

	var r receipt
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return receipt{}, false, err
	}
	return r, true, nil
}

func (s *Server) points(c *fiber.Ctx) error {
	r, ok, err := s.lookup(c.Params("id"))
	if err != nil {
		return err
	}
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "No receipt found for that ID.")
	}

	total, _ := r.score()
	return c.JSON(fiber.Map{"points": total})
}

func (s *Server) breakdown(c *fiber.Ctx) error {
	r, ok, err := s.lookup(c.Params("id"))
	if err != nil {
		return err
	}
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "No receipt found for that ID.")
	}

	total, lines := r.score()
	return c.JSON(fiber.Map{
		"breakdown": append(lines, fmt.Sprintf("%d points total", total)),
	})
}
