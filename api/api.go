// Package api exposes famtree queries over HTTP with fiber.
//
// Every request loads the tree from the store and builds its own Forest,
// so no mutable state is shared between requests.
package api

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/meikuraledutech/famtree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the famtree HTTP API.
type Handler struct {
	store  famtree.Store
	icons  famtree.IconSet
	logger *slog.Logger

	registry           *prometheus.Registry
	requests           *prometheus.CounterVec
	forestBuild        prometheus.Histogram
	validationFailures prometheus.Counter
}

// PersonView is a person together with its immediate relatives.
type PersonView struct {
	famtree.Person
	Parent   *famtree.Person  `json:"parent,omitempty"`
	Children []famtree.Person `json:"children"`
}

// New creates a Handler with its own metrics registry.
func New(store famtree.Store, icons famtree.IconSet, logger *slog.Logger) *Handler {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Handler{
		store:    store,
		icons:    icons,
		logger:   logger,
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "famtree_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "status"}),
		forestBuild: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "famtree_forest_build_seconds",
			Help:    "Time to load a tree and build its forest",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		validationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "famtree_validation_failures_total",
			Help: "Person sets rejected by validation",
		}),
	}
}

// AppConfig is the fiber configuration the routes expect. Path parameters
// are unescaped so ids with spaces or non-ASCII letters resolve.
func AppConfig() fiber.Config {
	return fiber.Config{UnescapePath: true}
}

// Register mounts every route on app.
func (h *Handler) Register(app *fiber.App) {
	app.Use(h.logRequests)

	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})))

	// ── Schema ────────────────────────────────────────────────────────
	app.Post("/schema", h.counted("/schema", h.createSchema))
	app.Delete("/schema", h.counted("/schema", h.dropSchema))

	// ── Trees (bulk) ──────────────────────────────────────────────────
	app.Get("/trees", h.counted("/trees", h.listTrees))
	app.Post("/trees", h.counted("/trees", h.saveTree))
	app.Get("/trees/:id", h.counted("/trees/:id", h.getTree))
	app.Delete("/trees/:id", h.counted("/trees/:id", h.deleteTree))

	// ── Queries ───────────────────────────────────────────────────────
	app.Get("/trees/:id/persons", h.counted("/trees/:id/persons", h.persons))
	app.Get("/trees/:id/persons/:pid", h.counted("/trees/:id/persons/:pid", h.person))
	app.Get("/trees/:id/persons/:pid/card", h.counted("/trees/:id/persons/:pid/card", h.card))
	app.Get("/trees/:id/persons/:pid/children", h.counted("/trees/:id/persons/:pid/children", h.children))
	app.Get("/trees/:id/roots", h.counted("/trees/:id/roots", h.roots))
	app.Get("/trees/:id/generations", h.counted("/trees/:id/generations", h.generations))
	app.Get("/trees/:id/generations/:n", h.counted("/trees/:id/generations/:n", h.byGeneration))
	app.Get("/trees/:id/statistics", h.counted("/trees/:id/statistics", h.statistics))
	app.Get("/trees/:id/edges", h.counted("/trees/:id/edges", h.edges))
	app.Get("/trees/:id/graph", h.counted("/trees/:id/graph", h.graph))
}

// counted wraps fn so its responses are counted under the route pattern.
func (h *Handler) counted(route string, fn fiber.Handler) fiber.Handler {
	return func(c fiber.Ctx) error {
		err := fn(c)
		h.requests.WithLabelValues(route, strconv.Itoa(c.Response().StatusCode())).Inc()
		return err
	}
}

func (h *Handler) logRequests(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	h.logger.Info("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

// forest loads the tree named by the :id param and builds its Forest.
func (h *Handler) forest(c fiber.Ctx) (*famtree.Forest, error) {
	start := time.Now()
	f, err := famtree.Load(c.Context(), h.store, c.Params("id"))
	h.forestBuild.Observe(time.Since(start).Seconds())
	return f, err
}

func (h *Handler) fail(c fiber.Ctx, err error) error {
	var verr *famtree.ValidationError
	switch {
	case errors.As(err, &verr):
		h.validationFailures.Inc()
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":    "invalid person set",
			"problems": verr.Problems,
		})
	case errors.Is(err, famtree.ErrTreeNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tree not found"})
	case errors.Is(err, famtree.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		h.logger.Error("request failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
