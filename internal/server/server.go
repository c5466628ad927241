// Package server exposes the causal graph store and the simulation engine
// over HTTP.
package server

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/causalsim/causalsim/internal/config"
	"github.com/causalsim/causalsim/internal/engine"
	"github.com/causalsim/causalsim/internal/store"
	"github.com/causalsim/causalsim/internal/validate"
)

// Version reported by the root endpoint.
const Version = "1.0.0"

// Server wires the store and engine options into a fiber application.
type Server struct {
	store        store.Store
	engineOpts   engine.Options
	validateOpts validate.Options
}

// New builds the HTTP application.
func New(st store.Store, cfg config.Engine) *fiber.App {
	s := &Server{
		store: st,
		engineOpts: engine.Options{
			MaxIterations: cfg.MaxIterations,
			Epsilon:       cfg.Epsilon,
		},
		validateOpts: validate.Options{CyclesBlock: cfg.CyclesBlock},
	}

	app := fiber.New()

	app.Get("/", s.root)
	app.Get("/health", s.health)

	// ── Graphs ────────────────────────────────────────────────────────
	app.Get("/graphs", s.listGraphs)
	app.Post("/graphs", s.createGraph)
	app.Post("/graphs/reset", s.resetAll)
	app.Get("/graphs/:id", s.getGraph)
	app.Delete("/graphs/:id", s.deleteGraph)
	app.Post("/graphs/:id/reset", s.resetGraph)

	// ── Core operations ───────────────────────────────────────────────
	app.Get("/graphs/:id/validate", s.validateGraph)
	app.Post("/graphs/:id/simulate", s.simulate)

	// ── Nodes ─────────────────────────────────────────────────────────
	app.Post("/graphs/:id/nodes", s.addNode)
	app.Put("/graphs/:id/nodes/:nodeID", s.updateNode)
	app.Delete("/graphs/:id/nodes/:nodeID", s.deleteNode)

	// ── Edges (addressed by position) ─────────────────────────────────
	app.Post("/graphs/:id/edges", s.addEdge)
	app.Put("/graphs/:id/edges/:index", s.updateEdge)
	app.Delete("/graphs/:id/edges/:index", s.deleteEdge)

	return app
}

// fail maps store and engine errors onto HTTP statuses.
func fail(c fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrGraphNotFound),
		errors.Is(err, store.ErrNodeNotFound),
		errors.Is(err, store.ErrEdgeNotFound),
		errors.Is(err, store.ErrNotResettable):
		return fiber.StatusNotFound
	case errors.Is(err, store.ErrDuplicateNode),
		errors.Is(err, store.ErrDuplicateEdge),
		errors.Is(err, store.ErrUnknownEndpoint):
		return fiber.StatusBadRequest
	case engine.IsUnknownNode(err), engine.IsValueType(err):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
