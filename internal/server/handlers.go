package server

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/causalsim/causalsim/internal/engine"
	"github.com/causalsim/causalsim/internal/model"
	"github.com/causalsim/causalsim/internal/store"
	"github.com/causalsim/causalsim/internal/validate"
)

func (s *Server) root(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "CausalSim API", "version": Version})
}

func (s *Server) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

// ── Graphs ────────────────────────────────────────────────────────────

type createGraphRequest struct {
	Name  string       `json:"name"`
	Nodes []model.Node `json:"nodes"`
	Edges []model.Edge `json:"edges"`
}

func (s *Server) listGraphs(c fiber.Ctx) error {
	graphs, err := s.store.ListGraphs(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(graphs)
}

func (s *Server) getGraph(c fiber.Ctx) error {
	g, err := s.store.GetGraph(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(g)
}

func (s *Server) createGraph(c fiber.Ctx) error {
	var req createGraphRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	g := &model.CausalGraph{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Nodes: req.Nodes,
		Edges: req.Edges,
	}
	if err := s.store.CreateGraph(c.Context(), g); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(g)
}

func (s *Server) deleteGraph(c fiber.Ctx) error {
	if err := s.store.DeleteGraph(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

func (s *Server) resetGraph(c fiber.Ctx) error {
	g, err := s.store.ResetGraph(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(g)
}

func (s *Server) resetAll(c fiber.Ctx) error {
	graphs, err := s.store.ResetAll(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(graphs)
}

// ── Core operations ───────────────────────────────────────────────────

type simulationRequest struct {
	Interventions []model.Intervention `json:"interventions"`
}

type simulationResponse struct {
	Results           []engine.Result `json:"results"`
	ComputationTimeMS float64         `json:"computation_time_ms"`
	Iterations        int             `json:"iterations"`
	Converged         bool            `json:"converged"`
	DivergedNodeIDs   []string        `json:"diverged_node_ids,omitempty"`
}

func (s *Server) validateGraph(c fiber.Ctx) error {
	g, err := s.store.GetGraph(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(validate.Validate(g, s.validateOpts))
}

func (s *Server) simulate(c fiber.Ctx) error {
	g, err := s.store.GetGraph(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	var req simulationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	report, err := engine.Simulate(g, req.Interventions, s.engineOpts)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(simulationResponse{
		Results:           report.Results,
		ComputationTimeMS: report.ElapsedMS,
		Iterations:        report.Iterations,
		Converged:         report.Converged,
		DivergedNodeIDs:   report.Diverged,
	})
}

// ── Nodes ─────────────────────────────────────────────────────────────

type createNodeRequest struct {
	Name           string          `json:"name"`
	Type           model.NodeType  `json:"node_type"`
	BaseValue      json.RawMessage `json:"base_value"`
	PossibleValues []string        `json:"possible_values,omitempty"`
}

type updateNodeRequest struct {
	Name           *string         `json:"name,omitempty"`
	Type           *model.NodeType `json:"node_type,omitempty"`
	BaseValue      json.RawMessage `json:"base_value,omitempty"`
	PossibleValues []string        `json:"possible_values,omitempty"`
}

func (s *Server) addNode(c fiber.Ctx) error {
	var req createNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if !req.Type.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("unknown node_type %q", req.Type)})
	}
	base, err := model.UnmarshalValue(req.BaseValue)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	node := model.Node{
		ID:             "node_" + uuid.NewString()[:8],
		Name:           req.Name,
		Type:           req.Type,
		BaseValue:      base,
		PossibleValues: req.PossibleValues,
	}
	g, err := s.store.AddNode(c.Context(), c.Params("id"), node)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(g)
}

func (s *Server) updateNode(c fiber.Ctx) error {
	var req updateNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	upd := store.NodeUpdate{
		Name:           req.Name,
		Type:           req.Type,
		PossibleValues: req.PossibleValues,
	}
	if len(req.BaseValue) > 0 {
		base, err := model.UnmarshalValue(req.BaseValue)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		upd.BaseValue = base
	}

	g, err := s.store.UpdateNode(c.Context(), c.Params("id"), c.Params("nodeID"), upd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(g)
}

func (s *Server) deleteNode(c fiber.Ctx) error {
	g, err := s.store.DeleteNode(c.Context(), c.Params("id"), c.Params("nodeID"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(g)
}

// ── Edges ─────────────────────────────────────────────────────────────

func (s *Server) addEdge(c fiber.Ctx) error {
	var e model.Edge
	if err := c.Bind().JSON(&e); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	g, err := s.store.AddEdge(c.Context(), c.Params("id"), e)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(g)
}

func (s *Server) updateEdge(c fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid edge index"})
	}
	var upd store.EdgeUpdate
	if err := c.Bind().JSON(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	g, err := s.store.UpdateEdge(c.Context(), c.Params("id"), index, upd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(g)
}

func (s *Server) deleteEdge(c fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid edge index"})
	}
	g, err := s.store.DeleteEdge(c.Context(), c.Params("id"), index)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(g)
}
