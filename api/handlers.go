package api

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/famtree"
)

func (h *Handler) createSchema(c fiber.Ctx) error {
	if err := h.store.CreateSchema(c.Context()); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "schema created"})
}

func (h *Handler) dropSchema(c fiber.Ctx) error {
	if err := h.store.DropSchema(c.Context()); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "schema dropped"})
}

func (h *Handler) listTrees(c fiber.Ctx) error {
	ids, err := h.store.ListTrees(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ids)
}

func (h *Handler) saveTree(c fiber.Ctx) error {
	var t famtree.Tree
	if err := c.Bind().JSON(&t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	saved, err := h.store.SaveTree(c.Context(), &t)
	if err != nil {
		return h.fail(c, err)
	}
	h.logger.Info("tree saved", "tree", saved.ID, "persons", len(saved.Persons))
	return c.Status(fiber.StatusCreated).JSON(saved)
}

func (h *Handler) getTree(c fiber.Ctx) error {
	t, err := h.store.GetTree(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if t == nil {
		return h.fail(c, famtree.ErrTreeNotFound)
	}
	return c.JSON(t)
}

func (h *Handler) deleteTree(c fiber.Ctx) error {
	if err := h.store.DeleteTree(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) persons(c fiber.Ctx) error {
	f, err := h.forest(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(f.Persons())
}

// person reads a single row from the store without building the forest.
func (h *Handler) person(c fiber.Ctx) error {
	id := c.Params("pid")
	p, err := h.store.GetPerson(c.Context(), c.Params("id"), id)
	if err != nil {
		return h.fail(c, err)
	}
	if p == nil {
		return h.fail(c, &famtree.NotFoundError{ID: id})
	}
	return c.JSON(p)
}

func (h *Handler) card(c fiber.Ctx) error {
	f, err := h.forest(c)
	if err != nil {
		return h.fail(c, err)
	}
	id := c.Params("pid")
	p, err := f.Get(id)
	if err != nil {
		return h.fail(c, err)
	}
	view := PersonView{Person: p}
	if parent, ok, _ := f.ParentOf(id); ok {
		view.Parent = &parent
	}
	view.Children, _ = f.ChildrenOf(id)
	return c.JSON(view)
}

func (h *Handler) children(c fiber.Ctx) error {
	f, err := h.forest(c)
	if err != nil {
		return h.fail(c, err)
	}
	children, err := f.ChildrenOf(c.Params("pid"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(children)
}

func (h *Handler) roots(c fiber.Ctx) error {
	f, err := h.forest(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(f.Roots())
}

func (h *Handler) generations(c fiber.Ctx) error {
	f, err := h.forest(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(f.Generations())
}

func (h *Handler) byGeneration(c fiber.Ctx) error {
	n, err := strconv.Atoi(c.Params("n"))
	if err != nil || n < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "generation must be a non-negative integer"})
	}
	f, err := h.forest(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(f.ByGeneration(n))
}

func (h *Handler) statistics(c fiber.Ctx) error {
	f, err := h.forest(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(f.Statistics())
}

func (h *Handler) edges(c fiber.Ctx) error {
	f, err := h.forest(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(f.DirectedEdges())
}

func (h *Handler) graph(c fiber.Ctx) error {
	f, err := h.forest(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(f.Graph(h.icons))
}
