package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Veraticus/grocer/internal/model"
	"github.com/gin-gonic/gin"
)

type addIngredientRequest struct {
	Name   string  `json:"name" binding:"required"`
	Unit   string  `json:"unit" binding:"required"`
	Kind   string  `json:"kind"`
	Recipe string  `json:"recipe"`
	Amount float64 `json:"amount"`
}

type convertRequest struct {
	Unit   string  `json:"unit" binding:"required"`
	To     string  `json:"to" binding:"required"`
	Kind   string  `json:"kind"`
	Amount float64 `json:"amount"`
}

type recipeResponse struct {
	Recipe      *model.Recipe `json:"recipe,omitempty"`
	Name        string        `json:"name"`
	Ingredients []model.Row   `json:"ingredients"`
}

func (s *Server) listIngredients(c *gin.Context) {
	s.mu.RLock()
	rows, err := s.list.Rows()
	s.mu.RUnlock()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) getIngredient(c *gin.Context) {
	name := c.Param("name")

	s.mu.RLock()
	ing, found, err := s.list.FindIngredient(name)
	s.mu.RUnlock()
	if err != nil {
		s.fail(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("ingredient %q not found", name)})
		return
	}
	c.JSON(http.StatusOK, ing.Flat())
}

func (s *Server) addIngredient(c *gin.Context) {
	var req addIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredient name must not be blank"})
		return
	}
	recipe := strings.TrimSpace(req.Recipe)
	if recipe == "" {
		recipe = model.DefaultRecipe
	}

	q, err := s.quantity(req.Kind, req.Unit, req.Amount)
	if err != nil {
		s.metrics.conversionErrors.WithLabelValues(conversionErrorKind(err)).Inc()
		s.fail(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.list.Add(recipe, model.Ingredient{Name: name, Quantity: q}); err != nil {
		s.metrics.conversionErrors.WithLabelValues(conversionErrorKind(err)).Inc()
		s.fail(c, err)
		return
	}
	if err := s.persistLocked(c); err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.ingredientsAdded.WithLabelValues(string(q.Unit.Kind())).Inc()

	for _, ing := range s.list.RecipeIngredients(recipe) {
		if ing.Name == name {
			c.JSON(http.StatusCreated, gin.H{"recipe": recipe, "ingredient": ing.Flat()})
			return
		}
	}
	c.Status(http.StatusCreated)
}

func (s *Server) quantity(kind, unit string, amount float64) (model.Quantity, error) {
	t := s.list.Taxonomy()
	if kind == "" {
		return t.NewQuantity(unit, amount)
	}
	k, err := model.ParseUnitKind(kind)
	if err != nil {
		return model.Quantity{}, err
	}
	u, err := t.ParseUnitOfKind(k, unit)
	if err != nil {
		return model.Quantity{}, err
	}
	return model.Quantity{Unit: u, Amount: amount}, nil
}

// persistLocked saves the list and reloads it from storage when the save
// fails, so memory never runs ahead of the database. Callers hold s.mu.
func (s *Server) persistLocked(c *gin.Context) error {
	if s.storage == nil {
		return nil
	}
	ctx := c.Request.Context()
	if err := s.storage.SaveShoppingList(ctx, s.list); err != nil {
		if reloaded, loadErr := s.storage.LoadShoppingList(ctx); loadErr == nil {
			s.list = reloaded
		} else {
			s.logger.Error("failed to reload shopping list", "error", loadErr)
		}
		return fmt.Errorf("failed to save shopping list: %w", err)
	}
	return nil
}

func (s *Server) listRecipes(c *gin.Context) {
	if s.storage != nil {
		recipes, err := s.storage.ListRecipes(c.Request.Context())
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, recipes)
		return
	}

	s.mu.RLock()
	names := s.list.Recipes()
	s.mu.RUnlock()
	recipes := make([]model.Recipe, len(names))
	for i, name := range names {
		recipes[i] = model.Recipe{Name: name, Origin: model.OriginManual, Position: i}
	}
	c.JSON(http.StatusOK, recipes)
}

func (s *Server) getRecipe(c *gin.Context) {
	name := c.Param("name")

	s.mu.RLock()
	sub, err := s.list.ForRecipe(name)
	s.mu.RUnlock()
	if err != nil {
		s.fail(c, err)
		return
	}

	rows, err := sub.Rows()
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := recipeResponse{Name: name, Ingredients: rows}
	if s.storage != nil {
		if meta, err := s.storage.GetRecipe(c.Request.Context(), name); err == nil {
			resp.Recipe = meta
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) deleteRecipe(c *gin.Context) {
	name := c.Param("name")

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.list.HasRecipe(name) {
		s.fail(c, fmt.Errorf("%w: %q", model.ErrNotFound, name))
		return
	}
	s.list.RemoveRecipe(name)
	if err := s.persistLocked(c); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) convert(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q, err := s.quantity(req.Kind, req.Unit, req.Amount)
	if err == nil {
		var to model.Unit
		if req.Kind != "" {
			to, err = s.list.Taxonomy().ParseUnitOfKind(q.Unit.Kind(), req.To)
		} else {
			to, err = s.list.Taxonomy().ParseUnit(req.To)
		}
		if err == nil {
			q, err = s.list.Taxonomy().ConvertTo(q, to)
		}
	}
	if err != nil {
		s.metrics.conversionErrors.WithLabelValues(conversionErrorKind(err)).Inc()
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, q)
}

func (s *Server) renderText(c *gin.Context) {
	s.mu.RLock()
	text, err := s.list.Render()
	s.mu.RUnlock()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.String(http.StatusOK, text)
}
