package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/bitebot/backend/internal/apperrors"
	"github.com/bitebot/backend/internal/middleware"
	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/search"
	"github.com/bitebot/backend/internal/service"
	"github.com/bitebot/backend/internal/types"
	"github.com/gin-gonic/gin"
)

// SearchRecipesTool is the tool name exposed to the chat agent
const SearchRecipesTool = "search_recipes"

// ToolDefinition describes a tool and its JSON schema arguments
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// SearchRecipesDefinition is the schema the chat agent calls against
func SearchRecipesDefinition() ToolDefinition {
	stringList := func(desc string, enum []string) map[string]interface{} {
		items := map[string]interface{}{"type": "string"}
		if enum != nil {
			items["enum"] = enum
		}
		return map[string]interface{}{"type": "array", "description": desc, "items": items}
	}
	return ToolDefinition{
		Name:        SearchRecipesTool,
		Description: "Search BiteBot recipes. Any matching condition returns a recipe.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Text matched against recipe titles and descriptions",
				},
				"cuisine": map[string]interface{}{
					"type":        "string",
					"description": "Cuisine name or part of it",
				},
				"ingredients":   stringList("Ingredient names; a recipe matches if it uses any of them", nil),
				"dietaryLabels": stringList("Dietary labels; a recipe matches if it carries any of them", models.DietaryLabels),
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of recipes",
					"minimum":     1,
					"maximum":     search.MaxLimit,
					"default":     search.DefaultLimit,
				},
			},
			"additionalProperties": false,
		},
	}
}

// ToolHandler serves the chat agent tool runtime
type ToolHandler struct {
	searchService service.ISearchToolService
	validator     middleware.TokenValidator
	limit         gin.HandlerFunc
}

// NewToolHandler builds the tool routes. limit may be nil.
func NewToolHandler(searchService service.ISearchToolService, validator middleware.TokenValidator, limit gin.HandlerFunc) *ToolHandler {
	return &ToolHandler{
		searchService: searchService,
		validator:     validator,
		limit:         limit,
	}
}

func (h *ToolHandler) RegisterRoutes(router *gin.RouterGroup) {
	tools := router.Group("/tools")
	tools.GET("", h.ListTools)

	handlers := []gin.HandlerFunc{middleware.AuthMiddleware(h.validator)}
	if h.limit != nil {
		handlers = append(handlers, h.limit)
	}
	tools.POST("/"+SearchRecipesTool, append(handlers, h.SearchRecipes)...)
}

func (h *ToolHandler) ListTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": []ToolDefinition{SearchRecipesDefinition()}})
}

func (h *ToolHandler) SearchRecipes(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxJSONBody))
	if err != nil {
		middleware.Abort(c, apperrors.Validation("failed to read request body"))
		return
	}
	var args types.SearchToolArgs
	if len(body) > 0 {
		if err := json.Unmarshal(body, &args); err != nil {
			middleware.Abort(c, apperrors.Validation("invalid tool arguments"))
			return
		}
	}

	recipes, err := h.searchService.SearchRecipes(c.Request.Context(), &args)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, types.SearchToolResponse{Recipes: recipes})
}
