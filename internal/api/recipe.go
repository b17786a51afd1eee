package api

import (
	"mime/multipart"
	"net/http"

	"github.com/bitebot/backend/internal/apperrors"
	"github.com/bitebot/backend/internal/middleware"
	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/query"
	"github.com/bitebot/backend/internal/service"
	"github.com/bitebot/backend/internal/types"
	"github.com/gin-gonic/gin"
)

// maxRecipeUpload bounds a multipart recipe creation request
const maxRecipeUpload = 32 << 20

type RecipeHandler struct {
	recipeService service.IRecipeService
	likeService   service.ILikeService
	validator     middleware.TokenValidator
	createLimit   gin.HandlerFunc
}

// NewRecipeHandler builds the recipe routes. createLimit may be nil.
func NewRecipeHandler(recipeService service.IRecipeService, likeService service.ILikeService, validator middleware.TokenValidator, createLimit gin.HandlerFunc) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		likeService:   likeService,
		validator:     validator,
		createLimit:   createLimit,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.validator)
	optional := middleware.OptionalAuth(h.validator)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optional, h.ListRecipes)
		recipes.GET("/trending", optional, h.listView(query.ViewTrending))
		recipes.GET("/fresh", optional, h.listView(query.ViewFresh))
		recipes.GET("/quick", optional, h.listView(query.ViewQuick))
		recipes.GET("/premium", optional, h.listView(query.ViewPremium))
		recipes.GET("/recommended", auth, h.listView(query.ViewRecommended))
		recipes.GET("/:id", optional, h.GetRecipe)

		create := []gin.HandlerFunc{auth, middleware.RequireRole(models.RoleChef, models.RoleAdmin)}
		if h.createLimit != nil {
			create = append(create, h.createLimit)
		}
		recipes.POST("", append(create, h.CreateRecipe)...)
		recipes.PUT("/:id", auth, h.UpdateRecipe)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.POST("/:id/like", auth, h.ToggleLike)
		recipes.POST("/:id/reviews", auth, h.AddReview)
	}
}

// ListRecipes runs the query engine. View flags may come from boolean
// parameters or a single view parameter.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var base query.Flags
	if name := c.Query("view"); name != "" {
		view, ok := query.ParseView(name)
		if !ok {
			middleware.Abort(c, apperrors.Validation("unknown view %q", name))
			return
		}
		base = query.FlagsFor(view)
	}
	h.list(c, base)
}

func (h *RecipeHandler) listView(view query.View) gin.HandlerFunc {
	flags := query.FlagsFor(view)
	return func(c *gin.Context) {
		h.list(c, flags)
	}
}

func (h *RecipeHandler) list(c *gin.Context, base query.Flags) {
	params, err := query.ParseParams(c.Request.URL.Query(), base)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	params.RequesterID = middleware.UserID(c)

	resp, err := h.recipeService.Query(c.Request.Context(), params)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	recipe, err := h.recipeService.Get(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe reads a multipart form: the recipe JSON in "data", the
// thumbnail file and one step image per step in step order.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRecipeUpload)
	form, err := c.MultipartForm()
	if err != nil {
		middleware.Abort(c, apperrors.Validation("expected a multipart form"))
		return
	}

	data := form.Value["data"]
	if len(data) != 1 {
		middleware.Abort(c, apperrors.Validation("data field is required"))
		return
	}
	var req types.RecipeRequest
	if err := decodeStrict([]byte(data[0]), &req); err != nil {
		middleware.Abort(c, err)
		return
	}

	var thumbnail *service.Upload
	if files := form.File["thumbnail"]; len(files) > 0 {
		up, closeFn, err := openUpload(files[0])
		if err != nil {
			middleware.Abort(c, err)
			return
		}
		defer closeFn()
		thumbnail = &up
	}

	steps := make([]service.Upload, 0, len(form.File["stepImages"]))
	for _, fh := range form.File["stepImages"] {
		up, closeFn, err := openUpload(fh)
		if err != nil {
			middleware.Abort(c, err)
			return
		}
		defer closeFn()
		steps = append(steps, up)
	}

	actor := service.Actor{ID: middleware.UserID(c), Role: middleware.Role(c)}
	recipe, err := h.recipeService.Create(c.Request.Context(), actor, &req, thumbnail, steps)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	var req types.RecipeRequest
	if err := bindStrictJSON(c, &req); err != nil {
		middleware.Abort(c, err)
		return
	}

	actor := service.Actor{ID: middleware.UserID(c), Role: middleware.Role(c)}
	recipe, err := h.recipeService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	actor := service.Actor{ID: middleware.UserID(c), Role: middleware.Role(c)}
	if err := h.recipeService.Delete(c.Request.Context(), actor, id); err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted"})
}

func (h *RecipeHandler) ToggleLike(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	resp, err := h.likeService.Toggle(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) AddReview(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	var req types.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, apperrors.Validation("invalid request body"))
		return
	}
	review, err := h.recipeService.AddReview(c.Request.Context(), middleware.UserID(c), id, &req)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func openUpload(fh *multipart.FileHeader) (service.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, nil, apperrors.Validation("failed to read %s", fh.Filename)
	}
	return service.Upload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}, func() { f.Close() }, nil
}
