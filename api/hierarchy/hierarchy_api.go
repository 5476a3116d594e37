package hierarchy

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"repairshop.GO/api"
	"repairshop.GO/core/apperror"
	catalogRepo "repairshop.GO/model/repository/catalog"
)

func init() {
	api.RegisterModule(RegisterHierarchyRoutes)
}

// RegisterHierarchyRoutes serves the read-only device tree.
func RegisterHierarchyRoutes(apiGroup *echo.Group, d *api.Deps) {
	repo := catalogRepo.NewHierarchyRepository(d.DB)

	// GET /api/hierarchy/platforms → platforms > brands > families > models
	apiGroup.GET("/hierarchy/platforms", func(c echo.Context) error {
		tree, err := repo.Tree(c.Request().Context())
		if err != nil {
			return api.Error(c, d.Log, apperror.Internal("load hierarchy", err))
		}
		return c.JSON(http.StatusOK, tree)
	})
}
