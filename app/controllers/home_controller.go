package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
	"github.com/shashiranjanraj/storefront/pkg/schema"
)

type HomeController struct {
	diagnostics *services.DiagnosticService
}

func NewHomeController(db docstore.Database) *HomeController {
	return &HomeController{diagnostics: services.NewDiagnosticService(db)}
}

// Index is the liveness banner.
func (h *HomeController) Index(c *ctx.Context) {
	c.OK(map[string]any{
		"message":  "Backend running",
		"services": []string{"products", "blogs", "consultations", "checkout"},
	})
}

// Test reports store connectivity. It always answers 200.
func (h *HomeController) Test(c *ctx.Context) {
	c.OK(h.diagnostics.Report(c.Context()))
}

// Schema lists the registered collections.
func (h *HomeController) Schema(c *ctx.Context) {
	c.OK(map[string]any{"collections": schema.Collections()})
}
