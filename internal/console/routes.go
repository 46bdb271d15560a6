package console

import "github.com/go-chi/chi/v5"

// MountRoutes registers the console routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Get("/pages/{page}", h.handlePage)
	r.Get("/search", h.handleSearch)
	r.Get("/inventory/page", h.handleInventoryPage)

	r.Route("/products", func(r chi.Router) {
		r.Get("/new", h.showCreate)
		r.Post("/", h.handleSubmit)
		r.Post("/bulk-delete", h.handleBulkDelete)
		r.Get("/{id}", h.showProduct)
		r.Post("/{id}", h.handleSubmit)
		r.Get("/{id}/edit", h.showEdit)
		r.Get("/{id}/delete", h.showDelete)
		r.Post("/{id}/delete", h.handleDelete)
		r.Post("/{id}/stock", h.handleStock)
		r.Post("/{id}/select", h.handleSelect)
	})
	r.Post("/modal/close", h.handleCloseModal)
	r.Post("/cache/refresh", h.handleRefresh)

	r.Get("/network.svg", h.handleNetworkSVG)
	r.Get("/api/network", h.handleNetworkJSON)
}
