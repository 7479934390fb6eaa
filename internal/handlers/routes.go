// internal/handlers/routes.go
package handlers

import "net/http"

const apiV1 = "/api/v1"

// Routes groups the handlers served by the API. Nil handlers leave their
// routes unregistered.
type Routes struct {
	Health   *HealthHandler
	Sales    *SalesHandler
	Listings *ListingHandler
	Stock    *StockHandler
	Imports  *ImportHandler
}

// Register adds every configured route to mux
func (rt Routes) Register(mux *http.ServeMux) {
	if rt.Health != nil {
		mux.HandleFunc("GET /health", rt.Health.Health)
		mux.HandleFunc("GET /health/live", live)
		mux.HandleFunc("GET /health/ready", rt.Health.Readiness)
		mux.HandleFunc("GET /ready", rt.Health.Readiness)
	}

	if rt.Sales != nil {
		mux.HandleFunc("POST "+apiV1+"/shops/{shopId}/sales/code", rt.Sales.SellByCode)
		mux.HandleFunc("POST "+apiV1+"/shops/{shopId}/sales/scan", rt.Sales.SellByScan)
		mux.HandleFunc("POST "+apiV1+"/shops/{shopId}/sales/name", rt.Sales.SellByName)
	}

	if rt.Listings != nil {
		mux.HandleFunc("GET "+apiV1+"/listings", rt.Listings.List)
		mux.HandleFunc("POST "+apiV1+"/listings/refresh", rt.Listings.Refresh)
		mux.HandleFunc("GET "+apiV1+"/listings/export", rt.Listings.Export)
	}

	if rt.Stock != nil {
		mux.HandleFunc("GET "+apiV1+"/shops/{shopId}/stock/summary", rt.Stock.Summary)
	}

	if rt.Imports != nil {
		mux.HandleFunc("POST "+apiV1+"/catalog/import", rt.Imports.Upload)
		mux.HandleFunc("GET "+apiV1+"/catalog/import/{jobId}", rt.Imports.Status)
	}
}

func live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"alive"}` + "\n"))
}
