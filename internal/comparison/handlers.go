package comparison

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/cse-motors/motors/internal/auth"
	"github.com/cse-motors/motors/internal/flash"
	"github.com/cse-motors/motors/internal/models"
	"github.com/cse-motors/motors/internal/render"
)

// ComparisonStore is the repository surface the workflow needs.
type ComparisonStore interface {
	Save(ctx context.Context, c *models.Comparison) error
	GetForAccount(ctx context.Context, comparisonID, accountID int64) (*models.Comparison, error)
	ListByAccount(ctx context.Context, accountID int64) ([]models.ComparisonSummary, error)
	Update(ctx context.Context, c *models.Comparison) error
	Delete(ctx context.Context, comparisonID, accountID int64) (bool, error)
	Popular(ctx context.Context, limit int) ([]models.PopularComparison, error)
}

// VehicleFinder is the inventory collaborator, consumed read-only.
type VehicleFinder interface {
	GetClassifications(ctx context.Context) ([]models.Classification, error)
	GetAllVehicles(ctx context.Context) ([]models.Vehicle, error)
	GetVehiclesByClassification(ctx context.Context, classificationID int64) ([]models.Vehicle, error)
	GetVehiclesByIDs(ctx context.Context, ids []int64) ([]models.Vehicle, error)
}

const popularPageSize = 20

// Handler serves the /compare routes.
type Handler struct {
	store    ComparisonStore
	vehicles VehicleFinder
	flash    *flash.Store
	render   render.Renderer
}

func NewHandler(store ComparisonStore, vehicles VehicleFinder, fl *flash.Store, renderer render.Renderer) *Handler {
	return &Handler{
		store:    store,
		vehicles: vehicles,
		flash:    fl,
		render:   renderer,
	}
}

// Routes mounts the comparison routes. Selection, ad-hoc viewing and the
// popular aggregation are public; everything touching saved comparisons
// requires a logged-in account.
func (h *Handler) Routes(mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Get("/select", h.SelectPage)
	r.Get("/view", h.View)
	r.Get("/popular", h.Popular)

	r.Route("/ajax", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/vehicles/{classificationID}", h.VehiclesByClassification)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireLogin)
		r.Get("/my-comparisons", h.MyComparisons)
		r.Post("/save", h.Save)
		r.Get("/saved/{comparisonID}", h.SavedView)
		r.Get("/edit/{comparisonID}", h.EditPage)
		r.Post("/update/{comparisonID}", h.Update)
		r.Post("/delete/{comparisonID}", h.Delete)
	})

	return r
}

// SelectPage lists all classifications and vehicles for building a
// comparison.
func (h *Handler) SelectPage(w http.ResponseWriter, r *http.Request) {
	classifications, err := h.vehicles.GetClassifications(r.Context())
	if err != nil {
		log.Printf("comparison: classification query failed: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}
	vehicles, err := h.vehicles.GetAllVehicles(r.Context())
	if err != nil {
		log.Printf("comparison: vehicle query failed: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}

	h.render.Render(w, r, "comparison/select.html", "Compare Vehicles", render.PageData{
		"Classifications": classifications,
		"Vehicles":        vehicles,
	})
}

type vehicleJSON struct {
	ID                 int64   `json:"inv_id"`
	Make               string  `json:"inv_make"`
	Model              string  `json:"inv_model"`
	Year               int     `json:"inv_year"`
	Price              float64 `json:"inv_price"`
	Miles              int     `json:"inv_miles"`
	Color              string  `json:"inv_color"`
	Thumbnail          string  `json:"inv_thumbnail"`
	ClassificationID   int64   `json:"classification_id"`
	ClassificationName string  `json:"classification_name"`
}

// VehiclesByClassification serves the select page's classification filter.
// Always responds with a JSON array, empty included.
func (h *Handler) VehiclesByClassification(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "classificationID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid classification id", http.StatusBadRequest)
		return
	}

	vehicles, err := h.vehicles.GetVehiclesByClassification(r.Context(), id)
	if err != nil {
		log.Printf("comparison: ajax vehicle query failed: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	out := make([]vehicleJSON, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, vehicleJSON{
			ID:                 v.ID,
			Make:               v.Make,
			Model:              v.Model,
			Year:               v.Year,
			Price:              v.Price,
			Miles:              v.Miles,
			Color:              v.Color,
			Thumbnail:          v.Thumbnail,
			ClassificationID:   v.ClassificationID,
			ClassificationName: v.ClassificationName,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// View renders an unsaved comparison from query-string vehicle ids. Ids
// that resolve to nothing leave their slot empty; if none resolve the
// visitor goes back to the select page.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	slots := [3]string{
		strings.TrimSpace(r.URL.Query().Get("vehicle1")),
		strings.TrimSpace(r.URL.Query().Get("vehicle2")),
		strings.TrimSpace(r.URL.Query().Get("vehicle3")),
	}

	var ids []int64
	var slotIDs [3]int64
	for i, raw := range slots {
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			continue
		}
		slotIDs[i] = id
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		h.flash.Add(w, r, "notice", "Please select at least one vehicle to compare.")
		http.Redirect(w, r, "/compare/select", http.StatusSeeOther)
		return
	}

	vehicles, err := h.vehicles.GetVehiclesByIDs(r.Context(), ids)
	if err != nil {
		log.Printf("comparison: view query failed: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}
	if len(vehicles) == 0 {
		h.flash.Add(w, r, "notice", "No vehicles found for comparison.")
		http.Redirect(w, r, "/compare/select", http.StatusSeeOther)
		return
	}

	byID := make(map[int64]models.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byID[v.ID] = v
	}
	slotVehicle := func(i int) *models.Vehicle {
		if v, ok := byID[slotIDs[i]]; ok {
			return &v
		}
		return nil
	}

	h.render.Render(w, r, "comparison/compare.html", "Vehicle Comparison", render.PageData{
		"Vehicle1":   slotVehicle(0),
		"Vehicle2":   slotVehicle(1),
		"Vehicle3":   slotVehicle(2),
		"Vehicle1ID": slots[0],
		"Vehicle2ID": slots[1],
		"Vehicle3ID": slots[2],
	})
}

// Save persists a comparison for the logged-in account. Validation failures
// redirect back to the unsaved view with the selection preserved in the
// query string; the form state is never stored server-side.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	form := parseComparisonForm(r)

	if errs := form.validate(); len(errs) > 0 {
		h.flash.Add(w, r, "notice", "Please correct the errors and try again.")
		http.Redirect(w, r, "/compare/view?"+form.viewQuery(), http.StatusSeeOther)
		return
	}

	c := &models.Comparison{
		Name:        form.Name,
		Description: form.Description,
		AccountID:   claims.AccountID,
		Vehicle1ID:  form.Vehicle1ID,
		Vehicle2ID:  form.Vehicle2ID,
		Vehicle3ID:  form.Vehicle3ID,
	}

	if err := h.store.Save(r.Context(), c); err != nil {
		log.Printf("comparison: save failed: %v", err)
		h.flash.Add(w, r, "notice", "Sorry, saving the comparison failed.")
		http.Redirect(w, r, "/compare/view?"+form.viewQuery(), http.StatusSeeOther)
		return
	}

	h.flash.Add(w, r, "notice", "Comparison \""+form.Name+"\" saved successfully!")
	http.Redirect(w, r, "/compare/my-comparisons", http.StatusSeeOther)
}

func (h *Handler) MyComparisons(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())

	comparisons, err := h.store.ListByAccount(r.Context(), claims.AccountID)
	if err != nil {
		log.Printf("comparison: list failed: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}

	h.render.Render(w, r, "comparison/my-comparisons.html", "My Saved Comparisons", render.PageData{
		"Comparisons": comparisons,
	})
}

// ownedComparison loads the comparison scoped to the logged-in account, or
// bounces to the list with the shared not-found-or-not-yours notice.
func (h *Handler) ownedComparison(w http.ResponseWriter, r *http.Request, action string) *models.Comparison {
	claims, _ := auth.ClaimsFrom(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "comparisonID"), 10, 64)
	if err != nil {
		h.flash.Add(w, r, "notice", "Comparison not found or you don't have permission to "+action+" it.")
		http.Redirect(w, r, "/compare/my-comparisons", http.StatusSeeOther)
		return nil
	}

	c, err := h.store.GetForAccount(r.Context(), id, claims.AccountID)
	if errors.Is(err, ErrNotFound) {
		h.flash.Add(w, r, "notice", "Comparison not found or you don't have permission to "+action+" it.")
		http.Redirect(w, r, "/compare/my-comparisons", http.StatusSeeOther)
		return nil
	}
	if err != nil {
		log.Printf("comparison: lookup failed: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return nil
	}
	return c
}

func (h *Handler) SavedView(w http.ResponseWriter, r *http.Request) {
	c := h.ownedComparison(w, r, "view")
	if c == nil {
		return
	}

	vehicles, err := h.vehicles.GetVehiclesByIDs(r.Context(), c.VehicleIDs())
	if err != nil {
		log.Printf("comparison: saved view query failed: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}

	byID := make(map[int64]models.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byID[v.ID] = v
	}
	slot := func(id *int64) *models.Vehicle {
		if id == nil {
			return nil
		}
		if v, ok := byID[*id]; ok {
			return &v
		}
		return nil
	}
	first := c.Vehicle1ID

	h.render.Render(w, r, "comparison/saved.html", "Comparison: "+c.Name, render.PageData{
		"Comparison": c,
		"Vehicle1":   slot(&first),
		"Vehicle2":   slot(c.Vehicle2ID),
		"Vehicle3":   slot(c.Vehicle3ID),
	})
}

func (h *Handler) EditPage(w http.ResponseWriter, r *http.Request) {
	c := h.ownedComparison(w, r, "edit")
	if c == nil {
		return
	}
	h.renderEditForm(w, r, http.StatusOK, c, nil)
}

func (h *Handler) renderEditForm(w http.ResponseWriter, r *http.Request, status int, c *models.Comparison, errs interface{}) {
	classifications, err := h.vehicles.GetClassifications(r.Context())
	if err != nil {
		log.Printf("comparison: classification query failed: %v", err)
	}
	vehicles, err := h.vehicles.GetVehiclesByIDs(r.Context(), c.VehicleIDs())
	if err != nil {
		log.Printf("comparison: edit vehicle query failed: %v", err)
	}

	h.render.RenderStatus(w, r, status, "comparison/edit.html", "Edit Comparison: "+c.Name, render.PageData{
		"Comparison":      c,
		"Classifications": classifications,
		"Vehicles":        vehicles,
		"Errors":          errs,
	})
}

// Update rewrites a saved comparison. The repository filters by owner, so
// a non-owner's attempt reads as a failed update, indistinguishable from a
// missing comparison.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	c := h.ownedComparison(w, r, "edit")
	if c == nil {
		return
	}

	form := parseComparisonForm(r)

	if errs := form.validate(); len(errs) > 0 {
		submitted := *c
		submitted.Name = form.Name
		submitted.Description = form.Description
		submitted.Vehicle1ID = form.Vehicle1ID
		submitted.Vehicle2ID = form.Vehicle2ID
		submitted.Vehicle3ID = form.Vehicle3ID
		h.renderEditForm(w, r, http.StatusBadRequest, &submitted, errs)
		return
	}

	c.Name = form.Name
	c.Description = form.Description
	c.Vehicle1ID = form.Vehicle1ID
	c.Vehicle2ID = form.Vehicle2ID
	c.Vehicle3ID = form.Vehicle3ID

	if err := h.store.Update(r.Context(), c); err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("comparison: update failed: %v", err)
		}
		h.flash.Add(w, r, "notice", "Sorry, updating the comparison failed.")
		http.Redirect(w, r, "/compare/edit/"+strconv.FormatInt(c.ID, 10), http.StatusSeeOther)
		return
	}

	h.flash.Add(w, r, "notice", "Comparison \""+c.Name+"\" updated successfully!")
	http.Redirect(w, r, "/compare/saved/"+strconv.FormatInt(c.ID, 10), http.StatusSeeOther)
}

// Delete removes a saved comparison. A second delete of the same id is a
// no-op reported with the failure notice, never an error.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "comparisonID"), 10, 64)
	if err != nil {
		h.flash.Add(w, r, "notice", "Sorry, deleting the comparison failed.")
		http.Redirect(w, r, "/compare/my-comparisons", http.StatusSeeOther)
		return
	}

	deleted, err := h.store.Delete(r.Context(), id, claims.AccountID)
	if err != nil {
		log.Printf("comparison: delete failed: %v", err)
		h.flash.Add(w, r, "notice", "Sorry, deleting the comparison failed.")
		http.Redirect(w, r, "/compare/my-comparisons", http.StatusSeeOther)
		return
	}

	if deleted {
		h.flash.Add(w, r, "notice", "Comparison deleted successfully!")
	} else {
		h.flash.Add(w, r, "notice", "Sorry, deleting the comparison failed.")
	}
	http.Redirect(w, r, "/compare/my-comparisons", http.StatusSeeOther)
}

// Popular renders the anonymized popularity aggregation.
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	comparisons, err := h.store.Popular(r.Context(), popularPageSize)
	if err != nil {
		log.Printf("comparison: popular query failed: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}

	h.render.Render(w, r, "comparison/popular.html", "Popular Vehicle Comparisons", render.PageData{
		"Comparisons": comparisons,
	})
}
