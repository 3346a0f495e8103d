package inventory

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cse-motors/motors/internal/auth"
	"github.com/cse-motors/motors/internal/flash"
	"github.com/cse-motors/motors/internal/models"
	"github.com/cse-motors/motors/internal/render"
	"github.com/cse-motors/motors/internal/validate"
)

// InventoryStore is the store surface the handlers need.
type InventoryStore interface {
	GetClassifications(ctx context.Context) ([]models.Classification, error)
	GetVehiclesByClassification(ctx context.Context, classificationID int64) ([]models.Vehicle, error)
	GetVehicleByID(ctx context.Context, id int64) (*models.Vehicle, error)
	AddClassification(ctx context.Context, name string) (int64, error)
	AddVehicle(ctx context.Context, v *models.Vehicle) (int64, error)
}

// ImageUploader stores an uploaded vehicle photo and returns its URL.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, body io.Reader, contentType string) (string, error)
}

// Handler serves the /inv routes.
type Handler struct {
	store  InventoryStore
	images ImageUploader // nil when object storage is not configured
	flash  *flash.Store
	render render.Renderer
}

func NewHandler(store InventoryStore, images ImageUploader, fl *flash.Store, renderer render.Renderer) *Handler {
	return &Handler{
		store:  store,
		images: images,
		flash:  fl,
		render: renderer,
	}
}

// Routes mounts the inventory routes. Browsing is public; management is
// restricted to employees and admins.
func (h *Handler) Routes(mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Get("/type/{classificationID}", h.Classification)
	r.Get("/detail/{id}", h.Detail)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireLogin)
		r.Use(mw.RequireAccountType(models.AccountTypeEmployee, models.AccountTypeAdmin))
		r.Get("/", h.Management)
		r.Get("/add-classification", h.AddClassificationPage)
		r.Post("/add-classification", h.AddClassification)
		r.Get("/add-inventory", h.AddVehiclePage)
		r.Post("/add-inventory", h.AddVehicle)
	})

	return r
}

// Classification renders the vehicle grid for one classification.
func (h *Handler) Classification(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "classificationID"), 10, 64)
	if err != nil {
		h.render.Error(w, r, http.StatusNotFound, "Sorry, we appear to have lost that page.")
		return
	}

	vehicles, err := h.store.GetVehiclesByClassification(r.Context(), id)
	if err != nil {
		log.Printf("inventory: classification query failed: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}

	title := "Vehicles"
	if len(vehicles) > 0 {
		title = vehicles[0].ClassificationName + " vehicles"
	}
	h.render.Render(w, r, "inventory/classification.html", title, render.PageData{
		"Vehicles": vehicles,
	})
}

// Detail renders one vehicle's detail page.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.render.Error(w, r, http.StatusNotFound, "Sorry, we appear to have lost that page.")
		return
	}

	vehicle, err := h.store.GetVehicleByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		h.render.Error(w, r, http.StatusNotFound, "Sorry, we couldn't find that vehicle.")
		return
	}
	if err != nil {
		log.Printf("inventory: detail query failed: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}

	h.render.Render(w, r, "inventory/detail.html", vehicle.Make+" "+vehicle.Model+" Details", render.PageData{
		"Vehicle": vehicle,
	})
}

func (h *Handler) Management(w http.ResponseWriter, r *http.Request) {
	classifications, err := h.store.GetClassifications(r.Context())
	if err != nil {
		log.Printf("inventory: management query failed: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}
	h.render.Render(w, r, "inventory/management.html", "Inventory Management", render.PageData{
		"Classifications": classifications,
	})
}

func (h *Handler) AddClassificationPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "inventory/add-classification.html", "Add Classification", nil)
}

func (h *Handler) AddClassification(w http.ResponseWriter, r *http.Request) {
	form := parseClassificationForm(r)

	if errs := form.validate(); len(errs) > 0 {
		h.render.RenderStatus(w, r, http.StatusBadRequest, "inventory/add-classification.html", "Add Classification", render.PageData{
			"Errors":             errs,
			"ClassificationName": form.Name,
		})
		return
	}

	if _, err := h.store.AddClassification(r.Context(), form.Name); err != nil {
		log.Printf("inventory: add classification failed: %v", err)
		h.flash.Add(w, r, "notice", "Sorry, adding the classification failed.")
		h.render.RenderStatus(w, r, http.StatusInternalServerError, "inventory/add-classification.html", "Add Classification", render.PageData{
			"ClassificationName": form.Name,
		})
		return
	}

	h.flash.Add(w, r, "notice", "The "+form.Name+" classification was successfully added.")
	http.Redirect(w, r, "/inv/", http.StatusSeeOther)
}

func (h *Handler) AddVehiclePage(w http.ResponseWriter, r *http.Request) {
	classifications, err := h.store.GetClassifications(r.Context())
	if err != nil {
		log.Printf("inventory: add vehicle page failed: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}
	h.render.Render(w, r, "inventory/add-inventory.html", "Add Inventory", render.PageData{
		"Classifications": classifications,
	})
}

// AddVehicle validates and persists a new vehicle. A photo upload is
// optional; without one (or without object storage) the stock image paths
// are used.
func (h *Handler) AddVehicle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.render.Error(w, r, http.StatusBadRequest, "")
		return
	}

	form := parseVehicleForm(r)

	redisplay := func(status int, errs []validate.FieldError) {
		classifications, err := h.store.GetClassifications(r.Context())
		if err != nil {
			log.Printf("inventory: classification reload failed: %v", err)
		}
		h.render.RenderStatus(w, r, status, "inventory/add-inventory.html", "Add Inventory", render.PageData{
			"Errors":          errs,
			"Classifications": classifications,
			"Form":            form,
		})
	}

	if errs := form.validate(); len(errs) > 0 {
		redisplay(http.StatusBadRequest, errs)
		return
	}

	image, thumbnail := DefaultImage, DefaultThumbnail
	if h.images != nil {
		if file, header, err := r.FormFile("inv_image_file"); err == nil {
			defer file.Close()
			url, err := h.images.Upload(r.Context(), header.Filename, file, header.Header.Get("Content-Type"))
			if err != nil {
				log.Printf("inventory: image upload failed: %v", err)
				h.flash.Add(w, r, "notice", "Sorry, uploading the vehicle image failed.")
				redisplay(http.StatusInternalServerError, nil)
				return
			}
			image, thumbnail = url, url
		}
	}

	vehicle := &models.Vehicle{
		Make:             form.Make,
		Model:            form.Model,
		Year:             form.Year,
		Description:      form.Description,
		Image:            image,
		Thumbnail:        thumbnail,
		Price:            form.Price,
		Miles:            form.Miles,
		Color:            form.Color,
		ClassificationID: form.ClassificationID,
	}

	if _, err := h.store.AddVehicle(r.Context(), vehicle); err != nil {
		log.Printf("inventory: add vehicle failed: %v", err)
		h.flash.Add(w, r, "notice", "Sorry, adding the vehicle failed.")
		redisplay(http.StatusInternalServerError, nil)
		return
	}

	h.flash.Add(w, r, "notice", "The "+form.Make+" "+form.Model+" was successfully added.")
	http.Redirect(w, r, "/inv/", http.StatusSeeOther)
}
