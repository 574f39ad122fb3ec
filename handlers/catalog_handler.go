package handlers

import (
	"fmt"
	"net/http"

	"github.com/Dosada05/versusite/services"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(cs services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: cs,
	}
}

func (h *CatalogHandler) CreateCatalog(w http.ResponseWriter, r *http.Request) {
	var input services.CatalogInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	catalog, err := h.catalogService.CreateCatalog(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/catalogs/%s", catalog.ID))
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"catalog": catalog}, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CatalogHandler) ListCatalogs(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	catalogs, err := h.catalogService.ListCatalogs(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"catalogs": catalogs}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	catalogID, err := getIDFromURL(r, "catalogID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	catalog, err := h.catalogService.GetCatalog(r.Context(), catalogID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"catalog": catalog}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CatalogHandler) UpdateCatalog(w http.ResponseWriter, r *http.Request) {
	catalogID, err := getIDFromURL(r, "catalogID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CatalogInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	catalog, err := h.catalogService.UpdateCatalog(r.Context(), catalogID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"catalog": catalog}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CatalogHandler) DeleteCatalog(w http.ResponseWriter, r *http.Request) {
	catalogID, err := getIDFromURL(r, "catalogID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.catalogService.DeleteCatalog(r.Context(), catalogID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	catalogID, err := getIDFromURL(r, "catalogID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AddItemsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	catalog, err := h.catalogService.AddItems(r.Context(), catalogID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"catalog": catalog}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CatalogHandler) SearchItems(w http.ResponseWriter, r *http.Request) {
	catalogID, err := getIDFromURL(r, "catalogID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	items, err := h.catalogService.SearchItems(r.Context(), catalogID, r.URL.Query().Get("q"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"items": items}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportCatalog отдаёт снимок каталога как JSON-файл для скачивания.
func (h *CatalogHandler) ExportCatalog(w http.ResponseWriter, r *http.Request) {
	catalogID, err := getIDFromURL(r, "catalogID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	data, err := h.catalogService.ExportCatalog(r.Context(), catalogID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="catalog-%s.json"`, catalogID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *CatalogHandler) UploadExport(w http.ResponseWriter, r *http.Request) {
	catalogID, err := getIDFromURL(r, "catalogID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.catalogService.UploadExport(r.Context(), catalogID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"export": jsonResponse{"key": result.Key, "url": result.Location}}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CatalogHandler) ImportCatalog(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	catalog, err := h.catalogService.ImportCatalog(r.Context(), data)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"catalog": catalog}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
