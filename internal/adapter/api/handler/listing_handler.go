package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"closetshop/internal/usecase"
	"closetshop/pkg/errors"
	"closetshop/pkg/logger"
	"closetshop/pkg/response"
)

type ListingHandler struct {
	controller *usecase.SyncController
}

func NewListingHandler(controller *usecase.SyncController) *ListingHandler {
	return &ListingHandler{
		controller: controller,
	}
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	return response.Success(c, h.controller.View().Listings)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	listing, err := h.controller.Listing(c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listing)
}

func (h *ListingHandler) Stats(c echo.Context) error {
	return response.Success(c, h.controller.View().Stats)
}

func formBool(c echo.Context, field string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(c.FormValue(field)))
	return err == nil && value
}

func listingInputFromForm(c echo.Context) usecase.ListingInput {
	return usecase.ListingInput{
		Title:       c.FormValue("title"),
		Size:        c.FormValue("size"),
		Price:       c.FormValue("price"),
		Currency:    c.FormValue("currency"),
		Description: c.FormValue("description"),
		Sold:        formBool(c, "sold"),
		Reserved:    formBool(c, "reserved"),
	}
}

func uploadSourcesFromForm(c echo.Context) ([]usecase.UploadSource, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// A form without files is fine; the draft just stays as hydrated.
		return nil, nil
	}

	files := form.File["images"]
	sources := make([]usecase.UploadSource, 0, len(files))
	for _, header := range files {
		file, err := readUpload(header)
		if err != nil {
			return nil, errors.BadRequest("Unable to read uploaded image", err)
		}
		sources = append(sources, usecase.UploadSource{File: file})
	}
	return sources, nil
}

func readUpload(header *multipart.FileHeader) (*usecase.UploadFile, error) {
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	return &usecase.UploadFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// existingImagesFromForm reads the kept remote URLs in their final order;
// hydrated images absent from the list become storage removals on commit. A
// missing field means "keep everything" and returns nil.
func existingImagesFromForm(c echo.Context) ([]string, error) {
	raw := strings.TrimSpace(c.FormValue("existing_images"))
	if raw == "" {
		return nil, nil
	}

	var keep []string
	if err := json.Unmarshal([]byte(raw), &keep); err != nil {
		return nil, errors.BadRequest("existing_images must be a JSON array of URLs", err)
	}
	if keep == nil {
		keep = []string{}
	}
	return keep, nil
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	sources, err := uploadSourcesFromForm(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.controller.CreateListing(c.Request().Context(), listingInputFromForm(c), sources); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, h.controller.View().Listings)
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	keep, err := existingImagesFromForm(c)
	if err != nil {
		return response.Error(c, err)
	}

	sources, err := uploadSourcesFromForm(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.controller.UpdateListing(c.Request().Context(), c.Param("id"), listingInputFromForm(c), keep, sources); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, h.controller.View().Listings)
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	if err := h.controller.DeleteListing(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, h.controller.View().Listings)
}

type moveListingRequest struct {
	Direction int `json:"direction" validate:"required,oneof=-1 1"`
}

func (h *ListingHandler) MoveListing(c echo.Context) error {
	var req moveListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.controller.MoveListing(c.Request().Context(), c.Param("id"), req.Direction); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, h.controller.View().Listings)
}

func (h *ListingHandler) ResetListings(c echo.Context) error {
	if err := h.controller.ResetListings(c.Request().Context()); err != nil {
		return response.Error(c, err)
	}
	logger.Info("Listing collection reset by admin")
	return response.Success(c, h.controller.View().Listings)
}
