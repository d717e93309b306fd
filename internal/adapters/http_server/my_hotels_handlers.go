package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

const (
	imageField = "imageFiles"
	// room for the maximum images plus the text fields
	maxFormBytes = domain.MaxHotelImages*domain.MaxImageBytes + 1<<20
)

var ownedHotelNotFound = notFound{status: http.StatusNotFound, detail: "Hotel not found"}

// readHotelForm parses a multipart hotel form and its image files.
func readHotelForm(w http.ResponseWriter, r *http.Request) (app.HotelInput, []domain.Image, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		ve := &domain.ValidationError{}
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			ve.Add(imageField, fmt.Sprintf("upload exceeds %d MB", maxFormBytes>>20))
		} else {
			ve.Add("body", "must be multipart/form-data")
		}
		return app.HotelInput{}, nil, ve
	}
	defer r.MultipartForm.RemoveAll()

	in, err := app.ParseHotelForm(r.MultipartForm.Value)
	if err != nil {
		return app.HotelInput{}, nil, err
	}

	headers := r.MultipartForm.File[imageField]
	files := make([]domain.Image, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return app.HotelInput{}, nil, err
		}
		// one byte past the limit is enough to reject the file
		data, err := io.ReadAll(io.LimitReader(f, domain.MaxImageBytes+1))
		f.Close()
		if err != nil {
			return app.HotelInput{}, nil, err
		}
		files = append(files, domain.Image{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return in, files, nil
}

func (h *Handlers) createMyHotel(w http.ResponseWriter, r *http.Request) {
	in, files, err := readHotelForm(w, r)
	if err != nil {
		writeError(w, r, err, ownedHotelNotFound)
		return
	}
	hotel, err := h.MyHotels.Create(r.Context(), UserIDFrom(r.Context()), in, files)
	if err != nil {
		writeError(w, r, err, ownedHotelNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, hotel)
}

func (h *Handlers) updateMyHotel(w http.ResponseWriter, r *http.Request) {
	in, files, err := readHotelForm(w, r)
	if err != nil {
		writeError(w, r, err, ownedHotelNotFound)
		return
	}
	hotel, err := h.MyHotels.Update(r.Context(), UserIDFrom(r.Context()), chi.URLParam(r, "hotelId"), in, files)
	if err != nil {
		writeError(w, r, err, ownedHotelNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, hotel)
}

func (h *Handlers) listMyHotels(w http.ResponseWriter, r *http.Request) {
	hs, err := h.MyHotels.List(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err, ownedHotelNotFound)
		return
	}
	writeJSON(w, http.StatusOK, hs)
}

func (h *Handlers) getMyHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.MyHotels.Get(r.Context(), UserIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, ownedHotelNotFound)
		return
	}
	writeJSON(w, http.StatusOK, hotel)
}
