package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Zethembe177/Job-Portal/internal/domain"
	listinguc "github.com/Zethembe177/Job-Portal/internal/listing/usecase"
	"github.com/Zethembe177/Job-Portal/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20

// ListingHandler serves the listing CRUD, search, and analytics routes.
type ListingHandler struct {
	usecase   *listinguc.ListingUsecase
	uploadDir string
	logger    *logger.Logger
}

func NewListingHandler(usecase *listinguc.ListingUsecase, uploadDir string, log *logger.Logger) *ListingHandler {
	return &ListingHandler{
		usecase:   usecase,
		uploadDir: uploadDir,
		logger:    log.Named("ListingHandler"),
	}
}

type listingResponse struct {
	Message string          `json:"message"`
	Listing *domain.Listing `json:"listing"`
}

type listingsResponse struct {
	Count    int               `json:"count"`
	Listings []*domain.Listing `json:"listings"`
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthenticated)
		return
	}

	form, err := h.parseListingForm(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	input := listinguc.CreateListingInput{
		Title:    form.title,
		Category: form.category,
		Address:  form.address,
		OwnerID:  user.ID,
		Image:    form.image,
	}
	if form.salaryMin != nil {
		input.SalaryMin = *form.salaryMin
	}
	if form.salaryMax != nil {
		input.SalaryMax = *form.salaryMax
	}

	listing, err := h.usecase.Create(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, listingResponse{Message: "Listing created successfully", Listing: listing})
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthenticated)
		return
	}

	form, err := h.parseListingForm(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	listing, err := h.usecase.Update(r.Context(), chi.URLParam(r, "id"), user.ID, listinguc.UpdateListingInput{
		Title:     form.title,
		Category:  form.category,
		Address:   form.address,
		SalaryMin: form.salaryMin,
		SalaryMax: form.salaryMax,
		Image:     form.image,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, listingResponse{Message: "Listing updated successfully", Listing: listing})
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthenticated)
		return
	}

	if err := h.usecase.Delete(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Listing deleted successfully"})
}

func (h *ListingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	listing, err := h.usecase.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.ListingFilter{
		Search:   query.Get("search"),
		Category: query.Get("category"),
	}

	if raw := query.Get("minSalary"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, h.logger, fmt.Errorf("%w: minSalary must be a number", domain.ErrInvalidInput))
			return
		}
		filter.MinSalary = &value
	}
	if raw := query.Get("maxSalary"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, h.logger, fmt.Errorf("%w: maxSalary must be a number", domain.ErrInvalidInput))
			return
		}
		filter.MaxSalary = &value
	}

	listings, err := h.usecase.Search(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

// Nearby parses lat, lng, and radius as floats. Absent or unparseable values
// come through as zero and are rejected downstream.
func (h *ListingHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	lat, _ := strconv.ParseFloat(query.Get("lat"), 64)
	lng, _ := strconv.ParseFloat(query.Get("lng"), 64)
	radius, _ := strconv.ParseFloat(query.Get("radius"), 64)

	listings, err := h.usecase.Nearby(r.Context(), lat, lng, radius)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listingsResponse{Count: len(listings), Listings: listings})
}

func (h *ListingHandler) MyListings(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthenticated)
		return
	}

	listings, err := h.usecase.MyListings(r.Context(), user.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *ListingHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.usecase.AnalyticsSummary(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// listingForm is the parsed multipart payload. Salary pointers are nil when
// the field was absent, which is how partial updates tell "unset" from zero.
type listingForm struct {
	title     string
	category  string
	address   string
	salaryMin *float64
	salaryMax *float64
	image     *listinguc.ImageUpload
}

func (h *ListingHandler) parseListingForm(r *http.Request) (*listingForm, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("%w: malformed multipart form", domain.ErrInvalidInput)
	}

	form := &listingForm{
		title:    r.FormValue("title"),
		category: r.FormValue("category"),
		address:  r.FormValue("address"),
	}

	var err error
	if form.salaryMin, err = parseSalaryField(r, "salary[min]"); err != nil {
		return nil, err
	}
	if form.salaryMax, err = parseSalaryField(r, "salary[max]"); err != nil {
		return nil, err
	}

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return form, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read image field", domain.ErrInvalidInput)
	}
	defer file.Close()

	upload, err := h.spoolUpload(file, header)
	if err != nil {
		return nil, err
	}
	form.image = upload
	return form, nil
}

func parseSalaryField(r *http.Request, field string) (*float64, error) {
	values, present := r.MultipartForm.Value[field]
	if !present || len(values) == 0 {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(values[0], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, field)
	}
	return &parsed, nil
}

// spoolUpload writes the attachment to the local uploads directory. The
// usecase owns the file from here and removes it after the remote upload.
func (h *ListingHandler) spoolUpload(file multipart.File, header *multipart.FileHeader) (*listinguc.ImageUpload, error) {
	localPath := filepath.Join(h.uploadDir, uuid.NewString()+filepath.Ext(header.Filename))

	out, err := os.Create(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to spool upload: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(localPath)
		return nil, fmt.Errorf("failed to spool upload: %w", err)
	}

	h.logger.Debug("Spooled upload", zap.String("path", localPath), zap.Int64("size_bytes", header.Size))
	return &listinguc.ImageUpload{LocalPath: localPath, FileName: header.Filename}, nil
}
