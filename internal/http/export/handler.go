package export

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/contable/internal/export"
	"github.com/MrJamesThe3rd/contable/internal/http/render"
	"github.com/MrJamesThe3rd/contable/internal/invoice"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

type exportMetadataResponse struct {
	Invoices []*invoice.Invoice `json:"invoices"`
	Summary  string             `json:"summary"`
}

// run exports into a fresh temporary directory that the caller must remove.
func (h *Handler) run(w http.ResponseWriter, r *http.Request) (string, []export.Item, bool) {
	var req exportRequest
	if !render.Decode(w, r, &req) {
		return "", nil, false
	}

	tmpDir, err := os.MkdirTemp("", "contable-export-*")
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "internal error")
		return "", nil, false
	}

	items, err := h.svc.Export(r.Context(), req.StartDate, req.EndDate, tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		slog.Error("export failed", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return "", nil, false
	}

	return tmpDir, items, true
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	tmpDir, items, ok := h.run(w, r)
	if !ok {
		return
	}
	defer os.RemoveAll(tmpDir)

	invoices := make([]*invoice.Invoice, 0, len(items))
	for _, item := range items {
		invoices = append(invoices, item.Invoice)
	}

	render.JSON(w, http.StatusOK, exportMetadataResponse{
		Invoices: invoices,
		Summary:  h.svc.Summary(items),
	})
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	tmpDir, items, ok := h.run(w, r)
	if !ok {
		return
	}
	defer os.RemoveAll(tmpDir)

	if err := os.WriteFile(filepath.Join(tmpDir, "resumen.txt"), []byte(h.svc.Summary(items)), 0o644); err != nil {
		render.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"facturas_%s.zip\"", time.Now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	err := filepath.Walk(tmpDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		relPath, _ := filepath.Rel(tmpDir, path)

		zf, err := zipWriter.Create(relPath)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(zf, f)

		return err
	})
	if err != nil {
		slog.Error("failed to create zip", "error", err)
	}
}
