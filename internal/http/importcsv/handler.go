package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/contable/internal/http/render"
	"github.com/MrJamesThe3rd/contable/internal/importer"
	"github.com/MrJamesThe3rd/contable/internal/inventory"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/preview", h.preview)
}

type rowDTO struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Stock          decimal.Decimal `json:"stock"`
	MinStock       decimal.Decimal `json:"minStock"`
	CostPrice      decimal.Decimal `json:"costPrice"`
	SalePrice      decimal.Decimal `json:"salePrice"`
	IVARate        decimal.Decimal `json:"ivaRate"`
	TrackInventory bool            `json:"trackInventory"`
}

type failureDTO struct {
	Row   int    `json:"row"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

type importResponse struct {
	Created []*inventory.Product `json:"created"`
	Updated []*inventory.Product `json:"updated"`
	Failed  []failureDTO         `json:"failed"`
}

// upload reads the "file" form field; "format" defaults to the catalog layout.
func upload(w http.ResponseWriter, r *http.Request, fn func(importer.Format, *http.Request) error) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		render.Error(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatCatalog
	}

	if err := fn(format, r); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
	}
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	upload(w, r, func(format importer.Format, r *http.Request) error {
		file, _, err := r.FormFile("file")
		if err != nil {
			render.Error(w, http.StatusBadRequest, "file field is required")
			return nil
		}
		defer file.Close()

		result, err := h.importSvc.Import(r.Context(), format, file)
		if err != nil {
			return err
		}

		resp := importResponse{
			Created: append([]*inventory.Product{}, result.Created...),
			Updated: append([]*inventory.Product{}, result.Updated...),
			Failed:  make([]failureDTO, 0, len(result.Failed)),
		}

		for _, f := range result.Failed {
			resp.Failed = append(resp.Failed, failureDTO{Row: f.Row, Code: f.Code, Error: f.Err.Error()})
		}

		render.JSON(w, http.StatusCreated, resp)

		return nil
	})
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	upload(w, r, func(format importer.Format, r *http.Request) error {
		file, _, err := r.FormFile("file")
		if err != nil {
			render.Error(w, http.StatusBadRequest, "file field is required")
			return nil
		}
		defer file.Close()

		rows, err := h.importSvc.Parse(format, file)
		if err != nil {
			return err
		}

		resp := make([]rowDTO, 0, len(rows))
		for _, p := range rows {
			resp = append(resp, rowDTO(p))
		}

		render.JSON(w, http.StatusOK, resp)

		return nil
	})
}
