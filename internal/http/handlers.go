package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/petshop-catalog-service/internal/catalog"
	"github.com/fairyhunter13/petshop-catalog-service/internal/config"
	httpopenapi "github.com/fairyhunter13/petshop-catalog-service/internal/http/openapi"
	"github.com/fairyhunter13/petshop-catalog-service/internal/model"
	"github.com/fairyhunter13/petshop-catalog-service/internal/obs"
	"github.com/fairyhunter13/petshop-catalog-service/internal/recommend"
)

const maxBodyBytes = 1 << 20

// Methods served per route, in Allow header order.
var (
	collectionMethods     = []string{http.MethodGet, http.MethodPost}
	itemMethods           = []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete}
	recommendationMethods = []string{http.MethodPost}
	readOnlyMethods       = []string{http.MethodGet}
)

type App struct {
	Cfg         config.Config
	Catalog     *catalog.Service
	Recommender *recommend.Service
	started     time.Time
}

type pageInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

type productPage struct {
	Data     []model.Product `json:"data"`
	PageInfo pageInfo        `json:"pageInfo"`
}

func NewApp(cfg config.Config, cat *catalog.Service, rec *recommend.Service) *App {
	return &App{Cfg: cfg, Catalog: cat, Recommender: rec, started: time.Now()}
}

func (a *App) productsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listProducts(w, r)
	case http.MethodPost:
		a.createProduct(w, r)
	default:
		methodNotAllowed(w, r, collectionMethods...)
	}
}

func (a *App) productHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	if id == "" {
		WriteJSONError(w, http.StatusNotFound, CodeNotFound, "route not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getProduct(w, r, id)
	case http.MethodPut:
		a.replaceProduct(w, r, id)
	case http.MethodPatch:
		a.mergeProduct(w, r, id)
	case http.MethodDelete:
		a.deleteProduct(w, r, id)
	default:
		methodNotAllowed(w, r, itemMethods...)
	}
}

// unsupportedMethod answers the requests the router rejects by method,
// including verbs it does not know, using the Allow set of the path.
func (a *App) unsupportedMethod(w http.ResponseWriter, r *http.Request) {
	allowed := allowedMethods(r.URL.Path)
	if allowed == nil {
		WriteJSONError(w, http.StatusNotFound, CodeNotFound, "route not found")
		return
	}
	methodNotAllowed(w, r, allowed...)
}

func allowedMethods(path string) []string {
	switch path {
	case "/products":
		return collectionMethods
	case "/recommendations":
		return recommendationMethods
	case "/healthz", "/metrics", "/openapi.yaml", "/docs":
		return readOnlyMethods
	}
	if id, ok := strings.CutPrefix(path, "/products/"); ok && id != "" && !strings.Contains(id, "/") {
		return itemMethods
	}
	return nil
}

func (a *App) listProducts(w http.ResponseWriter, r *http.Request) {
	list, err := a.Catalog.ListProducts(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	pages := 0
	if list.TotalCount > 0 {
		pages = 1
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(list.TotalCount))
	WriteJSON(w, http.StatusOK, productPage{
		Data: list.Items,
		PageInfo: pageInfo{
			Page:       1,
			PageSize:   list.TotalCount,
			TotalItems: list.TotalCount,
			TotalPages: pages,
		},
	})
}

func (a *App) createProduct(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	created, err := a.Catalog.CreateProduct(r.Context(), in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	w.Header().Set("Location", created.Location)
	WriteJSON(w, http.StatusCreated, created.Product)
	obs.Logger.Info("product_created",
		"request_id", RequestIDFromContext(r.Context()),
		"product_id", created.Product.ProductID,
	)
}

func (a *App) getProduct(w http.ResponseWriter, r *http.Request, id string) {
	p, err := a.Catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

func (a *App) replaceProduct(w http.ResponseWriter, r *http.Request, id string) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	p, err := a.Catalog.ReplaceProduct(r.Context(), id, in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
	obs.Logger.Info("product_replaced", "request_id", RequestIDFromContext(r.Context()), "product_id", id)
}

func (a *App) mergeProduct(w http.ResponseWriter, r *http.Request, id string) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	p, err := a.Catalog.MergeProduct(r.Context(), id, in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
	obs.Logger.Info("product_updated", "request_id", RequestIDFromContext(r.Context()), "product_id", id)
}

func (a *App) deleteProduct(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.Catalog.DeleteProduct(r.Context(), id); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	obs.Logger.Info("product_deleted", "request_id", RequestIDFromContext(r.Context()), "product_id", id)
}

// decodeInput reads a JSON object body. It writes the error response itself
// and reports false when the body cannot be used.
func decodeInput(w http.ResponseWriter, r *http.Request) (catalog.Input, bool) {
	body, ok := readJSONBody(w, r)
	if !ok {
		return nil, false
	}
	var in catalog.Input
	if err := json.Unmarshal(body, &in); err != nil || in == nil {
		WriteJSONError(w, http.StatusBadRequest, CodeBadRequest, "request body must be a JSON object")
		return nil, false
	}
	return in, true
}

func readJSONBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mt != "application/json" {
		WriteJSONError(w, http.StatusUnsupportedMediaType, CodeUnsupportedMediaType, "expected application/json")
		return nil, false
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteJSONError(w, http.StatusRequestEntityTooLarge, CodeBadRequest, "request body too large")
			return nil, false
		}
		WriteJSONError(w, http.StatusBadRequest, CodeBadRequest, "could not read request body")
		return nil, false
	}
	if !json.Valid(body) {
		WriteJSONError(w, http.StatusBadRequest, CodeBadRequest, "request body is not valid JSON")
		return nil, false
	}
	return body, true
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"store":      a.Cfg.StoreDriver,
		"uptime_sec": time.Since(a.started).Seconds(),
	})
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(docsPage))
}

const docsPage = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Petshop Catalog API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({ url: '/openapi.yaml', dom_id: '#swagger-ui' });
    </script>
  </body>
</html>`
