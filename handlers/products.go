package handlers

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"holoholo/models"
	"holoholo/service"
)

func HomeHandler(catalog *service.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		home, err := catalog.Featured(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, home)
	}
}

// parseFilter reads category, sort, min_price and max_price. Empty values
// and a non-positive category are ignored; malformed ones are rejected.
func parseFilter(r *http.Request) (models.ProductFilter, error) {
	q := r.URL.Query()
	f := models.ProductFilter{Sort: models.SortKey(q.Get("sort"))}

	if v := q.Get("category"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, &service.ValidationError{Field: "category", Msg: "must be an integer"}
		}
		// zero or below means all categories
		if id > 0 {
			f.CategoryID = &id
		}
	}
	for _, bound := range []struct {
		name string
		dst  **decimal.Decimal
	}{{"min_price", &f.MinPrice}, {"max_price", &f.MaxPrice}} {
		v := q.Get(bound.name)
		if v == "" {
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, &service.ValidationError{Field: bound.name, Msg: "must be a number"}
		}
		*bound.dst = &d
	}
	return f, nil
}

func ProductsHandler(catalog *service.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseFilter(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		listing, err := catalog.Listing(r.Context(), f)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, listing)
	}
}

func CategoriesHandler(catalog *service.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := catalog.Categories(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, cats)
	}
}

func ProductHandler(catalog *service.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		detail, err := catalog.ProductDetail(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

func SearchHandler(catalog *service.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		products, err := catalog.SearchProducts(r.Context(), q)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, models.SearchResult{Query: q, Products: products})
	}
}
