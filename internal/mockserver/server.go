// Package mockserver fakes the IKEA guest token, search, sales item, product
// page and IOWS services for local runs and tests.
package mockserver

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
)

const (
	defaultTokenTTL = 30 * time.Minute

	iowsErrWrongType = 1100
)

// Server is the mock upstream.
type Server struct {
	echo     *echo.Echo
	catalog  catalog
	secret   []byte
	tokenTTL time.Duration
	nowFunc  func() time.Time
	log      *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithCatalog replaces the default catalogue.
func WithCatalog(items []Item) Option {
	return func(s *Server) {
		s.catalog = newCatalog(items)
	}
}

// WithTokenTTL sets the lifetime of issued guest tokens.
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) {
		s.tokenTTL = d
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(s *Server) {
		s.nowFunc = f
	}
}

// New creates a Server with its routes registered.
func New(log *slog.Logger, opts ...Option) *Server {
	secret := make([]byte, 32)
	_, _ = rand.Read(secret)

	s := &Server{
		echo:     echo.New(),
		catalog:  newCatalog(DefaultCatalog()),
		secret:   secret,
		tokenTTL: defaultTokenTTL,
		nowFunc:  time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Use(recovery(log))
	e.Use(requestLog(log))
	e.Use(requestMetrics())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.POST("/guest/token", s.guestToken)
	e.GET("/:country/:lang/search-result-page", s.search)
	e.GET("/:country/:lang/products/:group/:file", s.pip)
	e.GET("/salesitem/communications/:country/:lang", s.ingkaItems)
	e.GET("/retail/iows/:country/:lang/catalog/items/:spec", s.iowsItems)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown.
func (s *Server) Start(addr string) error {
	s.log.Info("mock upstream listening", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving mock upstream: %w", err)
	}
	return nil
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) guestToken(c echo.Context) error {
	var body struct {
		RetailUnit string `json:"retailUnit"`
	}
	if err := c.Bind(&body); err != nil || body.RetailUnit == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "retailUnit is required"})
	}

	now := s.nowFunc()
	claims := jwt.RegisteredClaims{
		Subject:   "guest:" + body.RetailUnit,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("signing guest token: %w", err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"access_token": signed,
		"token_type":   "Bearer",
	})
}

// ValidToken reports whether raw was issued by this server and is unexpired.
func (s *Server) ValidToken(raw string) bool {
	tok, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.nowFunc),
	)
	return err == nil && tok.Valid
}

func (s *Server) search(c echo.Context) error {
	limit := 24
	if err := echo.QueryParamsBinder(c).Int("size", &limit).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	hits := s.catalog.search(c.QueryParam("q"))
	if len(hits) > limit {
		hits = hits[:limit]
	}

	items := make([]map[string]any, 0, len(hits))
	for _, it := range hits {
		items = append(items, map[string]any{"product": map[string]any{
			"id":           it.Code,
			"itemNo":       it.Code,
			"name":         it.Name,
			"typeName":     it.Type,
			"mainImageUrl": imageURL(it),
			"pipUrl":       s.pipURL(c, it),
			"salesPrice":   map[string]any{"numeral": it.Price, "currencyCode": currency(c.Param("country"))},
		}})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"searchResultPage": map[string]any{
			"products": map[string]any{"main": map[string]any{"items": items}},
		},
	})
}

func (s *Server) pip(c echo.Context) error {
	code := strings.TrimSuffix(c.Param("file"), ".json")
	it, ok := s.catalog[code]
	if !ok {
		return c.HTML(http.StatusNotFound, "<html><body>Not found</body></html>")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"id":           code,
		"priceNumeral": it.Price,
		"pipUrl":       s.pipURL(c, it),
		"catalogRefs": map[string]any{"products": map[string]any{
			"id":   categoryID(it),
			"name": it.Type,
			"url":  fmt.Sprintf("/%s/%s/cat/%s/", c.Param("country"), c.Param("lang"), categoryID(it)),
		}},
	})
}

func (s *Server) ingkaItems(c echo.Context) error {
	lang := c.Param("lang")
	data := make([]map[string]any, 0)
	for _, code := range strings.Split(c.QueryParam("itemNos"), ",") {
		it, ok := s.catalog[code]
		if !ok {
			continue
		}

		entry := map[string]any{
			"itemKey": map[string]string{"itemType": it.iowsType(), "itemNo": it.Code},
			"localisedCommunications": []map[string]any{{
				"languageCode": lang,
				"productName":  it.Name,
				"productType":  map[string]string{"name": it.Type},
				"packageMeasurements": []map[string]any{{
					"type": "WEIGHT", "valueMetric": s.catalog.weight(it), "unitMetric": "kg",
				}},
				"media": []map[string]any{{
					"typeName": "MAIN_PRODUCT_IMAGE",
					"variants": []map[string]string{{"quality": "S5", "href": imageURL(it)}},
				}},
			}},
		}
		if it.Combination {
			children := make([]map[string]any, 0, len(it.Children))
			for _, childCode := range sortedKeys(it.Children) {
				child := s.catalog[childCode]
				children = append(children, map[string]any{
					"quantity":    it.Children[childCode],
					"itemKey":     map[string]string{"itemType": "ART", "itemNo": childCode},
					"productName": child.Name,
					"weight":      child.WeightKg.String() + " kg",
				})
			}
			entry["childItems"] = children
		}
		data = append(data, entry)
	}

	return c.JSON(http.StatusOK, map[string]any{"data": data})
}

// iowsItems serves catalog/items/<type>,<code>;... Codes requested with the
// wrong type fail with error 1100, as the real service does. A single-item
// request with the wrong type is a bare 404.
func (s *Server) iowsItems(c echo.Context) error {
	type request struct{ kind, code string }
	var reqs []request
	for _, part := range strings.Split(c.Param("spec"), ";") {
		kind, code, ok := strings.Cut(part, ",")
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "malformed item spec " + part})
		}
		reqs = append(reqs, request{kind: strings.ToUpper(kind), code: code})
	}

	var (
		items    []map[string]any
		failures []map[string]any
	)
	for _, r := range reqs {
		it, ok := s.catalog[r.code]
		if !ok || it.iowsType() != r.kind {
			failures = append(failures, iowsError(r.code, r.kind))
			continue
		}
		items = append(items, s.iowsItem(c, it))
	}

	switch {
	case len(failures) > 0 && len(reqs) == 1:
		return c.NoContent(http.StatusNotFound)
	case len(failures) > 0:
		return c.JSON(http.StatusNotFound, map[string]any{"ErrorList": map[string]any{"Error": failures}})
	case len(items) == 1:
		return c.JSON(http.StatusOK, map[string]any{"RetailItemComm": items[0]})
	default:
		return c.JSON(http.StatusOK, map[string]any{
			"RetailItemCommList": map[string]any{"RetailItemComm": items},
		})
	}
}

func (s *Server) iowsItem(c echo.Context, it Item) map[string]any {
	item := map[string]any{
		"ItemNo":          dollar(it.Code),
		"ItemType":        dollar(it.iowsType()),
		"ProductName":     dollar(it.Name),
		"ProductTypeName": dollar(it.Type),
		"RetailItemCommPriceList": map[string]any{"RetailItemCommPrice": map[string]any{
			"RetailPriceType": dollar("RegularSalesUnitPrice"),
			"Price":           dollar(it.Price),
			"CurrencyCode":    dollar(currency(c.Param("country"))),
		}},
		"RetailItemImageList": map[string]any{"RetailItemImage": map[string]any{
			"ImageUsage": dollar("PRESENTATION"),
			"ImageSize":  dollar("S5"),
			"ImageUrl":   dollar(imageURL(it)),
		}},
		"CatalogRefList": map[string]any{"CatalogRef": map[string]any{
			"Catalog": map[string]any{"CatalogId": dollar("genericproducts")},
			"CatalogElementList": map[string]any{"CatalogElement": map[string]any{
				"CatalogElementName": dollar(it.Type),
				"CatalogElementId":   dollar(categoryID(it)),
			}},
		}},
	}

	if it.Combination {
		children := make([]map[string]any, 0, len(it.Children))
		for _, code := range sortedKeys(it.Children) {
			child := s.catalog[code]
			children = append(children, map[string]any{
				"ItemNo":          dollar(code),
				"ItemType":        dollar("ART"),
				"ProductName":     dollar(child.Name),
				"ProductTypeName": dollar(child.Type),
				"Quantity":        dollar(it.Children[code]),
			})
		}
		item["RetailItemCommChildList"] = map[string]any{"RetailItemCommChild": children}
	} else {
		item["RetailItemCommPackageMeasureList"] = map[string]any{"RetailItemCommPackageMeasure": map[string]any{
			"PackageMeasureType":       dollar("WEIGHT"),
			"PackageMeasureTextMetric": dollar(it.WeightKg.String() + " kg"),
			"ConsumerPackNumber":       dollar(1),
		}}
	}

	return item
}

func iowsError(code, kind string) map[string]any {
	return map[string]any{
		"ErrorCode":    dollar(iowsErrWrongType),
		"ErrorMessage": dollar(fmt.Sprintf("No item found for %s %s", kind, code)),
		"ErrorAttributeList": map[string]any{"ErrorAttribute": []map[string]any{
			{"Name": dollar("ITEM_NO"), "Value": dollar(code)},
			{"Name": dollar("ITEM_TYPE"), "Value": dollar(kind)},
		}},
	}
}

func sortedKeys(m map[string]int) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

func dollar(v any) map[string]any {
	return map[string]any{"$": v}
}

func (s *Server) pipURL(c echo.Context, it Item) string {
	prefix := ""
	if it.Combination {
		prefix = "s"
	}
	return fmt.Sprintf("%s://%s/%s/%s/p/-%s%s/", c.Scheme(), c.Request().Host, c.Param("country"), c.Param("lang"), prefix, it.Code)
}

func imageURL(it Item) string {
	return "/images/" + it.Code + "_S5.jpg"
}

func categoryID(it Item) string {
	return strings.ToLower(strings.ReplaceAll(it.Type, " ", "-"))
}

func currency(country string) string {
	switch country {
	case "ru":
		return "RUB"
	case "us":
		return "USD"
	case "gb":
		return "GBP"
	default:
		return "EUR"
	}
}
