// Package parse converts IKEA API wire structures into domain records.
package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
	domain "github.com/donaldgifford/ikea-api-client/pkg/types"
)

const (
	preferredImageSize = "S5"
	mainImageType      = "MAIN_PRODUCT_IMAGE"
	regularPriceType   = "RegularSalesUnitPrice"
	weightMeasureType  = "WEIGHT"
	genericCatalogID   = "genericproducts"
)

var leadingNumber = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// ItemURL returns the product page URL of an item.
func ItemURL(c ikea.Constants, code string, isCombination bool) string {
	prefix := ""
	if isCombination {
		prefix = "s"
	}
	return c.LocalBaseURL() + "/p/-" + prefix + code
}

// IOWSItems converts IOWS catalog items.
func IOWSItems(c ikea.Constants, items []ikea.IOWSItem) []domain.ParsedItem {
	parsed := make([]domain.ParsedItem, 0, len(items))
	for i := range items {
		parsed = append(parsed, iowsItem(c, &items[i]))
	}
	return parsed
}

func iowsItem(c ikea.Constants, item *ikea.IOWSItem) domain.ParsedItem {
	code := string(item.ItemNo.Value)
	isCombination := item.ItemType.Value == string(domain.ItemCombination)

	p := domain.ParsedItem{
		IsCombination: isCombination,
		ItemCode:      code,
		Name: itemName(
			item.ProductName.Value,
			item.ProductTypeName.Value,
			dollarString(item.ValidDesignText),
			dollarString(item.ItemMeasureReferenceTextMetric),
		),
		URL: ItemURL(c, code, isCombination),
	}

	// Price
	if item.RetailItemCommPriceList != nil {
		prices := item.RetailItemCommPriceList.RetailItemCommPrice
		if price, ok := lo.Find(prices, func(pr ikea.IOWSPrice) bool {
			return pr.RetailPriceType.Value == regularPriceType
		}); ok {
			p.Price = price.Price.Value
		} else if len(prices) > 0 {
			p.Price = prices[0].Price.Value
		}
	}

	// Image
	if item.RetailItemImageList != nil {
		images := item.RetailItemImageList.RetailItemImage
		if img, ok := lo.Find(images, func(im ikea.IOWSImage) bool {
			return im.ImageSize.Value == preferredImageSize
		}); ok {
			p.ImageURL = absoluteURL(c, img.ImageURL.Value)
		} else if len(images) > 0 {
			p.ImageURL = absoluteURL(c, images[0].ImageURL.Value)
		}
	}

	// Weight
	if item.RetailItemCommPackageMeasureList != nil {
		for _, m := range item.RetailItemCommPackageMeasureList.RetailItemCommPackageMeasure {
			if m.PackageMeasureType.Value != weightMeasureType {
				continue
			}
			packs := m.ConsumerPackNumber.Value
			if packs < 1 {
				packs = 1
			}
			p.Weight += ParseWeight(m.PackageMeasureTextMetric.Value) * float64(packs)
		}
	}

	// Children
	if item.RetailItemCommChildList != nil {
		for _, ch := range item.RetailItemCommChildList.RetailItemCommChild {
			p.ChildItems = append(p.ChildItems, domain.ChildItem{
				ItemCode: string(ch.ItemNo.Value),
				Name:     itemName(ch.ProductName.Value, ch.ProductTypeName.Value),
				Qty:      ch.Quantity.Value,
			})
		}
	}

	// Category
	if item.CatalogRefList != nil {
		refs := item.CatalogRefList.CatalogRef
		ref, ok := lo.Find(refs, func(r ikea.IOWSCatalogRef) bool {
			return r.Catalog.CatalogID.Value == genericCatalogID
		})
		if !ok && len(refs) > 0 {
			ref, ok = refs[0], true
		}
		if ok && len(ref.CatalogElementList.CatalogElement) > 0 {
			el := ref.CatalogElementList.CatalogElement[0]
			p.CategoryName = el.CatalogElementName.Value
			p.CategoryURL = c.LocalBaseURL() + "/cat/-" + string(el.CatalogElementID.Value)
		}
	}

	return p
}

// IngkaItems converts sales item communications. Texts are taken from the
// communication in the market language when present.
func IngkaItems(c ikea.Constants, resp ikea.IngkaResponse) []domain.ParsedItem {
	parsed := make([]domain.ParsedItem, 0, len(resp.Data))
	for i := range resp.Data {
		item := &resp.Data[i]
		isCombination := item.ItemKey.ItemType == string(domain.ItemCombination)
		p := domain.ParsedItem{
			IsCombination: isCombination,
			ItemCode:      item.ItemKey.ItemNo,
			URL:           ItemURL(c, item.ItemKey.ItemNo, isCombination),
		}

		if comm, ok := localised(c.Language, item.LocalisedCommunications); ok {
			var design, measure string
			if comm.ValidDesign != nil {
				design = comm.ValidDesign.Text
			}
			if comm.Measurements != nil && len(comm.Measurements.ReferenceMeasurements) > 0 {
				measure = comm.Measurements.ReferenceMeasurements[0].Metric
			}
			p.Name = itemName(comm.ProductName, comm.ProductType.Name, design, measure)
			p.ImageURL = ingkaImage(comm.Media)
			for _, m := range comm.PackageMeasurements {
				if m.Type == weightMeasureType {
					p.Weight += m.ValueMetric.InexactFloat64()
				}
			}
		}

		for _, ch := range item.ChildItems {
			p.ChildItems = append(p.ChildItems, domain.ChildItem{
				ItemCode: ch.ItemKey.ItemNo,
				Name:     ch.Name,
				Weight:   ParseWeight(ch.Weight),
				Qty:      ch.Quantity,
			})
		}

		parsed = append(parsed, p)
	}
	return parsed
}

func localised(lang string, comms []ikea.IngkaCommunication) (ikea.IngkaCommunication, bool) {
	if comm, ok := lo.Find(comms, func(c ikea.IngkaCommunication) bool {
		return c.LanguageCode == lang
	}); ok {
		return comm, true
	}
	if len(comms) > 0 {
		return comms[0], true
	}
	return ikea.IngkaCommunication{}, false
}

func ingkaImage(media []ikea.IngkaMedia) string {
	var fallback string
	for _, m := range media {
		if m.TypeName != mainImageType {
			continue
		}
		for _, v := range m.Variants {
			if v.Quality == preferredImageSize {
				return v.Href
			}
			if fallback == "" {
				fallback = v.Href
			}
		}
	}
	return fallback
}

// PIPItem converts a product information page into the fields it
// contributes to a ParsedItem: price, URL and category. A nil page yields
// ok == false.
func PIPItem(item *ikea.PIPItem) (domain.ParsedItem, bool) {
	if item == nil {
		return domain.ParsedItem{}, false
	}
	p := domain.ParsedItem{
		ItemCode: item.ID,
		Price:    item.PriceNumeral,
		URL:      item.PipURL,
	}
	if item.CatalogRefs.Products != nil {
		p.CategoryName = item.CatalogRefs.Products.Name
		p.CategoryURL = item.CatalogRefs.Products.URL
	}
	return p, true
}

// MergePIP fills price, URL and category of base from pip.
func MergePIP(base, pip domain.ParsedItem) domain.ParsedItem {
	if !pip.Price.Equal(decimal.Zero) {
		base.Price = pip.Price
	}
	if pip.URL != "" {
		base.URL = pip.URL
	}
	if pip.CategoryName != "" {
		base.CategoryName = pip.CategoryName
		base.CategoryURL = pip.CategoryURL
	}
	return base
}

// ParseWeight reads the number at the start of a text such as "12,5 kg".
func ParseWeight(text string) float64 {
	m := leadingNumber.FindString(text)
	if m == "" {
		return 0
	}
	w, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return 0
	}
	return w
}

func itemName(parts ...string) string {
	return strings.Join(lo.Compact(lo.Map(parts, func(s string, _ int) string {
		return strings.TrimSpace(s)
	})), ", ")
}

func dollarString(d *ikea.Dollar[string]) string {
	if d == nil {
		return ""
	}
	return d.Value
}

func absoluteURL(c ikea.Constants, u string) string {
	if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(u, "/")
}
