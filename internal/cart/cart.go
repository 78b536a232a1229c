package cart

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quickbite/ordering/internal/pricing"
	"github.com/quickbite/ordering/internal/promotion"
)

// Option is one chosen item option. Surcharge is added to the unit price.
type Option struct {
	Name      string          `json:"name"`
	Surcharge decimal.Decimal `json:"surcharge,omitempty"`
}

// LineItem is one catalog item plus chosen options and quantity. UnitPrice
// and surcharges are fixed when the line is first added; later catalog price
// changes never touch an existing line.
type LineItem struct {
	LineID    string          `json:"line_id"`
	ItemID    string          `json:"item_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Options   []Option        `json:"options,omitempty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

func (li LineItem) pricingLine() pricing.Line {
	surcharges := make([]decimal.Decimal, 0, len(li.Options))
	for _, o := range li.Options {
		surcharges = append(surcharges, o.Surcharge)
	}
	return pricing.Line{
		UnitPrice:        li.UnitPrice,
		OptionSurcharges: surcharges,
		Quantity:         li.Quantity,
	}
}

func (li LineItem) clone() LineItem {
	out := li
	if li.Options != nil {
		out.Options = make([]Option, len(li.Options))
		copy(out.Options, li.Options)
	}
	return out
}

// lineFingerprint identifies a line by item plus option set. Option names are
// sorted so the same set merges regardless of the order the caller sent them.
func lineFingerprint(itemID string, opts []Option) string {
	if len(opts) == 0 {
		return itemID
	}
	names := make([]string, 0, len(opts))
	for _, o := range opts {
		names = append(names, o.Name)
	}
	sort.Strings(names)
	return itemID + "|" + strings.Join(names, ",")
}

// Snapshot is an immutable copy of the cart: the lines in insertion order,
// the applied promotion (if any) and the derived quote.
type Snapshot struct {
	Items     []LineItem           `json:"items"`
	Promotion *promotion.Promotion `json:"promotion,omitempty"`
	Quote     pricing.Quote        `json:"quote"`
}

// IsEmpty reports whether the snapshot holds no line items.
func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}
