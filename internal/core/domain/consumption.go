package domain

import "github.com/shopspring/decimal"

// ConsumptionSummary aggregates consumed volume and cost for a scope (area,
// counter, location or the whole venue set).
type ConsumptionSummary struct {
	ConsumedVolume decimal.Decimal `json:"consumedVolume"` // ml
	Cost           decimal.Decimal `json:"cost"`
	EntryCount     int             `json:"entryCount"`
	MissingProduct int             `json:"missingProduct"`
}

// totalVolume converts a crate/bottle/open-volume triple into milliliters.
func totalVolume(crates, bottles, open float64, p *Product) decimal.Decimal {
	perCrate := 0
	if p.ItemsPerCrate != nil {
		perCrate = *p.ItemsPerCrate
	}
	vol := decimal.NewFromFloat(p.Volume)
	total := decimal.NewFromFloat(crates).Mul(decimal.NewFromInt(int64(perCrate))).Mul(vol)
	total = total.Add(decimal.NewFromFloat(bottles).Mul(vol))
	return total.Add(decimal.NewFromFloat(open))
}

// EntryConsumedVolume returns the volume in ml consumed between the start and
// end counts of one inventory entry. Counting noise can make the end counts
// exceed the start counts; the result is floored at zero rather than reported
// as negative consumption.
func EntryConsumedVolume(e *InventoryEntry, p *Product) decimal.Decimal {
	start := totalVolume(e.StartCrates, e.StartBottles, e.StartOpenVolume, p)
	end := totalVolume(e.EndCrates, e.EndBottles, e.EndOpenVolume, p)
	consumed := start.Sub(end)
	if consumed.IsNegative() {
		return decimal.Zero
	}
	return consumed
}

// EntryConsumptionCost prices the consumed volume of one entry as
// bottle-equivalents times the product's bottle price.
func EntryConsumptionCost(e *InventoryEntry, p *Product) decimal.Decimal {
	if p.Volume <= 0 {
		return decimal.Zero
	}
	bottles := EntryConsumedVolume(e, p).Div(decimal.NewFromFloat(p.Volume))
	return bottles.Mul(p.PricePerBottle).Round(4)
}

// AreaConsumption sums consumption over all entries of an area. Entries whose
// product definition is missing from the index are counted in MissingProduct
// and otherwise skipped; a dangling reference is a valid state here, not an
// error.
func AreaConsumption(area *Area, products map[string]*Product) ConsumptionSummary {
	var sum ConsumptionSummary
	sum.ConsumedVolume = decimal.Zero
	sum.Cost = decimal.Zero
	for i := range area.InventoryItems {
		entry := &area.InventoryItems[i]
		p, ok := products[entry.ProductID]
		if !ok || p == nil {
			sum.MissingProduct++
			continue
		}
		sum.ConsumedVolume = sum.ConsumedVolume.Add(EntryConsumedVolume(entry, p))
		sum.Cost = sum.Cost.Add(EntryConsumptionCost(entry, p))
		sum.EntryCount++
	}
	return sum
}

// LocationConsumption aggregates AreaConsumption over every counter and area
// of a location.
func LocationConsumption(loc *Location, products map[string]*Product) ConsumptionSummary {
	total := ConsumptionSummary{ConsumedVolume: decimal.Zero, Cost: decimal.Zero}
	for i := range loc.Counters {
		for j := range loc.Counters[i].Areas {
			s := AreaConsumption(&loc.Counters[i].Areas[j], products)
			total.ConsumedVolume = total.ConsumedVolume.Add(s.ConsumedVolume)
			total.Cost = total.Cost.Add(s.Cost)
			total.EntryCount += s.EntryCount
			total.MissingProduct += s.MissingProduct
		}
	}
	return total
}

// ProductIndex builds the id lookup the consumption calculators consume.
func ProductIndex(products []Product) map[string]*Product {
	idx := make(map[string]*Product, len(products))
	for i := range products {
		idx[products[i].ID] = &products[i]
	}
	return idx
}
