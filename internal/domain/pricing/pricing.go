package pricing

import "github.com/shopspring/decimal"

// TaxRate は税率10%（固定）。
var TaxRate = decimal.New(10, -2)

// Line は価格計算の1明細（単価×数量）。
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int64
}

// Totals はカート/注文の集計値。
// Subtotal は丸めずに正確に保持し、Tax と Total は2桁に量子化する。
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Calculate は明細集合から小計・税・合計を求める。
//   - subtotal = Σ(単価×数量)。途中で丸めない。
//   - tax = (subtotal × TaxRate) を2桁に四捨五入。
//   - total = (subtotal + tax) を2桁に四捨五入。
func Calculate(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
	}

	tax := subtotal.Mul(TaxRate).Round(2)
	total := subtotal.Add(tax).Round(2)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
	}
}

// LineDisplay はカート画面向けの税込表示。
// 単価ごとに税を丸めてから数量を掛けるため、Calculate の集計税と
// 最小単位でずれることがある。この挙動は画面仕様として維持する。
type LineDisplay struct {
	UnitTax          decimal.Decimal
	UnitPriceInclTax decimal.Decimal
	SubtotalInclTax  decimal.Decimal
}

// DisplayLine は1明細の税込単価と税込小計を独立に丸めて返す。
func DisplayLine(unitPrice decimal.Decimal, quantity int64) LineDisplay {
	unitTax := unitPrice.Mul(TaxRate).Round(2)
	inclTax := unitPrice.Add(unitTax)
	subtotal := inclTax.Mul(decimal.NewFromInt(quantity)).Round(2)

	return LineDisplay{
		UnitTax:          unitTax,
		UnitPriceInclTax: inclTax,
		SubtotalInclTax:  subtotal,
	}
}
