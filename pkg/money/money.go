// Package money formatea importes en pesos mexicanos con las convenciones de es-MX.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.MustParse("es-MX"))

// MXN formatea d como moneda con dos decimales y separador de miles: $1,234.50.
func MXN(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	if f < 0 {
		return "-$" + printer.Sprintf("%.2f", -f)
	}
	return "$" + printer.Sprintf("%.2f", f)
}

// Number formatea un entero con separador de miles.
func Number(n int) string {
	return printer.Sprintf("%d", n)
}
