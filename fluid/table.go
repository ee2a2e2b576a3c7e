// SPDX-License-Identifier: EPL-2.0

package fluid

import (
	"math"
	"sync"
)

const (
	// Order is the number of source samples weighted per output sample.
	Order = 7
	// Rows is the number of fractional positions the table resolves.
	Rows = 256
)

var (
	tableOnce sync.Once
	table     [Rows][Order]float64
)

// coefficients returns the windowed sinc table, building it on first use.
// Row r holds the taps for the fractional position (Rows-1-r)/Rows.
func coefficients() *[Rows][Order]float64 {
	tableOnce.Do(func() {
		for i := range Order {
			for i2 := range Rows {
				x := float64(i) - float64(Order)/2 + float64(i2)/Rows

				v := 1.0
				if math.Abs(x) > 0.000001 {
					arg := math.Pi * x
					v = math.Sin(arg) / arg
					v *= 0.5 * (1 + math.Cos(2*arg/Order))
				}

				table[Rows-i2-1][i] = v
			}
		}
	})

	return &table
}

// Coefficient returns tap of row. Out of range arguments yield 0.
func Coefficient(row, tap int) float64 {
	if row < 0 || row >= Rows || tap < 0 || tap >= Order {
		return 0
	}

	return coefficients()[row][tap]
}
