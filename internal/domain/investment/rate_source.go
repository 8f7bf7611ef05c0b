package investment

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

// RateSource fornece a variação percentual mensal usada pela simulação de
// crescimento. Injetável para tornar a simulação determinística em teste.
type RateSource interface {
	MonthlyRate() decimal.Decimal
}

// RandomRateSource sorteia uma variação uniforme em [-5, 5) por cento.
type RandomRateSource struct{}

func NewRandomRateSource() *RandomRateSource {
	return &RandomRateSource{}
}

func (r *RandomRateSource) MonthlyRate() decimal.Decimal {
	return decimal.NewFromFloat(rand.Float64()*10 - 5)
}
