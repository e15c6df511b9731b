package stock

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// ParsePrice нормализует цену выгрузки вида "5'990.00 руб." к 5990:
// дробная часть и все нечисловые символы отбрасываются.
func ParsePrice(raw string) (decimal.Decimal, error) {
	integer := strings.SplitN(raw, ".", 2)[0]
	digits := nonDigits.ReplaceAllString(integer, "")
	if digits == "" {
		return decimal.Zero, fmt.Errorf("price %q has no digits", raw)
	}
	price, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price %q: %w", raw, err)
	}
	return price, nil
}

// ParseQuantity переводит остаток из нотации выгрузки в число:
// ">10" -- запаса достаточно, условно 100; "1" -- витринный экземпляр,
// в продажу не идёт; пустая ячейка -- ноль.
func ParseQuantity(raw string) (int, error) {
	switch strings.TrimSpace(raw) {
	case ">10":
		return 100, nil
	case "1":
		return 0, nil
	case "":
		return 0, nil
	}
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("quantity %q: %w", raw, err)
	}
	return qty, nil
}
