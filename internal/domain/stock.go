package domain

import "github.com/zaytuna-store/go-backend/pkg/e"

// Правило учёта остатков: остаток товара и статус заказа/лида меняются
// только вместе. Неотслеживаемый остаток (nil) удовлетворяет любой запрос
// и никогда не изменяется.

// StockAvailable возвращает доступное количество и признак отслеживания.
// Для неотслеживаемого остатка tracked == false, units не имеет смысла.
func StockAvailable(stock *int64) (units int64, tracked bool) {
	if stock == nil {
		return 0, false
	}
	return *stock, true
}

// ReserveStock списывает qty единиц и возвращает новое значение остатка.
// Возвращает e.ErrInsufficientStock, если доступно меньше qty;
// остаток при этом не меняется.
func ReserveStock(stock *int64, qty int64) (*int64, error) {
	units, tracked := StockAvailable(stock)
	if !tracked {
		return nil, nil
	}

	if units < qty {
		return stock, e.ErrInsufficientStock
	}

	left := units - qty
	return &left, nil
}

// ReleaseStock возвращает qty единиц обратно на остаток.
// Верхняя граница не проверяется: если остаток параллельно уменьшили
// вручную, возврат может поднять его выше физического потолка.
func ReleaseStock(stock *int64, qty int64) *int64 {
	units, tracked := StockAvailable(stock)
	if !tracked {
		return nil
	}

	restored := units + qty
	return &restored
}
