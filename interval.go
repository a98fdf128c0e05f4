package kfeed

// NearestSupported выбирает из supported (по возрастанию) ближайший
// множитель, не превышающий запрошенный. Если запрошенный меньше
// минимального поддерживаемого, возвращается минимальный. Запрос более
// мелкого периода, чем есть у провайдера, деградирует до поддерживаемого —
// это видимое пользователю поведение, а не ошибка.
func NearestSupported(multiplier int, supported []int) int {
	if len(supported) == 0 {
		return multiplier
	}
	best := supported[0]
	for _, m := range supported {
		if m > multiplier {
			break
		}
		best = m
	}
	return best
}
