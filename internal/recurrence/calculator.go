package recurrence

import "time"

// NextOnOrAfter возвращает первый момент, достижимый из start повторным Advance, который не раньше minInclusive.
// Нулевые start и minInclusive заменяются текущим временем.
//
// Для DAILY и WEEKLY целые периоды пропускаются по календарным дням в пределах одного смещения зоны,
// поэтому разрыв в годы не приводит к долгому циклу. Для месячных частот цикл делает не больше двенадцати шагов на год разрыва
// и повторяет прижатие к концу месяца ровно так же, как последовательные вызовы Advance.
func NextOnOrAfter(start time.Time, f Frequency, minInclusive time.Time) time.Time {
	now := time.Now()
	if start.IsZero() {
		start = now
	}
	if minInclusive.IsZero() {
		minInclusive = now
	}

	candidate := start
	if !candidate.Before(minInclusive) {
		return candidate
	}

	if step, ok := dayStep(f); ok {
		for candidate.Before(minInclusive) {
			candidate = jumpWithinZone(candidate, step, minInclusive)
			candidate = Advance(candidate, f)
		}
		return candidate
	}

	for candidate.Before(minInclusive) {
		candidate = Advance(candidate, f)
	}
	return candidate
}

// jumpWithinZone сдвигает t на целое число шагов по step дней, не выходя за target
// и за границу текущего смещения зоны. Внутри одного смещения AddDate на n шагов совпадает
// с n последовательными Advance, а переход через разрыв летнего времени делается обычным шагом.
func jumpWithinZone(t time.Time, step int, target time.Time) time.Time {
	if _, end := t.ZoneBounds(); !end.IsZero() && end.Before(target) {
		target = end
	}
	elapsed := DateOf(target.In(t.Location())).civilDays() - DateOf(t).civilDays()
	if periods := elapsed/int64(step) - 1; periods > 0 {
		return t.AddDate(0, 0, int(periods)*step)
	}
	return t
}

// StartOfDay возвращает полночь дня, в который попадает t.
func StartOfDay(t time.Time) time.Time {
	return DateOf(t).StartOfDay(t.Location())
}
