package utils

import (
	"hash/fnv"
	"math/rand"
	"time"
)

// NewRand создает детерминированный генератор. seed == 0 означает
// "случайный сид от текущего времени".
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// RandRange возвращает целое из полуинтервала [min, max).
// Если интервал пустой, возвращается min.
func RandRange(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min)
}

// StringToSeed превращает произвольную строку (например, название уровня)
// в сид. Одна и та же строка всегда дает один и тот же сид.
func StringToSeed(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
