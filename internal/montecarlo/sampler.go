package montecarlo

import "math"

// RandomSource yields uniform draws in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// normalSampler turns uniform draws into standard normals with the Box-Muller
// transform, keeping the second value of each pair for the next call
type normalSampler struct {
	src      RandomSource
	spare    float64
	hasSpare bool
}

func newNormalSampler(src RandomSource) *normalSampler {
	return &normalSampler{src: src}
}

func (s *normalSampler) next() float64 {
	if s.hasSpare {
		s.hasSpare = false
		return s.spare
	}
	u1 := s.src.Float64()
	for u1 <= 0 {
		u1 = s.src.Float64()
	}
	u2 := s.src.Float64()

	r := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2
	s.spare = r * math.Sin(theta)
	s.hasSpare = true
	return r * math.Cos(theta)
}

// reservoir keeps a uniform sample of fixed size from a stream (Algorithm R)
type reservoir struct {
	items []float64
	size  int
	seen  int
	src   RandomSource
}

func newReservoir(size int, src RandomSource) *reservoir {
	return &reservoir{items: make([]float64, 0, size), size: size, src: src}
}

func (r *reservoir) add(v float64) {
	r.seen++
	if len(r.items) < r.size {
		r.items = append(r.items, v)
		return
	}
	j := int(r.src.Float64() * float64(r.seen))
	if j < r.size {
		r.items[j] = v
	}
}

// mergeReservoirs combines reservoirs drawn from disjoint partitions of one stream.
// Each partition contributes slots in proportion to how many values it saw, filled by a
// random subset of its own sample.
func mergeReservoirs(parts []*reservoir, size int, src RandomSource) []float64 {
	total := 0
	for _, p := range parts {
		total += p.seen
	}
	if total == 0 {
		return nil
	}

	quota := make([]int, len(parts))
	remainders := make([]float64, len(parts))
	assigned := 0
	for i, p := range parts {
		exact := float64(size) * float64(p.seen) / float64(total)
		quota[i] = int(exact)
		if quota[i] > len(p.items) {
			quota[i] = len(p.items)
		}
		remainders[i] = exact - float64(quota[i])
		assigned += quota[i]
	}
	for assigned < size {
		best := -1
		for i, p := range parts {
			if quota[i] >= len(p.items) {
				continue
			}
			if best < 0 || remainders[i] > remainders[best] {
				best = i
			}
		}
		if best < 0 {
			break
		}
		quota[best]++
		remainders[best] = -1
		assigned++
	}

	merged := make([]float64, 0, assigned)
	for i, p := range parts {
		items := append([]float64(nil), p.items...)
		// partial Fisher-Yates picks quota[i] items uniformly
		for k := 0; k < quota[i]; k++ {
			j := k + int(src.Float64()*float64(len(items)-k))
			items[k], items[j] = items[j], items[k]
		}
		merged = append(merged, items[:quota[i]]...)
	}
	return merged
}
