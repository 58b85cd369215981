package color

// Balanced colors regions greedily by descending overlap degree. Each region
// takes the palette entry not used by any colored neighbor with the lowest
// usage count so far, the lowest index winning ties.
type Balanced struct{}

// Name implements [Strategy].
func (Balanced) Name() string { return "balanced" }

// Assign implements [Strategy].
func (b Balanced) Assign(in Input) Assignment {
	s := newState(in)
	for _, i := range s.order() {
		filled := s.reuse(i)
		used := s.neighborIndices(i)
		for _, k := range s.out.Indices[i] {
			if k >= 0 {
				used[k] = true
			}
		}

		for range s.slots(i) - filled {
			best := -1
			for k := range in.Palette {
				if used[k] {
					continue
				}
				if best < 0 || s.out.Usage[k] < s.out.Usage[best] {
					best = k
				}
			}
			s.pick(i, best, b.Name())
			if best >= 0 {
				used[best] = true
			}
		}
		s.done[i] = true
	}
	return s.out
}
