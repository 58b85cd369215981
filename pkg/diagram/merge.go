package diagram

import "slices"

// MergeDuplicates absorbs every region whose non-empty statement set and
// shape equal those of an earlier region. The absorbed region's headers are
// appended to the survivor's, its statement references move to the survivor
// and it is removed. It returns the IDs of the removed regions.
func (d *Diagram) MergeDuplicates() []string {
	survivor := make([]int, len(d.Regions))
	var removed []string
	for j, r := range d.Regions {
		survivor[j] = j
		if len(r.Statements) == 0 {
			continue
		}
		for i := range j {
			s := d.Regions[i]
			if survivor[i] != i || !slices.Equal(s.Statements, r.Statements) || !s.Shape.Equal(r.Shape) {
				continue
			}
			s.Headers = append(s.Headers, r.Headers...)
			survivor[j] = i
			removed = append(removed, r.ID)
			break
		}
	}
	if len(removed) == 0 {
		return nil
	}

	newIdx := make([]int, len(d.Regions))
	kept := d.Regions[:0:0]
	for j, r := range d.Regions {
		if survivor[j] == j {
			newIdx[j] = len(kept)
			kept = append(kept, r)
		}
	}
	for j := range survivor {
		newIdx[j] = newIdx[survivor[j]]
	}
	d.Regions = kept

	for _, s := range d.Statements {
		regions := make([]int, 0, len(s.Regions))
		for _, ri := range s.Regions {
			regions = append(regions, newIdx[ri])
		}
		slices.Sort(regions)
		s.Regions = slices.Compact(regions)
	}

	d.refresh()
	return removed
}
