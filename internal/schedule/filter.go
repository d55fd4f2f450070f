package schedule

// FilterLive returns the live records in their original relative order. The
// returned slice shares record pointers with the input.
func FilterLive(records []*Record) []*Record {
	live := make([]*Record, 0, len(records))
	for _, r := range records {
		if r.IsLive {
			live = append(live, r)
		}
	}
	return live
}
