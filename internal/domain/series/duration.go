package series

import "github.com/okian/medb/internal/domain/model"

// DayLengthMs is the bucket width used by SplitDuration. Buckets are aligned
// to multiples of it from the Unix epoch, i.e. UTC midnights, with no
// daylight-saving adjustment.
const DayLengthMs int64 = 24 * 60 * 60 * 1000

// maxPrealloc caps the capacity hint of SplitDuration's result.
const maxPrealloc = 64

// SplitDuration breaks the interval [startMs, startMs+durationMs) into one
// measurement per UTC day it touches. Each measurement is timestamped at the
// start of its piece and valued with the piece length in milliseconds, so the
// values always sum to durationMs. A non-positive duration yields nothing.
func SplitDuration(startMs, durationMs int64, group, source string) []model.Measurement {
	if durationMs <= 0 {
		return nil
	}

	out := make([]model.Measurement, 0, min(durationMs/DayLengthMs+2, maxPrealloc))
	cur, remaining := startMs, durationMs
	for remaining > 0 {
		inDay := DayLengthMs - floorMod(cur, DayLengthMs)
		v := min(inDay, remaining)
		out = append(out, model.Measurement{
			MsSinceUnixEpoch: cur,
			Value:            v,
			Group:            group,
			Source:           source,
		})
		cur += v
		remaining -= v
	}
	return out
}

// floorMod is a mod b in [0, b) for pre-epoch timestamps too.
func floorMod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
