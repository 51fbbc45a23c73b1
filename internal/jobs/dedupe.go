package jobs

import "github.com/autotouch/outbound/internal/model"

// Dedupe splits jobs into first sightings and later duplicates by Key.
// Every input lands in exactly one of the two slices; unique keeps input order.
func Dedupe(jobs []model.Job) (unique, duplicates []model.Job) {
	seen := make(map[string]struct{}, len(jobs))
	for _, job := range jobs {
		key := Key(job)
		if _, ok := seen[key]; ok {
			duplicates = append(duplicates, job)
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, job)
	}
	return unique, duplicates
}

// ByKey indexes jobs by Key, keeping the first job for each key.
func ByKey(jobs []model.Job) map[string]model.Job {
	out := make(map[string]model.Job, len(jobs))
	for _, job := range jobs {
		key := Key(job)
		if _, ok := out[key]; !ok {
			out[key] = job
		}
	}
	return out
}

// ExtractJobs finds the job list inside a decoded provider body. The list may
// be the body itself or sit under "data", "jobs" or "results". Entries that
// are not JSON objects are skipped.
func ExtractJobs(data any) []model.Job {
	switch d := data.(type) {
	case []any:
		return toJobs(d)
	case map[string]any:
		for _, k := range []string{"data", "jobs", "results"} {
			if list, ok := d[k].([]any); ok {
				return toJobs(list)
			}
		}
	}
	return nil
}

func toJobs(items []any) []model.Job {
	out := make([]model.Job, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, model.Job(m))
		}
	}
	return out
}
