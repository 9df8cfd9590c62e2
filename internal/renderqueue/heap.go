package renderqueue

import "container/heap"

// backlog is a min-heap of pending jobs. Interactive jobs run in arrival
// order. Background jobs run by filename, so a build renders a vault in the
// same order every time.
type backlog []*Job

var _ heap.Interface = (*backlog)(nil)

// runsBefore reports whether a is taken off the backlog before b.
func runsBefore(a, b *Job) bool {
	switch {
	case a.Tier != b.Tier:
		return a.Tier < b.Tier
	case a.Tier == TierBackground && a.Filename != b.Filename:
		return a.Filename < b.Filename
	case !a.SubmittedAt.Equal(b.SubmittedAt):
		return a.SubmittedAt.Before(b.SubmittedAt)
	}
	return a.Filename < b.Filename
}

func (b backlog) Len() int           { return len(b) }
func (b backlog) Less(i, j int) bool { return runsBefore(b[i], b[j]) }

func (b backlog) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
	b[i].heapIndex, b[j].heapIndex = i, j
}

func (b *backlog) Push(x any) {
	job := x.(*Job)
	job.heapIndex = len(*b)
	*b = append(*b, job)
}

func (b *backlog) Pop() any {
	jobs := *b
	last := len(jobs) - 1
	job := jobs[last]
	jobs[last] = nil
	job.heapIndex = -1
	*b = jobs[:last]
	return job
}

// promote moves a pending job up to tier. Lower tiers are ignored.
func (b *backlog) promote(job *Job, tier Tier) {
	if tier >= job.Tier {
		return
	}
	job.Tier = tier
	heap.Fix(b, job.heapIndex)
}
